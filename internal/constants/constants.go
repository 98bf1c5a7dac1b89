package constants

import "time"

const (
	PageSessionTTL  = 10 * time.Minute
	ServerNameTTL   = 30 * time.Minute
	SessionSweepTTL = time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultPageSize   = 10
	MaxPageSize       = 50
	MaxHistoryLimit   = 100
	ServerNameWorkers = 4
)
