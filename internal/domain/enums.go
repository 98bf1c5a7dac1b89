package domain

import (
	"fmt"
	"strings"
)

type Side string

const (
	SideBlue Side = "BLUE"
	SideRed  Side = "RED"
)

func (s Side) Valid() bool {
	return s == SideBlue || s == SideRed
}

func ParseSide(s string) (Side, error) {
	side := Side(strings.ToUpper(strings.TrimSpace(s)))
	if !side.Valid() {
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidArgument, s)
	}
	return side, nil
}

type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JGL"
	RoleMid     Role = "MID"
	RoleBottom  Role = "BOT"
	RoleSupport Role = "SUP"
)

var roleAliases = map[string]Role{
	"top":     RoleTop,
	"jgl":     RoleJungle,
	"jg":      RoleJungle,
	"jungle":  RoleJungle,
	"jungler": RoleJungle,
	"mid":     RoleMid,
	"middle":  RoleMid,
	"bot":     RoleBottom,
	"bottom":  RoleBottom,
	"adc":     RoleBottom,
	"ad":      RoleBottom,
	"sup":     RoleSupport,
	"supp":    RoleSupport,
	"support": RoleSupport,
}

func (r Role) Valid() bool {
	switch r {
	case RoleTop, RoleJungle, RoleMid, RoleBottom, RoleSupport:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	if role, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return role, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
}
