package service

// CompetitionRanks assigns ranks to mmrs sorted in descending order. Equal
// values share the better rank and the following rank skips ahead, so the
// result always equals 1 + the number of strictly greater values.
func CompetitionRanks(mmrs []float64) []int {
	ranks := make([]int, len(mmrs))
	for i, mmr := range mmrs {
		if i > 0 && mmr == mmrs[i-1] {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}
