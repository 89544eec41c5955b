package goals

// Skellam returns only the 1X2 triple for two independent Poisson rates,
// for callers that do not need the scoreline matrix.
func Skellam(p Params, maxGoals int) (OneXTwo, error) {
	if err := checkMaxGoals(maxGoals); err != nil {
		return OneXTwo{}, err
	}
	return independentMatrix(p, maxGoals).OneXTwo()
}
