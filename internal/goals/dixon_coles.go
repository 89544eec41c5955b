package goals

import "math"

// DixonColesAdjustment returns the multipliers for the 0/1 x 0/1 corner,
// indexed [home goals][away goals].
func DixonColesAdjustment(lambdaHome, lambdaAway, rho float64) [2][2]float64 {
	return [2][2]float64{
		{1 - lambdaHome*lambdaAway*rho, 1 + lambdaHome*rho},
		{1 + lambdaAway*rho, 1 - rho},
	}
}

// DixonColes applies the low-score correlation to the independent matrix and
// renormalizes. rho = 0 gives the independent model back.
func DixonColes(p Params, rho float64, maxGoals int) (*Prediction, error) {
	if err := checkMaxGoals(maxGoals); err != nil {
		return nil, err
	}
	m := independentMatrix(p, maxGoals)
	adjust := DixonColesAdjustment(p.LambdaHome, p.LambdaAway, rho)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			m[i][j] *= adjust[i][j]
		}
	}
	return predictionFrom(m)
}

// LogLikelihoodDC is the log-probability of one observed scoreline, with a
// 1e-12 floor inside the log.
func LogLikelihoodDC(homeGoals, awayGoals int, p Params, rho float64) float64 {
	prob := PoissonPMF(p.LambdaHome, homeGoals) * PoissonPMF(p.LambdaAway, awayGoals)
	if homeGoals <= 1 && awayGoals <= 1 && homeGoals >= 0 && awayGoals >= 0 {
		prob *= DixonColesAdjustment(p.LambdaHome, p.LambdaAway, rho)[homeGoals][awayGoals]
	}
	return math.Log(prob + 1e-12)
}
