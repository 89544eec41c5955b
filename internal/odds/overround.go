package odds

// Overround returns the bookmaker margin as excess implied mass, floored at 0.
func Overround(prices Outcomes) (float64, error) {
	implied, err := DecimalToImplied(prices)
	if err != nil {
		return 0, err
	}
	return max(0, implied.Sum()-1.0), nil
}

// MarginPercentage returns the margin as a share of total implied mass.
func MarginPercentage(prices Outcomes) (float64, error) {
	implied, err := DecimalToImplied(prices)
	if err != nil {
		return 0, err
	}
	total := implied.Sum()
	if total == 0 {
		return 0, nil
	}
	return (total - 1.0) / total, nil
}
