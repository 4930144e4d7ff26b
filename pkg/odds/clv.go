package odds

// Grade buckets for closing line value. Positive CLV means the market
// moved toward the bet after it was placed, the strongest known
// predictor of long-run profitability.
type CLVGrade string

const (
	CLVExcellent CLVGrade = "EXCELLENT"
	CLVGood      CLVGrade = "GOOD"
	CLVNeutral   CLVGrade = "NEUTRAL"
	CLVPoor      CLVGrade = "POOR"
)

// CLV returns the closing line value of a bet in probability points:
// implied(close) minus implied(bet price). +0.02 means the close implies
// two more points of win probability than the price taken.
func CLV(betPrice, closePrice float64) float64 {
	return ImpliedProbability(closePrice) - ImpliedProbability(betPrice)
}

// GradeCLV buckets a CLV value for reporting.
func GradeCLV(clv float64) CLVGrade {
	switch {
	case clv >= 0.02:
		return CLVExcellent
	case clv >= 0.005:
		return CLVGood
	case clv >= 0:
		return CLVNeutral
	default:
		return CLVPoor
	}
}
