package portfolio

// Candidate is one symbol eligible for allocation: it has a last close,
// a forecast point estimate and a return volatility.
type Candidate struct {
	Symbol        string
	LastClose     float64
	ForecastPrice float64
	Volatility    float64
}

// Allocation is one symbol's share of the investment amount.
type Allocation struct {
	Symbol         string  `json:"symbol"`
	Weight         float64 `json:"weight"`
	Amount         float64 `json:"amount"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
}

// riskPenalty maps the user's risk profile (1=low, 2=medium, 3=high) to
// the volatility penalty applied to expected returns. A cautious profile
// discounts volatile symbols harder.
func riskPenalty(profile int) float64 {
	switch profile {
	case 1:
		return 3.0
	case 3:
		return 0.5
	default:
		return 1.5
	}
}

// Allocate splits the investment amount across candidates proportionally
// to volatility-penalized expected return. Candidates with no positive
// score fall back to an equal split so the amount is always fully
// allocated when any candidate exists.
func Allocate(investment float64, riskProfile int, candidates []Candidate) []Allocation {
	if investment <= 0 || len(candidates) == 0 {
		return nil
	}

	penalty := riskPenalty(riskProfile)

	allocations := make([]Allocation, 0, len(candidates))
	scores := make([]float64, 0, len(candidates))
	var total float64
	for _, c := range candidates {
		if c.LastClose <= 0 {
			continue
		}
		expected := c.ForecastPrice/c.LastClose - 1

		score := expected - penalty*c.Volatility
		if score < 0 {
			score = 0
		}
		scores = append(scores, score)
		total += score

		allocations = append(allocations, Allocation{
			Symbol:         c.Symbol,
			ExpectedReturn: expected,
			Volatility:     c.Volatility,
		})
	}
	if len(allocations) == 0 {
		return nil
	}

	for i := range allocations {
		weight := 1.0 / float64(len(allocations))
		if total > 0 {
			weight = scores[i] / total
		}
		allocations[i].Weight = weight
		allocations[i].Amount = weight * investment
	}

	return allocations
}
