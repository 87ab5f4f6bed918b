package eval

// ComputeRates reduces verdicts to the three summary rates, each in
// [0,1]. An empty verdict list yields (0, 0, 0) by contract: "no quotes
// in answer" must still render numerically downstream.
func ComputeRates(verdicts []Verdict) (verbatim, citation, hallucination float64) {
	if len(verdicts) == 0 {
		return 0, 0, 0
	}
	var v, c, h int
	for _, verdict := range verdicts {
		if verdict.VerbatimMatch {
			v++
		}
		if verdict.CitationCorrect {
			c++
		}
		if verdict.Hallucinated {
			h++
		}
	}
	n := float64(len(verdicts))
	return float64(v) / n, float64(c) / n, float64(h) / n
}
