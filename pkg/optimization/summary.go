// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a borrowing capacity search.
type Summary struct {
	Scenario     string   `json:"scenario"`
	Field        string   `json:"field"`
	Original     float64  `json:"original"`
	Value        float64  `json:"value"`
	Floor        float64  `json:"floor"`
	Surplus      float64  `json:"surplus"`
	Headroom     float64  `json:"headroom"`
	Iterations   int      `json:"iterations"`
	Converged    bool     `json:"converged"`
	Notes        []string `json:"notes,omitempty"`
	ValueDisplay string   `json:"valueDisplay,omitempty"`
}

// Feasible reports whether the chosen value keeps the surplus at or above
// the floor.
func (s Summary) Feasible() bool {
	return s.Headroom >= 0
}
