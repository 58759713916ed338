// Package usage defines the value types for LLM usage accounting.
package usage

// Record accumulates enrichment usage for one calendar day.
type Record struct {
	Requests int     `json:"requests"`
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
}

// Report is a daily usage report with quota context.
type Report struct {
	PeriodStart int64  `json:"period_start"` // unix millis
	PeriodEnd   int64  `json:"period_end"`   // unix millis
	Record      Record `json:"record"`
	RequestsMax int    `json:"requests_max"`
	Remaining   int    `json:"requests_remaining"`
	Exhausted   bool   `json:"exhausted"`
}
