package usage

import domusage "github.com/zoeklicht/zoeklicht/internal/domain/usage"

// GovernorReader provides read-only access to the governor's daily state.
type GovernorReader interface {
	UsageStats() domusage.Record
	MaxRequestsPerDay() int
}
