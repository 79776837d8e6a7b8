package pkg

const (
	HeaderTraceId string = "X-Trace-Id"
)

const (
	TraceId string = "trace_id"
)

// ReviewStatus is the three-way verdict returned for a single review.
type ReviewStatus string

const (
	StatusGenuine    ReviewStatus = "GENUINE"
	StatusSuspicious ReviewStatus = "SUSPICIOUS"
	StatusFake       ReviewStatus = "FAKE"
)

// Prediction is the binary label used in bulk results and dataset rows.
type Prediction string

const (
	PredictionFake    Prediction = "FAKE"
	PredictionGenuine Prediction = "GENUINE"
)

// Phase is the lifecycle of a view-owned request.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseUploading Phase = "uploading"
	PhaseSuccess   Phase = "success"
	PhaseError     Phase = "error"
)

// Terminal reports whether a phase accepts no further transitions from the
// request that produced it.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseError
}
