package domain

// Sink names used in responses, logs and metrics.
const (
	SinkMongo  = "mongo"
	SinkSheets = "sheets"
)

// SinkResult is the outcome of one sink write. Skipped means the sink is not
// configured, which is not a failure.
type SinkResult struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Saved reports a successful write.
func Saved() SinkResult {
	return SinkResult{OK: true}
}

// Skipped reports an unconfigured sink.
func Skipped(reason string) SinkResult {
	return SinkResult{Skipped: true, Reason: reason}
}

// Failed reports a hard failure, falling back to a generic message.
func Failed(sink string, err error) SinkResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = sink + " write failed"
	}
	return SinkResult{Error: msg}
}

// Outcome reduces a result to ok, skipped or failed.
func (r SinkResult) Outcome() string {
	switch {
	case r.OK:
		return "ok"
	case r.Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// SaveOutcome holds one slot per sink.
type SaveOutcome struct {
	Mongo  SinkResult `json:"mongo"`
	Sheets SinkResult `json:"sheets"`
}

// Accepted is true when any sink saved or skipped. A deployment with no
// sinks configured therefore accepts every valid inquiry.
func (o SaveOutcome) Accepted() bool {
	return o.Mongo.OK || o.Sheets.OK || o.Mongo.Skipped || o.Sheets.Skipped
}
