package compile

import "time"

// Event actions.
const (
	ActionCompiled = "compiled"
	ActionWritten  = "written"
	ActionFailed   = "failed"
)

// Event reports the outcome of compiling or writing one document. It is
// broadcast on the websocket hub and published to the message queue.
type Event struct {
	Action      string    `json:"action"`
	ID          string    `json:"id"`
	BuildID     string    `json:"build_id,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Format      string    `json:"format,omitempty"`
	Path        string    `json:"path,omitempty"`
	Changed     bool      `json:"changed"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}
