package compile

import "time"

// Record is a rendered document as persisted by a publish.
type Record struct {
	ID          string    `json:"id"`
	BuildID     string    `json:"build_id"`
	Fingerprint string    `json:"fingerprint"`
	Format      string    `json:"format"`
	Content     []byte    `json:"content"`
	CompiledAt  time.Time `json:"compiled_at"`
	PublishedAt time.Time `json:"published_at"`
}
