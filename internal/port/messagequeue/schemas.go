package messagequeue

// CompiledPayload is the schema for brain.compiled.*, brain.written.* and
// brain.failed.* messages.
type CompiledPayload struct {
	Action      string `json:"action"`
	ID          string `json:"id"`
	BuildID     string `json:"build_id"`
	Fingerprint string `json:"fingerprint"`
	Format      string `json:"format"`
	Path        string `json:"path"`
	Changed     bool   `json:"changed"`
	Error       string `json:"error"`
	At          string `json:"at"`
}

// ReloadedPayload is the schema for brain.bundles.reloaded messages.
type ReloadedPayload struct {
	Dir     string `json:"dir"`
	Bundles int    `json:"bundles"`
}
