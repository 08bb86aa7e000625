package messagequeue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validate checks whether data is valid JSON conforming to the schema
// associated with the given subject. Unknown subjects pass validation.
func Validate(subject string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON on subject %s", subject)
	}

	var target any
	switch {
	case subject == SubjectReloaded:
		target = &ReloadedPayload{}
	case strings.HasPrefix(subject, SubjectCompiled+"."),
		strings.HasPrefix(subject, SubjectWritten+"."),
		strings.HasPrefix(subject, SubjectFailed+"."):
		p := &CompiledPayload{}
		if err := json.Unmarshal(data, p); err != nil {
			return fmt.Errorf("schema validation failed for %s: %w", subject, err)
		}
		if p.ID == "" {
			return fmt.Errorf("schema validation failed for %s: id is required", subject)
		}
		return nil
	default:
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", subject, err)
	}
	return nil
}
