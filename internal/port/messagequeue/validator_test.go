package messagequeue

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		data    string
		wantErr string
	}{
		{"compiled ok", SubjectFor("compiled", "database-master"), `{"action":"compiled","id":"database-master","changed":true}`, ""},
		{"written ok", SubjectFor("written", "brain-core"), `{"action":"written","id":"brain-core","path":".claude/CLAUDE.md"}`, ""},
		{"reloaded ok", SubjectReloaded, `{"dir":".brain/bundles","bundles":3}`, ""},
		{"unknown subject", "other.thing", `{"anything":1}`, ""},
		{"invalid json", SubjectReloaded, `{not json`, "invalid JSON"},
		{"wrong type", SubjectReloaded, `{"bundles":"three"}`, "schema validation failed"},
		{"missing id", SubjectFor("compiled", "x"), `{"action":"compiled"}`, "id is required"},
		{"wrong field type", SubjectFor("failed", "x"), `{"id":"x","changed":"yes"}`, "schema validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.subject, []byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSubjectFor(t *testing.T) {
	if got := SubjectFor("compiled", "testing-master"); got != "brain.compiled.testing-master" {
		t.Fatalf("unexpected subject %q", got)
	}
}
