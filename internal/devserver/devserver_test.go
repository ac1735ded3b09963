package devserver_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"bfc/internal/devserver"
)

func TestNotificationRoundTripsThroughJSON(t *testing.T) {
	n := devserver.Notification{
		Path:     "foo.bf",
		OK:       true,
		Warnings: []string{"loop is dead"},
		Output:   "hi",
		At:       "2026-07-29T00:00:00Z",
	}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got devserver.Notification
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, n) {
		t.Errorf("got %+v, want %+v", got, n)
	}
}

func TestNotificationOmitsEmptyErrorAndWarnings(t *testing.T) {
	n := devserver.Notification{Path: "foo.bf", OK: true, At: "now"}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	if contains(s, `"error"`) || contains(s, `"warnings"`) || contains(s, `"output"`) {
		t.Errorf("expected omitempty fields to be absent, got %s", s)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
