package memory

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openSeeded(t *testing.T, conf string) *adapter {
	t.Helper()
	a := &adapter{}
	if err := a.Open(json.RawMessage(conf)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpenAndLookup(t *testing.T) {
	a := openSeeded(t, `{"interests": {"1": ["books", "hi-tech"], "2": ["pets", "tv"]}}`)

	if !a.IsOpen() {
		t.Error("Expected the adapter to report open")
	}
	if a.GetName() != "memory" {
		t.Errorf("Unexpected adapter name %q", a.GetName())
	}

	tags, err := a.InterestsGet(1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"books", "hi-tech"}, tags); diff != "" {
		t.Errorf("Unexpected tags (-expected +got):\n%s", diff)
	}
}

func TestUnknownClient(t *testing.T) {
	a := openSeeded(t, `{"interests": {"1": ["books"]}}`)

	tags, err := a.InterestsGet(42)
	if err != nil {
		t.Fatal(err)
	}
	if tags == nil || len(tags) != 0 {
		t.Errorf("Expected an empty list for an unknown client, got %v", tags)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	a := openSeeded(t, `{"interests": {"1": ["books", "hi-tech"]}}`)

	tags, _ := a.InterestsGet(1)
	tags[0] = "mutated"
	again, _ := a.InterestsGet(1)
	if again[0] != "books" {
		t.Error("Expected seed data to be isolated from callers")
	}
}

func TestBadConfig(t *testing.T) {
	cases := []string{
		`{"interests": {"not-a-number": ["books"]}}`,
		`{"interests": 42}`,
	}
	for _, conf := range cases {
		a := &adapter{}
		if err := a.Open(json.RawMessage(conf)); err == nil {
			t.Errorf("Expected Open to fail on %s", conf)
			a.Close()
		}
	}
}

func TestDoubleOpen(t *testing.T) {
	a := openSeeded(t, `{}`)
	if err := a.Open(nil); err == nil {
		t.Error("Expected a second Open to fail")
	}
}

func TestNotOpen(t *testing.T) {
	a := &adapter{}
	if _, err := a.InterestsGet(1); err == nil {
		t.Error("Expected a lookup on a closed adapter to fail")
	}
}
