package models

import "testing"

func TestAdvocacyAdvance(t *testing.T) {
	status := AdvocacyLifecycle.Initial()
	want := []struct {
		status  string
		changed bool
	}{
		{"in-progress", true},
		{"closed", true},
		{"closed", false},
	}
	for i, w := range want {
		var changed bool
		status, changed = AdvocacyLifecycle.Advance(status)
		if status != w.status || changed != w.changed {
			t.Fatalf("step %d: got (%q, %v), want (%q, %v)", i, status, changed, w.status, w.changed)
		}
	}
}

func TestAdvanceUnknown(t *testing.T) {
	if got, changed := StoryLifecycle.Advance("archived"); got != "archived" || changed {
		t.Errorf("Advance(unknown) = (%q, %v)", got, changed)
	}
	if StoryLifecycle.Knows("archived") {
		t.Error("Knows(archived) = true")
	}
}
