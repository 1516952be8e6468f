package handlers

import (
	"testing"

	"github.com/patientng/patient-api/internal/policy"
)

func TestRouteTable(t *testing.T) {
	h := &Handler{}
	seen := map[string]bool{}
	for _, rt := range h.Routes() {
		key := rt.Method + " " + rt.Path
		if seen[key] {
			t.Errorf("%s declared twice", key)
		}
		seen[key] = true
		if rt.Handler == nil {
			t.Errorf("%s has no handler", key)
		}
		if rt.Public && rt.Capability != "" {
			t.Errorf("%s is public but requires %s", key, rt.Capability)
		}
		if rt.Identify && !rt.Public {
			t.Errorf("%s identifies callers but is private", key)
		}
		if !rt.Public && rt.Capability == "" {
			t.Errorf("%s is private without a capability", key)
		}
	}

	for _, rt := range h.Routes() {
		if rt.Method+" "+rt.Path == "GET /stories/:id" && !rt.Identify {
			t.Error("GET /stories/:id must identify the caller to show unapproved stories")
		}
	}

	for key, want := range map[string]policy.Capability{
		"PATCH /advocacies/:id/status":       policy.ModerateContent,
		"POST /advocacies":                   policy.WriteAdvocacy,
		"GET /users":                         policy.ManageUsers,
		"POST /podcasts":                     policy.WritePodcast,
		"PATCH /payment-requests/:id/status": policy.ModerateContent,
	} {
		found := false
		for _, rt := range h.Routes() {
			if rt.Method+" "+rt.Path == key {
				found = true
				if rt.Capability != want {
					t.Errorf("%s requires %q, want %q", key, rt.Capability, want)
				}
			}
		}
		if !found {
			t.Errorf("%s missing", key)
		}
	}
}
