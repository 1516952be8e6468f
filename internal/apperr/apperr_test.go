package apperr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("loading insight: %w", NotFound("Insight not found."))
	if got := From(wrapped); got.Code != http.StatusNotFound || got.Message != "Insight not found." {
		t.Errorf("From(wrapped) = %+v", got)
	}
	if got := From(fmt.Errorf("boom")); got != Internal {
		t.Errorf("From(plain) = %+v, want Internal", got)
	}
}
