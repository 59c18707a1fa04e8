package httpapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/betfaro/betstats/internal/usecase"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput"},
		{"not found", fmt.Errorf("resolve: %w", usecase.ErrNotFound), http.StatusNotFound, "notFound"},
		{"insufficient sample", usecase.ErrInsufficientSample, http.StatusUnprocessableEntity, "insufficientSample"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := mapError(tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Fatalf("HTTPStatus = %d, want %d", mapped.HTTPStatus, tc.wantStatus)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("Reason = %q, want %q", mapped.Reason, tc.wantReason)
			}
		})
	}
}
