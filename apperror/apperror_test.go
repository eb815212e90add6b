package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad %s", "input"), http.StatusBadRequest},
		{"not found", NotFound("order %s", "x"), http.StatusNotFound},
		{"conflict", Conflict("username taken"), http.StatusConflict},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admin only"), http.StatusForbidden},
		{"internal", Internal(errors.New("boom"), "failed"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("menu item 1")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	err := Internal(errors.New("connection refused 10.0.0.3:27017"), "failed to list orders")

	msg := PublicMessage(err)
	if strings.Contains(msg, "10.0.0.3") || strings.Contains(msg, "list orders") {
		t.Fatalf("public message leaks internal detail: %q", msg)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("Error() should keep the cause for logs, got %q", err.Error())
	}
	if got := PublicMessage(NotFound("menu item %s", "abc")); got != "menu item abc" {
		t.Fatalf("PublicMessage() = %q", got)
	}
}
