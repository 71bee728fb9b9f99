package apperr

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   string
		status int
	}{
		{"validation", Validation("bad input"), "validation_error", 400},
		{"not found", NotFound("product %s", "X"), "not_found", 404},
		{"insufficient stock", InsufficientStock(decimal.NewFromInt(5), decimal.NewFromInt(10)), "insufficient_stock", 400},
		{"conflict", Conflict("duplicate"), "conflict", 409},
		{"internal", Internal("boom"), "internal", 500},
		{"unknown error", errors.New("plain"), "internal", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.kind {
				t.Errorf("Kind = %q, want %q", got, tt.kind)
			}
			if got := StatusCode(tt.err); got != tt.status {
				t.Errorf("StatusCode = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestSentinelMatching(t *testing.T) {
	err := Validation("field missing")
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected errors.Is match on ErrValidation")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("unexpected match on ErrNotFound")
	}
}

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock(decimal.RequireFromString("20"), decimal.RequireFromString("30"))

	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected ErrInsufficientStock")
	}
	msg := err.Error()
	if !strings.Contains(msg, "20") || !strings.Contains(msg, "30") {
		t.Fatalf("message %q should carry both quantities", msg)
	}
}

func TestErrorDetail(t *testing.T) {
	err := NotFound("batch %d", 7)
	if got := err.Error(); got != "not found: batch 7" {
		t.Fatalf("Error() = %q", got)
	}
}
