package repository

import "testing"

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		year int
		seq  int
		want string
	}{
		{2025, 1, "INV-2025-0001"},
		{2025, 42, "INV-2025-0042"},
		{2026, 9999, "INV-2026-9999"},
		{2026, 10000, "INV-2026-10000"},
	}

	for _, tt := range tests {
		if got := FormatInvoiceNumber(tt.year, tt.seq); got != tt.want {
			t.Errorf("FormatInvoiceNumber(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.want)
		}
	}
}
