package locale

import (
	"testing"
	"time"
)

func TestNew_UnknownZone(t *testing.T) {
	if _, err := New("Not/AZone"); err == nil {
		t.Fatal("New() error = nil, want load failure")
	}
}

// An instant late in the UTC evening is already the next calendar day in WIB
// (UTC+7). Day keys must follow the configured zone, not the wall clock of
// the event source.
func TestDayKey(t *testing.T) {
	loc, err := New("Asia/Jakarta")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{
			name: "utc evening rolls into the next local day",
			t:    time.Date(2025, time.December, 1, 17, 30, 0, 0, time.UTC),
			want: "2025-12-02",
		},
		{
			name: "utc morning stays on the same local day",
			t:    time.Date(2025, time.December, 1, 8, 0, 0, 0, time.UTC),
			want: "2025-12-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loc.DayKey(tt.t); got != tt.want {
				t.Errorf("DayKey(%v) = %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	loc, err := New("Asia/Jakarta")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// 08:30 UTC is 15:30 WIB
	ts := time.Date(2025, time.December, 1, 8, 30, 5, 0, time.UTC)
	if got, want := loc.Format(ts), "01/12/2025 15:30:05"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}
