package cli

import (
	"testing"
	"time"
)

func TestAgo(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "never"},
		{"seconds", now.Add(-20 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ago(tc.t); got != tc.want {
				t.Errorf("ago(%v) = %q, want %q", tc.t, got, tc.want)
			}
		})
	}
}

func TestAgo_OldDatesUseAbsolute(t *testing.T) {
	old := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := ago(old); got != "2023-01-15" {
		t.Errorf("ago(old) = %q, want the calendar date", got)
	}
}

func TestTildePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := tildePath(home + "/code/demo"); got != "~/code/demo" {
		t.Errorf("tildePath = %q, want ~/code/demo", got)
	}
	if got := tildePath("/opt/elsewhere"); got != "/opt/elsewhere" {
		t.Errorf("tildePath = %q, want the path unchanged", got)
	}
}
