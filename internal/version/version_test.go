package version

import "testing"

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "1.2.3"},
		{"1.2.3", "abc123", "", "1.2.3 (abc123)"},
		{"1.2.3", "abc123", "2024-01-15T10:30:00Z", "1.2.3 (abc123) built 2024-01-15T10:30:00Z"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
