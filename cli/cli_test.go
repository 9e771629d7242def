package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{
			name:    "full commit hash is truncated",
			version: "1.2.0",
			commit:  "0123456789abcdef",
			date:    "2026-08-29",
			want:    "1.2.0 (commit: 01234567, built: 2026-08-29)",
		},
		{
			name:    "short commit stays whole",
			version: "1.2.0",
			commit:  "abc",
			date:    "2026-08-29",
			want:    "1.2.0 (commit: abc, built: 2026-08-29)",
		},
		{
			name:    "dev build without commit",
			version: "dev",
			commit:  "none",
			date:    "unknown",
			want:    "dev",
		},
		{
			name:    "empty commit",
			version: "dev",
			commit:  "",
			date:    "unknown",
			want:    "dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New()
			app.SetVersion(tt.version, tt.commit, tt.date)
			require.Equal(t, tt.want, app.cli.Version)
		})
	}
}
