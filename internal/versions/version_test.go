package versions

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	noVCS := func() (string, string) { return "", "" }
	withVCS := func() (string, string) { return "0123456789abcdef", "2024-03-01T10:00:00Z" }

	tests := []struct {
		name          string
		version       string
		commit        string
		buildDate     string
		vcs           func() (string, string)
		wantVersion   string
		wantCommit    string
		wantBuildDate string
	}{
		{
			name:          "release build",
			version:       "v1.2.3",
			commit:        "abc",
			buildDate:     "2024-01-02T03:04:05Z",
			vcs:           withVCS,
			wantVersion:   "v1.2.3",
			wantCommit:    "abc",
			wantBuildDate: "2024-01-02 03:04:05 UTC",
		},
		{
			name:          "dev build takes vcs info",
			version:       "dev",
			commit:        unknown,
			buildDate:     unknown,
			vcs:           withVCS,
			wantVersion:   "build-01234567",
			wantCommit:    "0123456789abcdef",
			wantBuildDate: "2024-03-01 10:00:00 UTC",
		},
		{
			name:          "dev build without vcs",
			version:       "dev",
			commit:        unknown,
			buildDate:     unknown,
			vcs:           noVCS,
			wantVersion:   "build-unknown",
			wantCommit:    unknown,
			wantBuildDate: unknown,
		},
		{
			name:          "unparseable build date is kept",
			version:       "v0.1.0",
			commit:        "abc",
			buildDate:     "yesterday",
			vcs:           noVCS,
			wantVersion:   "v0.1.0",
			wantCommit:    "abc",
			wantBuildDate: "yesterday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := resolve(tt.version, tt.commit, tt.buildDate, tt.vcs)
			assert.Equal(t, tt.wantVersion, info.Version)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.Equal(t, tt.wantBuildDate, info.BuildDate)
			assert.Equal(t, runtime.Version(), info.GoVersion)
			assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
			assert.Contains(t, info.String(), tt.wantVersion)
		})
	}
}
