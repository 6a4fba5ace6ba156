package contract

import (
	"testing"

	"github.com/octocred/octocred/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRepoURL covers the accepted repository reference forms.
func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{
			name:      "https url",
			ref:       "https://github.com/golang/go",
			wantOwner: "golang",
			wantName:  "go",
		},
		{
			name:      "url with .git suffix",
			ref:       "https://github.com/spf13/cobra.git",
			wantOwner: "spf13",
			wantName:  "cobra",
		},
		{
			name:      "url with trailing path",
			ref:       "https://github.com/golang/go/pulls",
			wantOwner: "golang",
			wantName:  "go",
		},
		{
			name:      "short owner/name form",
			ref:       "octocat/hello-world",
			wantOwner: "octocat",
			wantName:  "hello-world",
		},
		{
			name:      "surrounding whitespace",
			ref:       "  golang/go  ",
			wantOwner: "golang",
			wantName:  "go",
		},
		{
			name:    "missing name",
			ref:     "justowner",
			wantErr: true,
		},
		{
			name:    "empty string",
			ref:     "",
			wantErr: true,
		},
		{
			name:    "too many path parts in short form",
			ref:     "a/b/c",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := ParseRepoURL(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

// TestGetPlainLabel pins the label text per status.
func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, "Exceeds", GetPlainLabel(schema.ExceedsStatus))
	assert.Equal(t, "Meets", GetPlainLabel(schema.MeetsStatus))
	assert.Equal(t, "Falls short", GetPlainLabel(schema.FallsShortStatus))
	assert.Equal(t, "Falls short", GetPlainLabel(schema.Status("bogus")))
}

// TestGetColorLabel ensures colored labels still contain the plain text.
func TestGetColorLabel(t *testing.T) {
	for _, s := range []schema.Status{schema.ExceedsStatus, schema.MeetsStatus, schema.FallsShortStatus} {
		assert.Contains(t, GetColorLabel(s), GetPlainLabel(s))
	}
}

// TestParseBoolString covers the accepted boolean spellings.
func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "true", "1", "YES", "True"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "false", "0", "NO"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// TestHistoryFilePaths ensures defaults resolve to a usable location.
func TestHistoryFilePaths(t *testing.T) {
	assert.Contains(t, GetHistoryCSVFilePath(), ".octocred_history.csv")
	assert.Contains(t, GetHistoryDBFilePath(), ".octocred_history.db")
}
