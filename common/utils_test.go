package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{
			name: "bare video ID",
			ref:  "dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "canonical watch URL",
			ref:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch URL without www",
			ref:  "https://youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "mobile watch URL",
			ref:  "https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short URL",
			ref:  "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "embed URL",
			ref:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "v path URL",
			ref:  "https://www.youtube.com/v/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "shorts URL",
			ref:  "https://www.youtube.com/shorts/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "shell-escaped watch URL",
			ref:  `https://www.youtube.com/watch\?v\=dQw4w9WgXcQ`,
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch URL with extra params",
			ref:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "leading and trailing whitespace",
			ref:  "  dQw4w9WgXcQ  ",
			want: "dQw4w9WgXcQ",
		},
		{
			name:    "empty string",
			ref:     "",
			wantErr: true,
		},
		{
			name:    "not a video reference",
			ref:     "not-a-video",
			wantErr: true,
		},
		{
			name:    "wrong length ID",
			ref:     "abc123",
			wantErr: true,
		},
		{
			name:    "unrelated URL",
			ref:     "https://example.com/watch?v=dQw4w9WgXcQ",
			wantErr: true,
		},
		{
			name:    "watch URL with malformed ID",
			ref:     "https://www.youtube.com/watch?v=tooshort",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				var invalidRef *ErrInvalidReference
				assert.ErrorAs(t, err, &invalidRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoIDCanonical(t *testing.T) {
	// Every accepted shape for the same video resolves identically.
	refs := []string{
		"dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
	}
	for _, ref := range refs {
		got, err := ExtractVideoID(ref)
		require.NoError(t, err, "ref %q", ref)
		assert.Equal(t, "dQw4w9WgXcQ", got, "ref %q", ref)
	}
}

func TestIsValidVideoID(t *testing.T) {
	assert.True(t, IsValidVideoID("dQw4w9WgXcQ"))
	assert.True(t, IsValidVideoID("abc-DEF_123"))
	assert.False(t, IsValidVideoID(""))
	assert.False(t, IsValidVideoID("short"))
	assert.False(t, IsValidVideoID("exactly12chs"))
	assert.False(t, IsValidVideoID("has spaces!"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Video Title", "My Video Title"},
		{`bad<>:"/\|?*chars`, "bad_________chars"},
		{"  .trimmed.  ", "trimmed"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeText("  hello   world  "))
	assert.Equal(t, "a b", NormalizeText("a\n\t b"))
	assert.Equal(t, "hidden", NormalizeText("hid​den"))
	assert.Equal(t, "bom", NormalizeText("b\uFEFFom"))
	assert.Equal(t, "joined", NormalizeText("join⁠ed"))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestGenerateRunID(t *testing.T) {
	a := GenerateRunID()
	b := GenerateRunID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
