package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
		"http://m.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=RDAMVM",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ?feature=shared",
		"youtube.com/watch?v=dQw4w9WgXcQ",
		"  https://WWW.YouTube.com/watch?v=dQw4w9WgXcQ  ",
	}
	for _, raw := range valid {
		t.Run(raw, func(t *testing.T) {
			id, err := ExtractVideoID(raw)
			require.NoError(t, err)
			assert.Equal(t, "dQw4w9WgXcQ", id)
		})
	}

	invalid := []string{
		"",
		"dQw4w9WgXcQ",
		"https://vimeo.com/123456",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQextra",
		"https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw",
		"https://www.youtube.com/playlist?list=PL123",
		"ftp://youtube.com/watch?v=dQw4w9WgXcQ",
		"https://notyoutube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/",
	}
	for _, raw := range invalid {
		t.Run("invalid "+raw, func(t *testing.T) {
			_, err := ExtractVideoID(raw)
			assert.Error(t, err)
		})
	}
}

func TestValidateInfoExpandsID(t *testing.T) {
	p, err := validateInfo("", "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", p.URL)
	assert.Equal(t, "dQw4w9WgXcQ", p.VideoID)

	p, err = validateInfo("https://youtu.be/dQw4w9WgXcQ", "ignoredID00")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", p.URL)

	_, err = validateInfo("", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Example)
}

func TestValidateSearch(t *testing.T) {
	tests := []struct {
		name      string
		limit     string
		page      string
		wantLimit int
		wantPage  int
	}{
		{"defaults", "", "", 10, 1},
		{"explicit", "25", "3", 25, 3},
		{"limit too large", "500", "1", 50, 1},
		{"limit zero", "0", "1", 1, 1},
		{"negative page", "10", "-4", 10, 1},
		{"garbage", "ten", "two", 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := validateSearch("lofi", tt.limit, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantPage, p.Page)
		})
	}

	_, err := validateSearch("   ", "", "")
	assert.Error(t, err)
}
