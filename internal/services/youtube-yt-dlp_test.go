package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangnt1552314/ytmp3api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ytDlpSample = `{"id":"dQw4w9WgXcQ","title":"Never Gonna Give You Up","duration":212.0,"view_count":1500000000,"channel":"Rick Astley","channel_id":"UCuAXFkgsw1L7xaCfnd5JJOw","upload_date":"20091025","live_status":"not_live","thumbnails":[{"url":"https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg","width":480,"height":360}]}
{"id":"live0000001","title":"Lofi radio","duration":null,"uploader":"Lofi Girl","live_status":"is_live"}

{"id":"","title":"skipped"}
`

func TestParseYtDlpLines(t *testing.T) {
	now := time.Date(2024, 10, 25, 0, 0, 0, 0, time.UTC)

	videos, err := parseYtDlpLines([]byte(ytDlpSample), now)
	require.NoError(t, err)
	require.Len(t, videos, 2)

	first := videos[0]
	assert.Equal(t, "dQw4w9WgXcQ", first.ID)
	assert.Equal(t, "Rick Astley", first.Author.Name)
	assert.Equal(t, "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", first.Author.URL)
	assert.Equal(t, int64(212), first.DurationSeconds)
	assert.Equal(t, int64(1500000000), first.ViewCount)
	assert.Equal(t, "2009-10-25", first.UploadDate)
	assert.Contains(t, first.UploadedAgo, "years ago")
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", first.URL)
	assert.False(t, first.IsLive)
	require.Len(t, first.Thumbnails, 1)

	second := videos[1]
	assert.Equal(t, "Lofi Girl", second.Author.Name)
	assert.Equal(t, int64(-1), second.DurationSeconds)
	assert.True(t, second.IsLive)
	assert.Empty(t, second.UploadDate)
}

func TestParseYtDlpLinesInvalidJSON(t *testing.T) {
	_, err := parseYtDlpLines([]byte("{not json"), time.Now())
	assert.Error(t, err)
}

func TestYtDlpSearcherArgs(t *testing.T) {
	s := NewYtDlpSearcher("bin/yt-dlp", 5)
	var gotArgs []string
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(ytDlpSample), nil
	}

	videos, err := s.SearchVideos(context.Background(), "  rick astley ")
	require.NoError(t, err)
	assert.Len(t, videos, 2)
	require.NotEmpty(t, gotArgs)
	assert.Equal(t, "ytsearch5:rick astley", gotArgs[len(gotArgs)-1])
	assert.Contains(t, gotArgs, "--flat-playlist")
}

func TestYtDlpSearcherErrors(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		s := NewYtDlpSearcher("", 0)
		_, err := s.SearchVideos(context.Background(), "   ")
		assert.Equal(t, KindInvalidInput, KindOf(err))
	})

	t.Run("command failure", func(t *testing.T) {
		s := NewYtDlpSearcher("", 0)
		s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, errors.New("exit status 1")
		}
		_, err := s.SearchVideos(context.Background(), "query")
		assert.Equal(t, KindUpstream, KindOf(err))
	})

	t.Run("deadline", func(t *testing.T) {
		s := NewYtDlpSearcher("", 0)
		s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			<-ctx.Done()
			return nil, errors.New("signal: killed")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := s.SearchVideos(ctx, "query")
		assert.Equal(t, KindTransient, KindOf(err))
	})
}

func TestYtDlpEnrich(t *testing.T) {
	s := NewYtDlpSearcher("bin/yt-dlp", 5)
	var gotArgs []string
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(`{"id":"dQw4w9WgXcQ","categories":["Music","Entertainment"],"tags":["rick astley","never gonna give you up"]}` + "\n"), nil
	}

	v := &models.Video{ID: "dQw4w9WgXcQ", Keywords: []string{}}
	require.NoError(t, s.Enrich(context.Background(), v))
	assert.Equal(t, "Music", v.Category)
	assert.Equal(t, []string{"rick astley", "never gonna give you up"}, v.Keywords)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", gotArgs[len(gotArgs)-1])
	assert.NotContains(t, gotArgs, "--flat-playlist")
}

func TestYtDlpEnrichFailures(t *testing.T) {
	s := NewYtDlpSearcher("", 0)
	v := &models.Video{ID: "dQw4w9WgXcQ", Keywords: []string{}}

	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exec: not found")
	}
	assert.Error(t, s.Enrich(context.Background(), v))

	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte(`{"id":"dQw4w9WgXcQ"}`), nil
	}
	require.NoError(t, s.Enrich(context.Background(), v))
	assert.Empty(t, v.Category)
	assert.Equal(t, []string{}, v.Keywords)
}
