package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/models"
)

// runFunc executes an external command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// YtDlpSearcher runs `yt-dlp ytsearchN:<query>` and parses its JSON lines.
type YtDlpSearcher struct {
	path       string
	maxResults int
	run        runFunc
	now        func() time.Time
}

func NewYtDlpSearcher(path string, maxResults int) *YtDlpSearcher {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &YtDlpSearcher{
		path:       getYtDlpPath(path),
		maxResults: maxResults,
		run:        runCommand,
		now:        time.Now,
	}
}

func getYtDlpPath(path string) string {
	if path == "" {
		path = "tools/yt-dlp"
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(path, ".exe") {
		return path + ".exe"
	}
	return path
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.Error().Str("stderr", strings.TrimSpace(string(exitErr.Stderr))).Msg("yt-dlp failed")
		}
		return nil, err
	}
	return stdout, nil
}

// SearchVideos returns up to maxResults videos in the order yt-dlp reports them.
func (s *YtDlpSearcher) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewFetchError(KindInvalidInput, "search videos", errors.New("empty query"))
	}

	args := []string{
		"--flat-playlist",
		"--no-warnings",
		"--skip-download",
		"--quiet",
		"-j",
		fmt.Sprintf("ytsearch%d:%s", s.maxResults, query),
	}

	log.Debug().Str("query", query).Int("max_results", s.maxResults).Msg("Searching with yt-dlp")

	stdout, err := s.run(ctx, s.path, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewFetchError(KindTransient, "search videos", ctx.Err())
		}
		return nil, NewFetchError(KindUpstream, "search videos", err)
	}

	videos, err := parseYtDlpLines(stdout, s.now())
	if err != nil {
		return nil, NewFetchError(KindUpstream, "search videos", err)
	}
	return videos, nil
}

func parseYtDlpLines(stdout []byte, now time.Time) ([]models.Video, error) {
	videos := []models.Video{}
	for _, line := range bytes.Split(stdout, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var item models.YtDlpVideoResponse
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("decode yt-dlp line: %w", err)
		}
		if item.ID == "" {
			continue
		}
		videos = append(videos, convertYtDlpItem(item, now))
	}
	return videos, nil
}

func convertYtDlpItem(item models.YtDlpVideoResponse, now time.Time) models.Video {
	duration := int64(-1)
	if item.Duration != nil {
		duration = int64(*item.Duration)
	}

	author := item.Channel
	if author == "" {
		author = item.Uploader
	}
	channelURL := item.ChannelURL
	if channelURL == "" {
		channelURL = models.ChannelURL(item.ChannelID)
	}

	v := models.Video{
		ID:              item.ID,
		Title:           item.Title,
		Description:     item.Description,
		Author:          models.Author{Name: author, ID: item.ChannelID, URL: channelURL},
		DurationSeconds: duration,
		ViewCount:       item.Views,
		IsLive:          item.LiveStatus == "is_live",
		Keywords:        []string{},
		URL:             models.WatchURL(item.ID),
		Related:         []models.RelatedVideo{},
	}

	if t, err := time.Parse("20060102", item.UploadDate); err == nil {
		v.UploadDate = t.Format("2006-01-02")
		v.PublishDate = v.UploadDate
		v.UploadedAgo = humanize.RelTime(t, now, "ago", "from now")
	}

	v.Thumbnails = make([]models.Thumbnail, 0, len(item.Thumbnails))
	for _, t := range item.Thumbnails {
		v.Thumbnails = append(v.Thumbnails, models.Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
	}
	return v
}

// Enrich copies the first category and the tags of v from `yt-dlp -j <url>`.
func (s *YtDlpSearcher) Enrich(ctx context.Context, v *models.Video) error {
	stdout, err := s.run(ctx, s.path, "-j", "--skip-download", "--no-warnings", "--no-playlist", models.WatchURL(v.ID))
	if err != nil {
		return fmt.Errorf("yt-dlp details: %w", err)
	}

	var item models.YtDlpVideoResponse
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &item); err != nil {
		return fmt.Errorf("decode yt-dlp details: %w", err)
	}

	if len(item.Categories) > 0 {
		v.Category = item.Categories[0]
	}
	if len(item.Tags) > 0 {
		v.Keywords = item.Tags
	}
	return nil
}
