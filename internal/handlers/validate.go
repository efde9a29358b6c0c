package handlers

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sangnt1552314/ytmp3api/internal/models"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

var errInvalidVideoURL = errors.New("invalid youtube url")

var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
}

// pathPrefixes are the youtube.com paths whose next segment is a video ID.
var pathPrefixes = []string{"/shorts/", "/embed/", "/live/", "/v/"}

// ValidationError is a request problem reported back to the caller as 400.
type ValidationError struct {
	Message string
	Example string
}

func (e *ValidationError) Error() string { return e.Message }

// ExtractVideoID returns the video ID of a recognised YouTube video URL.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errInvalidVideoURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errInvalidVideoURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errInvalidVideoURL
	}

	host := strings.ToLower(u.Hostname())
	var id string

	switch {
	case host == "youtu.be" || host == "www.youtu.be":
		id = firstSegment(u.Path)
	case youtubeHosts[host]:
		if u.Path == "/watch" || u.Path == "/watch/" {
			id = u.Query().Get("v")
			break
		}
		for _, prefix := range pathPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				id = firstSegment(strings.TrimPrefix(u.Path, prefix))
				break
			}
		}
	default:
		return "", errInvalidVideoURL
	}

	if !videoIDPattern.MatchString(id) {
		return "", errInvalidVideoURL
	}
	return id, nil
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

type downloadParams struct {
	URL     string
	VideoID string
	Quality string
}

func validateDownload(rawURL, quality string) (downloadParams, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return downloadParams{}, &ValidationError{
			Message: "YouTube URL is required",
			Example: "/api/download/ytmp3?url=https://youtube.com/watch?v=VIDEO_ID&quality=128",
		}
	}
	id, err := ExtractVideoID(rawURL)
	if err != nil {
		return downloadParams{}, &ValidationError{Message: "Invalid YouTube URL"}
	}
	return downloadParams{URL: rawURL, VideoID: id, Quality: quality}, nil
}

type infoParams struct {
	URL     string
	VideoID string
}

// validateInfo accepts either a full URL or a bare ID; the ID alone is
// expanded to a watch URL before validation.
func validateInfo(rawURL, id string) (infoParams, error) {
	rawURL = strings.TrimSpace(rawURL)
	id = strings.TrimSpace(id)
	if rawURL == "" && id != "" {
		rawURL = models.WatchURL(id)
	}
	if rawURL == "" {
		return infoParams{}, &ValidationError{
			Message: "YouTube URL or ID is required",
			Example: "/api/video/info?url=https://youtube.com/watch?v=VIDEO_ID",
		}
	}
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return infoParams{}, &ValidationError{Message: "Invalid YouTube URL"}
	}
	return infoParams{URL: rawURL, VideoID: videoID}, nil
}

type searchParams struct {
	Query string
	Limit int
	Page  int
}

func validateSearch(q, limit, page string) (searchParams, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return searchParams{}, &ValidationError{
			Message: "Search query is required",
			Example: "/api/search?q=never+gonna+give+you+up&limit=10",
		}
	}
	return searchParams{
		Query: q,
		Limit: clamp(parseIntDefault(limit, defaultSearchLimit), 1, maxSearchLimit),
		Page:  max(parseIntDefault(page, 1), 1),
	}, nil
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
