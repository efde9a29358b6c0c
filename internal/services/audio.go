package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Quality is an MP3 bitrate class in kbps.
type Quality int

const (
	Quality64  Quality = 64
	Quality128 Quality = 128
	Quality192 Quality = 192
	Quality256 Quality = 256
	Quality320 Quality = 320

	DefaultQuality = Quality128
)

// Qualities lists every selectable bitrate in ascending order.
var Qualities = []Quality{Quality64, Quality128, Quality192, Quality256, Quality320}

// ParseQuality maps a query value onto a known bitrate. Anything else falls
// back to DefaultQuality; ok reports whether the input was recognised.
func ParseQuality(s string) (q Quality, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultQuality, false
	}
	for _, known := range Qualities {
		if int(known) == n {
			return known, true
		}
	}
	return DefaultQuality, false
}

func (q Quality) Value() string { return strconv.Itoa(int(q)) }

func (q Quality) Label() string { return q.Value() + "kbps" }

// DownloadLinks builds convenience URLs for an MP3 conversion of a video.
// The external services are only templated into; nothing here checks that
// they are reachable or that they produce audio.
type DownloadLinks struct {
	PrimaryBase     string
	AlternativeBase string
}

// Primary returns the loader-style conversion URL.
func (d DownloadLinks) Primary(videoURL string, q Quality) string {
	return d.external(d.PrimaryBase, videoURL, q)
}

// Alternative returns the y2mate-style conversion URL.
func (d DownloadLinks) Alternative(videoURL string, q Quality) string {
	return d.external(d.AlternativeBase, videoURL, q)
}

func (d DownloadLinks) external(base, videoURL string, q Quality) string {
	if base == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%surl=%s&format=mp3&quality=%s", base, sep, url.QueryEscape(videoURL), q.Value())
}

// SelfLink points back at this service's own ytmp3 endpoint.
func SelfLink(videoURL string, q Quality) string {
	return fmt.Sprintf("/api/download/ytmp3?url=%s&quality=%s", url.QueryEscape(videoURL), q.Value())
}
