package models

import "fmt"

// Video is the metadata a fetcher returns for a single YouTube video.
// DurationSeconds is negative when the source did not report a length.
type Video struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Author          Author         `json:"author"`
	DurationSeconds int64          `json:"durationSeconds"`
	Thumbnails      []Thumbnail    `json:"thumbnails"`
	ViewCount       int64          `json:"viewCount"`
	UploadDate      string         `json:"uploadDate"`
	PublishDate     string         `json:"publishDate"`
	UploadedAgo     string         `json:"uploadedAgo"`
	Category        string         `json:"category"`
	IsLive          bool           `json:"isLive"`
	Keywords        []string       `json:"keywords"`
	URL             string         `json:"url"`
	Formats         []Format       `json:"formats"`
	DirectStreamURL string         `json:"directStreamUrl"`
	Related         []RelatedVideo `json:"related"`
}

type Author struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	URL  string `json:"url"`
	// Handle is the @name of the channel when known.
	Handle string `json:"handle,omitempty"`
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  uint   `json:"width"`
	Height uint   `json:"height"`
}

// Format is one downloadable stream as reported by the resolver.
type Format struct {
	Itag          int    `json:"itag"`
	MimeType      string `json:"mimeType"`
	Bitrate       int    `json:"bitrate"`
	AudioBitrate  int    `json:"audioBitrate"`
	AudioQuality  string `json:"audioQuality"`
	QualityLabel  string `json:"qualityLabel"`
	FPS           int    `json:"fps"`
	ContentLength int64  `json:"contentLength"`
	URL           string `json:"url"`
	HasAudio      bool   `json:"hasAudio"`
	HasVideo      bool   `json:"hasVideo"`
}

type RelatedVideo struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	DurationSeconds int64  `json:"durationSeconds"`
	ViewCount       int64  `json:"viewCount"`
}

func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func ChannelURL(channelID string) string {
	if channelID == "" {
		return ""
	}
	return "https://www.youtube.com/channel/" + channelID
}

// ThumbnailURL builds the static i.ytimg.com address for a named variant
// such as "hqdefault" or "mqdefault".
func ThumbnailURL(id, variant string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/%s.jpg", id, variant)
}
