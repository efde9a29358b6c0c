package models

// YtDlpVideoResponse is one JSON line printed by `yt-dlp -j`. Search runs with
// --flat-playlist and leave Categories and Tags empty.
type YtDlpVideoResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Duration    *float64         `json:"duration"`
	Views       int64            `json:"view_count"`
	Channel     string           `json:"channel"`
	ChannelID   string           `json:"channel_id"`
	ChannelURL  string           `json:"channel_url"`
	Uploader    string           `json:"uploader"`
	Description string           `json:"description"`
	UploadDate  string           `json:"upload_date"`
	LiveStatus  string           `json:"live_status"`
	Thumbnails  []YtDlpThumbnail `json:"thumbnails"`
	Categories  []string         `json:"categories"`
	Tags        []string         `json:"tags"`
}

type YtDlpThumbnail struct {
	URL    string `json:"url"`
	Width  uint   `json:"width"`
	Height uint   `json:"height"`
}
