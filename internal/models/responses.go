package models

// APIInfo is appended to every successful API payload.
type APIInfo struct {
	Timestamp    string `json:"timestamp"`
	ResponseTime int64  `json:"responseTime"`
	APIVersion   string `json:"apiVersion"`
	RequestID    string `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Example string `json:"example,omitempty"`
	Tip     string `json:"tip,omitempty"`
}

type NotFoundResponse struct {
	Success            bool     `json:"success"`
	Error              string   `json:"error"`
	AvailableEndpoints []string `json:"availableEndpoints"`
}

type Duration struct {
	Seconds   int64  `json:"seconds"`
	Formatted string `json:"formatted"`
}

type ThumbnailSet struct {
	Default string `json:"default"`
	Medium  string `json:"medium"`
	High    string `json:"high"`
}

// ytmp3

type MP3VideoInfo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Channel     string       `json:"channel"`
	Duration    Duration     `json:"duration"`
	Thumbnail   ThumbnailSet `json:"thumbnail"`
	Views       int64        `json:"views"`
	UploadDate  string       `json:"uploadDate"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	IsLive      bool         `json:"isLive"`
	Keywords    []string     `json:"keywords"`
}

type QualityOption struct {
	Quality string `json:"quality"`
	Value   string `json:"value"`
	Size    string `json:"size"`
	URL     string `json:"url"`
}

type DownloadOptions struct {
	SelectedQuality string          `json:"selectedQuality"`
	EstimatedSize   string          `json:"estimatedSize"`
	AllQualities    []QualityOption `json:"allQualities"`
}

// DownloadData carries templated third party URLs. DirectStream is null when
// no audio stream could be resolved.
type DownloadData struct {
	URL            string  `json:"url"`
	AlternativeURL string  `json:"alternativeUrl"`
	DirectStream   *string `json:"directStream"`
	Note           string  `json:"note"`
}

type MP3Response struct {
	Success         bool            `json:"success"`
	Developer       string          `json:"developer"`
	Format          string          `json:"format"`
	VideoID         string          `json:"videoId"`
	VideoInfo       MP3VideoInfo    `json:"videoInfo"`
	DownloadOptions DownloadOptions `json:"downloadOptions"`
	DownloadData    DownloadData    `json:"downloadData"`
	APIInfo         APIInfo         `json:"apiInfo"`
}

// video info

type InfoAuthor struct {
	Name            string `json:"name"`
	ID              string `json:"id"`
	URL             string `json:"url"`
	SubscriberCount *int64 `json:"subscriberCount"`
	Verified        bool   `json:"verified"`
}

type Statistics struct {
	Views int64 `json:"views"`
}

type InfoMetadata struct {
	UploadDate  string   `json:"uploadDate"`
	PublishDate string   `json:"publishDate"`
	Category    string   `json:"category"`
	IsLive      bool     `json:"isLive"`
	Keywords    []string `json:"keywords"`
}

type DetailedVideoInfo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Author      InfoAuthor   `json:"author"`
	Duration    Duration     `json:"duration"`
	Thumbnails  []Thumbnail  `json:"thumbnails"`
	Statistics  Statistics   `json:"statistics"`
	Metadata    InfoMetadata `json:"metadata"`
	Description string       `json:"description"`
}

type AudioFormat struct {
	Itag     int    `json:"itag"`
	MimeType string `json:"mimeType"`
	Bitrate  int    `json:"bitrate"`
	Quality  string `json:"quality"`
	Size     string `json:"size"`
	URL      string `json:"url"`
}

type VideoFormat struct {
	Itag     int    `json:"itag"`
	MimeType string `json:"mimeType"`
	Quality  string `json:"quality"`
	FPS      int    `json:"fps"`
	Size     string `json:"size"`
}

type MuxedFormat struct {
	Itag         int    `json:"itag"`
	MimeType     string `json:"mimeType"`
	Quality      string `json:"quality"`
	AudioBitrate int    `json:"audioBitrate"`
	Size         string `json:"size"`
}

type AvailableFormats struct {
	Audio          []AudioFormat `json:"audio"`
	Video          []VideoFormat `json:"video"`
	AudioWithVideo []MuxedFormat `json:"audioWithVideo"`
}

type RelatedVideoInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Duration string `json:"duration"`
	Views    int64  `json:"views"`
}

type InfoResponse struct {
	Success          bool               `json:"success"`
	Developer        string             `json:"developer"`
	VideoInfo        DetailedVideoInfo  `json:"videoInfo"`
	AvailableFormats AvailableFormats   `json:"availableFormats"`
	RelatedVideos    []RelatedVideoInfo `json:"relatedVideos"`
	APIInfo          APIInfo            `json:"apiInfo"`
}

// search

type SearchAuthor struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type SearchDuration struct {
	Timestamp string `json:"timestamp"`
	Seconds   int64  `json:"seconds"`
	Formatted string `json:"formatted"`
}

type SearchResult struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Author         SearchAuthor   `json:"author"`
	Duration       SearchDuration `json:"duration"`
	Thumbnail      ThumbnailSet   `json:"thumbnail"`
	Views          int64          `json:"views"`
	Uploaded       string         `json:"uploaded"`
	UploadDate     string         `json:"uploadDate"`
	Description    string         `json:"description"`
	URL            string         `json:"url"`
	MP3DownloadURL string         `json:"mp3DownloadUrl"`
}

type Pagination struct {
	Page         int  `json:"page"`
	Limit        int  `json:"limit"`
	TotalResults int  `json:"totalResults"`
	TotalPages   int  `json:"totalPages"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

type SearchResponse struct {
	Success    bool           `json:"success"`
	Developer  string         `json:"developer"`
	Query      string         `json:"query"`
	Pagination Pagination     `json:"pagination"`
	Results    []SearchResult `json:"results"`
	APIInfo    APIInfo        `json:"apiInfo"`
}

// service documents

type MemoryUsage struct {
	Alloc      string `json:"alloc"`
	TotalAlloc string `json:"totalAlloc"`
	Sys        string `json:"sys"`
	HeapInuse  string `json:"heapInuse"`
	NumGC      uint32 `json:"numGC"`
}

type SystemInfo struct {
	GoVersion   string      `json:"goVersion"`
	Platform    string      `json:"platform"`
	Goroutines  int         `json:"goroutines"`
	MemoryUsage MemoryUsage `json:"memoryUsage"`
}

type HealthResponse struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	Developer   string            `json:"developer"`
	Version     string            `json:"version"`
	Uptime      float64           `json:"uptime"`
	Timestamp   string            `json:"timestamp"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
	System      SystemInfo        `json:"system"`
}

type RootResponse struct {
	Message   string            `json:"message"`
	Developer string            `json:"developer"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	Example   string            `json:"example"`
	Note      string            `json:"note"`
}

type APIStatusResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}
