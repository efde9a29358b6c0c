package handlers

import (
	"github.com/sangnt1552314/ytmp3api/internal/models"
	"github.com/sangnt1552314/ytmp3api/internal/services"
)

const (
	mp3DescriptionLimit    = 150
	searchDescriptionLimit = 100
	maxRelatedVideos       = 5

	downloadNote = "Use the provided URL for download. For direct streaming, use the directStream URL if available. " +
		"Conversion links point at third party services and are not guaranteed to work."
)

func shapeDuration(seconds int64) models.Duration {
	return models.Duration{
		Seconds:   max(seconds, 0),
		Formatted: services.FormatDuration(seconds),
	}
}

// thumbnailSet picks small, medium and large images from what the resolver
// returned, falling back to the static i.ytimg.com variants.
func thumbnailSet(v *models.Video) models.ThumbnailSet {
	if len(v.Thumbnails) == 0 {
		return staticThumbnails(v.ID)
	}
	set := models.ThumbnailSet{
		Default: v.Thumbnails[0].URL,
		High:    v.Thumbnails[len(v.Thumbnails)-1].URL,
	}
	if len(v.Thumbnails) > 1 {
		set.Medium = v.Thumbnails[1].URL
	} else {
		set.Medium = set.Default
	}
	return set
}

func staticThumbnails(id string) models.ThumbnailSet {
	return models.ThumbnailSet{
		Default: models.ThumbnailURL(id, "hqdefault"),
		Medium:  models.ThumbnailURL(id, "mqdefault"),
		High:    models.ThumbnailURL(id, "sddefault"),
	}
}

func keywords(v *models.Video) []string {
	if v.Keywords == nil {
		return []string{}
	}
	return v.Keywords
}

// channelName prefers the @handle and falls back to the channel ID.
func channelName(a models.Author) string {
	if a.Handle != "" {
		return a.Handle
	}
	return a.ID
}

// shapeMP3 builds the ytmp3 payload for videoURL at quality q.
func shapeMP3(v *models.Video, videoURL string, q services.Quality, links services.DownloadLinks) models.MP3Response {
	qualities := make([]models.QualityOption, 0, len(services.Qualities))
	for _, opt := range services.Qualities {
		qualities = append(qualities, models.QualityOption{
			Quality: opt.Label(),
			Value:   opt.Value(),
			Size:    services.EstimateSize(v.DurationSeconds, int(opt)),
			URL:     services.SelfLink(videoURL, opt),
		})
	}

	var direct *string
	if v.DirectStreamURL != "" {
		s := v.DirectStreamURL
		direct = &s
	}

	return models.MP3Response{
		Success: true,
		Format:  "mp3",
		VideoID: v.ID,
		VideoInfo: models.MP3VideoInfo{
			ID:          v.ID,
			Title:       v.Title,
			Author:      v.Author.Name,
			Channel:     channelName(v.Author),
			Duration:    shapeDuration(v.DurationSeconds),
			Thumbnail:   thumbnailSet(v),
			Views:       v.ViewCount,
			UploadDate:  v.UploadDate,
			Description: services.Truncate(v.Description, mp3DescriptionLimit),
			Category:    v.Category,
			IsLive:      v.IsLive,
			Keywords:    keywords(v),
		},
		DownloadOptions: models.DownloadOptions{
			SelectedQuality: q.Label(),
			EstimatedSize:   services.EstimateSize(v.DurationSeconds, int(q)),
			AllQualities:    qualities,
		},
		DownloadData: models.DownloadData{
			URL:            links.Primary(videoURL, q),
			AlternativeURL: links.Alternative(videoURL, q),
			DirectStream:   direct,
			Note:           downloadNote,
		},
	}
}

func shapeInfo(v *models.Video) models.InfoResponse {
	thumbs := v.Thumbnails
	if thumbs == nil {
		thumbs = []models.Thumbnail{}
	}

	return models.InfoResponse{
		Success: true,
		VideoInfo: models.DetailedVideoInfo{
			ID:    v.ID,
			Title: v.Title,
			Author: models.InfoAuthor{
				Name: v.Author.Name,
				ID:   v.Author.ID,
				URL:  v.Author.URL,
			},
			Duration:   shapeDuration(v.DurationSeconds),
			Thumbnails: thumbs,
			Statistics: models.Statistics{Views: v.ViewCount},
			Metadata: models.InfoMetadata{
				UploadDate:  v.UploadDate,
				PublishDate: v.PublishDate,
				Category:    v.Category,
				IsLive:      v.IsLive,
				Keywords:    keywords(v),
			},
			Description: v.Description,
		},
		AvailableFormats: splitFormats(v.Formats),
		RelatedVideos:    shapeRelated(v.Related),
	}
}

func splitFormats(formats []models.Format) models.AvailableFormats {
	out := models.AvailableFormats{
		Audio:          []models.AudioFormat{},
		Video:          []models.VideoFormat{},
		AudioWithVideo: []models.MuxedFormat{},
	}

	for _, f := range formats {
		size := services.FormatContentLength(f.ContentLength)
		switch {
		case f.HasAudio && !f.HasVideo:
			quality := f.AudioQuality
			if quality == "" {
				quality = "Unknown"
			}
			out.Audio = append(out.Audio, models.AudioFormat{
				Itag:     f.Itag,
				MimeType: f.MimeType,
				Bitrate:  f.AudioBitrate,
				Quality:  quality,
				Size:     size,
				URL:      f.URL,
			})
		case f.HasVideo && !f.HasAudio:
			out.Video = append(out.Video, models.VideoFormat{
				Itag:     f.Itag,
				MimeType: f.MimeType,
				Quality:  f.QualityLabel,
				FPS:      f.FPS,
				Size:     size,
			})
		case f.HasVideo && f.HasAudio:
			out.AudioWithVideo = append(out.AudioWithVideo, models.MuxedFormat{
				Itag:         f.Itag,
				MimeType:     f.MimeType,
				Quality:      f.QualityLabel,
				AudioBitrate: f.AudioBitrate,
				Size:         size,
			})
		}
	}
	return out
}

func shapeRelated(related []models.RelatedVideo) []models.RelatedVideoInfo {
	out := make([]models.RelatedVideoInfo, 0, min(len(related), maxRelatedVideos))
	for i, r := range related {
		if i == maxRelatedVideos {
			break
		}
		out = append(out, models.RelatedVideoInfo{
			ID:       r.ID,
			Title:    r.Title,
			Author:   r.Author,
			Duration: services.FormatDuration(r.DurationSeconds),
			Views:    r.ViewCount,
		})
	}
	return out
}

// paginate slices [start, end) of total items for a 1-based page. Pages past
// the end yield an empty slice; page is never multiplied out beyond the last
// page so huge values cannot overflow.
func paginate(total, page, limit int) (start, end int, p models.Pagination) {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start, end = total, total
	if page-1 < totalPages {
		start = (page - 1) * limit
		end = min(start+limit, total)
	}

	p = models.Pagination{
		Page:         page,
		Limit:        limit,
		TotalResults: total,
		TotalPages:   totalPages,
		HasNextPage:  end < total,
		HasPrevPage:  page > 1,
	}
	return start, end, p
}

func shapeSearchResult(v models.Video) models.SearchResult {
	formatted := services.FormatDuration(v.DurationSeconds)
	return models.SearchResult{
		ID:    v.ID,
		Title: v.Title,
		Author: models.SearchAuthor{
			Name: v.Author.Name,
			URL:  v.Author.URL,
		},
		Duration: models.SearchDuration{
			Timestamp: formatted,
			Seconds:   max(v.DurationSeconds, 0),
			Formatted: formatted,
		},
		Thumbnail:      staticThumbnails(v.ID),
		Views:          v.ViewCount,
		Uploaded:       v.UploadedAgo,
		UploadDate:     v.UploadDate,
		Description:    services.Truncate(v.Description, searchDescriptionLimit),
		URL:            v.URL,
		MP3DownloadURL: services.SelfLink(v.URL, services.DefaultQuality),
	}
}

func shapeSearch(query string, videos []models.Video, page, limit int) models.SearchResponse {
	start, end, p := paginate(len(videos), page, limit)

	results := make([]models.SearchResult, 0, end-start)
	for _, v := range videos[start:end] {
		if v.URL == "" {
			v.URL = models.WatchURL(v.ID)
		}
		results = append(results, shapeSearchResult(v))
	}

	return models.SearchResponse{
		Success:    true,
		Query:      query,
		Pagination: p,
		Results:    results,
	}
}
