package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/models"
)

// MetadataEnricher fills fields kkdai/youtube does not expose, such as the
// category and keywords of a video.
type MetadataEnricher interface {
	Enrich(ctx context.Context, v *models.Video) error
}

// YouTubeService resolves single videos through kkdai/youtube.
type YouTubeService struct {
	client   youtube.Client
	enricher MetadataEnricher
}

func NewYouTubeService(httpClient *http.Client) *YouTubeService {
	return &YouTubeService{
		client: youtube.Client{HTTPClient: httpClient},
	}
}

// WithEnricher sets a best effort enricher run after every resolve.
func (s *YouTubeService) WithEnricher(e MetadataEnricher) *YouTubeService {
	s.enricher = e
	return s
}

// ResolveVideo fetches metadata and formats for a video URL or ID. The direct
// audio stream URL is best effort and left empty when it cannot be resolved.
func (s *YouTubeService) ResolveVideo(ctx context.Context, urlOrID string) (*models.Video, error) {
	log.Debug().Str("video", urlOrID).Msg("Resolving video")

	video, err := s.client.GetVideoContext(ctx, urlOrID)
	if err != nil {
		return nil, classifyYouTubeError("resolve video", err)
	}

	out := convertVideo(video)

	if best := bestAudioFormat(video.Formats); best != nil {
		streamURL, err := s.client.GetStreamURLContext(ctx, video, best)
		if err != nil {
			log.Warn().Err(err).Str("video_id", video.ID).Int("itag", best.ItagNo).Msg("Failed to resolve audio stream url")
		} else {
			out.DirectStreamURL = streamURL
		}
	}

	s.enrich(ctx, out)
	return out, nil
}

func (s *YouTubeService) enrich(ctx context.Context, v *models.Video) {
	if s.enricher == nil {
		return
	}
	if err := s.enricher.Enrich(ctx, v); err != nil {
		log.Debug().Err(err).Str("video_id", v.ID).Msg("Metadata enrichment skipped")
	}
	if v.Keywords == nil {
		v.Keywords = []string{}
	}
}

func convertVideo(v *youtube.Video) *models.Video {
	duration := int64(v.Duration.Seconds())
	isLive := v.HLSManifestURL != ""
	if duration == 0 && isLive {
		duration = -1
	}

	out := &models.Video{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Author: models.Author{
			Name:   v.Author,
			ID:     v.ChannelID,
			URL:    models.ChannelURL(v.ChannelID),
			Handle: v.ChannelHandle,
		},
		DurationSeconds: duration,
		ViewCount:       int64(v.Views),
		IsLive:          isLive,
		Keywords:        []string{},
		URL:             models.WatchURL(v.ID),
		Related:         []models.RelatedVideo{},
	}

	if !v.PublishDate.IsZero() {
		out.UploadDate = v.PublishDate.Format("2006-01-02")
		out.PublishDate = v.PublishDate.Format("2006-01-02")
	}

	out.Thumbnails = make([]models.Thumbnail, 0, len(v.Thumbnails))
	for _, t := range v.Thumbnails {
		out.Thumbnails = append(out.Thumbnails, models.Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
	}

	out.Formats = make([]models.Format, 0, len(v.Formats))
	for _, f := range v.Formats {
		out.Formats = append(out.Formats, convertFormat(f))
	}

	return out
}

func convertFormat(f youtube.Format) models.Format {
	hasVideo := strings.HasPrefix(f.MimeType, "video/")
	hasAudio := f.AudioChannels > 0 || strings.HasPrefix(f.MimeType, "audio/")

	// muxed streams do not report the audio share of their bitrate
	audioBitrate := 0
	if hasAudio && !hasVideo {
		audioBitrate = f.AverageBitrate / 1000
		if audioBitrate == 0 {
			audioBitrate = f.Bitrate / 1000
		}
	}

	return models.Format{
		Itag:          f.ItagNo,
		MimeType:      f.MimeType,
		Bitrate:       f.Bitrate,
		AudioBitrate:  audioBitrate,
		AudioQuality:  f.AudioQuality,
		QualityLabel:  f.QualityLabel,
		FPS:           f.FPS,
		ContentLength: f.ContentLength,
		URL:           f.URL,
		HasAudio:      hasAudio,
		HasVideo:      hasVideo,
	}
}

// bestAudioFormat picks the audio-only format with the highest bitrate.
func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

func classifyYouTubeError(op string, err error) error {
	switch {
	case errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrNotPlayableInEmbed):
		return NewFetchError(KindNotFound, op, err)
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return NewFetchError(KindInvalidInput, op, err)
	}

	var playability *youtube.ErrPlayabiltyStatus
	if errors.As(err, &playability) {
		return NewFetchError(KindNotFound, op, err)
	}

	if isTransient(err) {
		return NewFetchError(KindTransient, op, err)
	}
	return NewFetchError(KindUpstream, op, err)
}
