package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

const dataAPIPageSize = 50

// DataAPISearcher searches through the YouTube Data API v3. Durations and
// view counts come from a second videos.list call for the same page.
type DataAPISearcher struct {
	service    *ytapi.Service
	maxResults int
}

func NewDataAPISearcher(ctx context.Context, apiKey string, maxResults int) (*DataAPISearcher, error) {
	if apiKey == "" {
		return nil, errors.New("youtube api key is required")
	}
	if maxResults <= 0 {
		maxResults = dataAPIPageSize
	}

	log.Info().Msg("Connecting to YouTube Data API")

	service, err := ytapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &DataAPISearcher{service: service, maxResults: maxResults}, nil
}

func (s *DataAPISearcher) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewFetchError(KindInvalidInput, "search videos", errors.New("empty query"))
	}

	now := time.Now()
	videos := []models.Video{}
	pageToken := ""

	for len(videos) < s.maxResults {
		size := min(s.maxResults-len(videos), dataAPIPageSize)

		call := s.service.Search.List([]string{"snippet"}).
			Q(query).
			Type("video").
			MaxResults(int64(size)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("Failed to search YouTube Data API")
			return nil, classifyGoogleAPIError("search videos", err)
		}

		page := make([]models.Video, 0, len(resp.Items))
		for _, item := range resp.Items {
			if v, ok := convertSearchResult(item, now); ok {
				page = append(page, v)
			}
		}

		if err := s.enrich(ctx, page); err != nil {
			log.Warn().Err(err).Str("query", query).Msg("Failed to load video details, durations unknown")
		}
		videos = append(videos, page...)

		pageToken = resp.NextPageToken
		if pageToken == "" || len(resp.Items) == 0 {
			break
		}
	}

	if len(videos) > s.maxResults {
		videos = videos[:s.maxResults]
	}
	return videos, nil
}

// enrich fills duration and view counts for a page of search results.
func (s *DataAPISearcher) enrich(ctx context.Context, page []models.Video) error {
	if len(page) == 0 {
		return nil
	}

	ids := make([]string, 0, len(page))
	for _, v := range page {
		ids = append(ids, v.ID)
	}

	resp, err := s.service.Videos.List([]string{"contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	details := make(map[string]*ytapi.Video, len(resp.Items))
	for _, item := range resp.Items {
		details[item.Id] = item
	}
	for i := range page {
		applyVideoDetails(&page[i], details[page[i].ID])
	}
	return nil
}

func convertSearchResult(item *ytapi.SearchResult, now time.Time) (models.Video, bool) {
	if item == nil || item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
		return models.Video{}, false
	}
	sn := item.Snippet

	v := models.Video{
		ID:              item.Id.VideoId,
		Title:           html.UnescapeString(sn.Title),
		Description:     html.UnescapeString(sn.Description),
		Author:          models.Author{Name: sn.ChannelTitle, ID: sn.ChannelId, URL: models.ChannelURL(sn.ChannelId)},
		DurationSeconds: -1,
		IsLive:          sn.LiveBroadcastContent == "live",
		Keywords:        []string{},
		URL:             models.WatchURL(item.Id.VideoId),
		Related:         []models.RelatedVideo{},
	}

	if published, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
		v.UploadDate = published.Format("2006-01-02")
		v.PublishDate = v.UploadDate
		v.UploadedAgo = humanize.RelTime(published, now, "ago", "from now")
	} else if sn.PublishedAt != "" {
		log.Warn().Err(err).Str("date", sn.PublishedAt).Msg("Failed to parse video published date")
	}

	v.Thumbnails = []models.Thumbnail{}
	if sn.Thumbnails != nil {
		for _, t := range []*ytapi.Thumbnail{sn.Thumbnails.Default, sn.Thumbnails.Medium, sn.Thumbnails.High} {
			if t == nil {
				continue
			}
			v.Thumbnails = append(v.Thumbnails, models.Thumbnail{URL: t.Url, Width: uint(t.Width), Height: uint(t.Height)})
		}
	}
	return v, true
}

func applyVideoDetails(v *models.Video, details *ytapi.Video) {
	if details == nil {
		return
	}
	if details.ContentDetails != nil {
		v.DurationSeconds = ParseISODuration(details.ContentDetails.Duration)
	}
	if details.Statistics != nil {
		v.ViewCount = int64(details.Statistics.ViewCount)
	}
}

// permanentForbiddenReasons are 403 reasons that retrying cannot fix, unlike
// quotaExceeded or rateLimitExceeded.
var permanentForbiddenReasons = map[string]bool{
	"keyInvalid":          true,
	"keyExpired":          true,
	"forbidden":           true,
	"accessNotConfigured": true,
	"ipRefererBlocked":    true,
}

func hasPermanentReason(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		if permanentForbiddenReasons[item.Reason] {
			return true
		}
	}
	return false
}

func classifyGoogleAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusBadRequest:
			return NewFetchError(KindInvalidInput, op, err)
		case apiErr.Code == http.StatusNotFound:
			return NewFetchError(KindNotFound, op, err)
		case apiErr.Code == http.StatusForbidden && hasPermanentReason(apiErr):
			return NewFetchError(KindUpstream, op, err)
		case apiErr.Code == http.StatusForbidden,
			apiErr.Code == http.StatusTooManyRequests,
			apiErr.Code >= http.StatusInternalServerError:
			return NewFetchError(KindTransient, op, err)
		}
		return NewFetchError(KindUpstream, op, err)
	}

	if isTransient(err) {
		return NewFetchError(KindTransient, op, err)
	}
	return NewFetchError(KindUpstream, op, err)
}
