package services

import (
	"context"

	"github.com/sangnt1552314/ytmp3api/internal/models"
)

// VideoResolver turns a YouTube URL or bare video ID into metadata.
type VideoResolver interface {
	ResolveVideo(ctx context.Context, urlOrID string) (*models.Video, error)
}

// VideoSearcher returns the full ordered result set for a query. Ranking is
// entirely the implementation's business; callers paginate the slice.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string) ([]models.Video, error)
}
