package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/config"
	"github.com/sangnt1552314/ytmp3api/internal/models"
	"github.com/sangnt1552314/ytmp3api/internal/services"
)

var availableEndpoints = []string{
	"GET /api/download/ytmp3",
	"GET /api/video/info",
	"GET /api/search",
	"GET /api/health",
}

type Handler struct {
	resolver services.VideoResolver
	searcher services.VideoSearcher
	cfg      config.Config
	links    services.DownloadLinks
	started  time.Time
	now      func() time.Time
}

func NewHandler(resolver services.VideoResolver, searcher services.VideoSearcher, cfg config.Config) *Handler {
	return &Handler{
		resolver: resolver,
		searcher: searcher,
		cfg:      cfg,
		links: services.DownloadLinks{
			PrimaryBase:     cfg.DownloadPrimaryURL,
			AlternativeBase: cfg.DownloadAlternativeURL,
		},
		started: time.Now(),
		now:     time.Now,
	}
}

// Download handles GET /api/download/ytmp3.
func (h *Handler) Download(c *gin.Context) {
	params, err := validateDownload(c.Query("url"), c.Query("quality"))
	if err != nil {
		h.failValidation(c, err)
		return
	}

	quality, ok := services.ParseQuality(params.Quality)
	if !ok && params.Quality != "" {
		log.Debug().Str("quality", params.Quality).Msg("Unknown quality, using default")
	}

	video, err := h.resolver.ResolveVideo(c.Request.Context(), params.URL)
	if err != nil {
		h.failFetch(c, err, fetchFailure{
			NotFound: "Video not found or unavailable",
			Invalid:  "Invalid YouTube URL format",
			Upstream: "Failed to process your request",
			Tip:      "Please check the URL and try again. If the problem persists, the video might be restricted.",
		})
		return
	}

	resp := shapeMP3(video, params.URL, quality, h.links)
	resp.Developer = h.cfg.DeveloperName
	resp.APIInfo = h.apiInfo(c)
	c.JSON(http.StatusOK, resp)
}

// VideoInfo handles GET /api/video/info.
func (h *Handler) VideoInfo(c *gin.Context) {
	params, err := validateInfo(c.Query("url"), c.Query("id"))
	if err != nil {
		h.failValidation(c, err)
		return
	}

	video, err := h.resolver.ResolveVideo(c.Request.Context(), params.URL)
	if err != nil {
		h.failFetch(c, err, fetchFailure{
			NotFound: "Video not found or unavailable",
			Invalid:  "Invalid YouTube URL format",
			Upstream: "Failed to fetch video information",
		})
		return
	}

	resp := shapeInfo(video)
	resp.Developer = h.cfg.DeveloperName
	resp.APIInfo = h.apiInfo(c)
	c.JSON(http.StatusOK, resp)
}

// Search handles GET /api/search.
func (h *Handler) Search(c *gin.Context) {
	params, err := validateSearch(c.Query("q"), c.Query("limit"), c.Query("page"))
	if err != nil {
		h.failValidation(c, err)
		return
	}

	videos, err := h.searcher.SearchVideos(c.Request.Context(), params.Query)
	if err != nil {
		h.failFetch(c, err, fetchFailure{
			NotFound: "No results found",
			Invalid:  "Invalid search query",
			Upstream: "Search failed",
		})
		return
	}

	resp := shapeSearch(params.Query, videos, params.Page, params.Limit)
	resp.Developer = h.cfg.DeveloperName
	resp.APIInfo = h.apiInfo(c)
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /api/health.
func (h *Handler) Health(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	endpoints := make(map[string]string, len(availableEndpoints))
	for _, e := range availableEndpoints {
		endpoints[e] = "active"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      "healthy",
		Service:     h.cfg.ServiceName,
		Developer:   h.cfg.DeveloperName,
		Version:     h.cfg.APIVersion,
		Uptime:      h.now().Sub(h.started).Seconds(),
		Timestamp:   h.now().UTC().Format(time.RFC3339Nano),
		Environment: h.cfg.Env,
		Endpoints:   endpoints,
		System: models.SystemInfo{
			GoVersion:  runtime.Version(),
			Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			Goroutines: runtime.NumGoroutine(),
			MemoryUsage: models.MemoryUsage{
				Alloc:      humanize.Bytes(mem.Alloc),
				TotalAlloc: humanize.Bytes(mem.TotalAlloc),
				Sys:        humanize.Bytes(mem.Sys),
				HeapInuse:  humanize.Bytes(mem.HeapInuse),
				NumGC:      mem.NumGC,
			},
		},
	})
}

// Root handles GET / with a short usage document.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.RootResponse{
		Message:   h.cfg.ServiceName,
		Developer: h.cfg.DeveloperName,
		Version:   h.cfg.APIVersion,
		Endpoints: map[string]string{
			"mp3Download": "/api/download/ytmp3?url=YOUTUBE_URL&quality=128",
			"videoInfo":   "/api/video/info?url=YOUTUBE_URL",
			"search":      "/api/search?q=QUERY&limit=10",
			"health":      "/api/health",
		},
		Example: "/api/download/ytmp3?url=https://youtube.com/watch?v=dQw4w9WgXcQ&quality=192",
		Note:    "Download links point at third party converters and are provided as a convenience only.",
	})
}

// APIStatus handles GET /api.
func (h *Handler) APIStatus(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIStatusResponse{
		Status:    "active",
		Service:   h.cfg.ServiceName,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.NotFoundResponse{
		Success:            false,
		Error:              "Endpoint not found",
		AvailableEndpoints: availableEndpoints,
	})
}

func (h *Handler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{
		Success: false,
		Error:   "Method not allowed",
	})
}
