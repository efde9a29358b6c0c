package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/metrics"
)

// NewRouter wires the middleware chain and every route onto a gin engine.
func NewRouter(h *Handler, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// X-Forwarded-For is only honoured from configured proxies, otherwise
	// clients could pick their own rate limit key.
	if err := r.SetTrustedProxies(h.cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("trusted_proxies", h.cfg.TrustedProxies).Msg("Invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		RequestID(),
		RequestLogger(m),
		Recovery(h.cfg.IsDevelopment()),
		CORS(),
		CORSFallback(),
	)

	r.GET("/", h.Root)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	{
		api.GET("", h.APIStatus)
		api.GET("/health", h.Health)

		limited := api.Group("", RateLimit(h.cfg.RateLimitRPS, h.cfg.RateLimitBurst, m))
		limited.GET("/download/ytmp3", h.Download)
		limited.GET("/video/info", h.VideoInfo)
		limited.GET("/search", h.Search)
	}

	r.NoRoute(h.NotFound)
	r.NoMethod(h.MethodNotAllowed)

	return r
}
