package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/models"
	"github.com/sangnt1552314/ytmp3api/internal/services"
)

const (
	ctxRequestStart = "requestStart"
	ctxRequestID    = "requestID"
)

func (h *Handler) apiInfo(c *gin.Context) models.APIInfo {
	now := h.now()
	info := models.APIInfo{
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
		APIVersion: h.cfg.APIVersion,
		RequestID:  c.GetString(ctxRequestID),
	}
	if start, ok := c.Get(ctxRequestStart); ok {
		if t, ok := start.(time.Time); ok {
			info.ResponseTime = now.Sub(t).Milliseconds()
		}
	}
	return info
}

// fail writes an error envelope. Internal detail from err is exposed only in
// development; it is always logged.
func (h *Handler) fail(c *gin.Context, status int, resp models.ErrorResponse, err error) {
	resp.Success = false
	if err != nil {
		log.Error().Err(err).
			Str("request_id", c.GetString(ctxRequestID)).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg(resp.Error)
		if h.cfg.IsDevelopment() {
			resp.Message = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

func (h *Handler) failValidation(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		h.fail(c, http.StatusBadRequest, models.ErrorResponse{Error: ve.Message, Example: ve.Example}, nil)
		return
	}
	h.fail(c, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()}, nil)
}

// fetchFailure describes how one endpoint reports collaborator errors.
type fetchFailure struct {
	NotFound string
	Invalid  string
	Upstream string
	Tip      string
}

func (h *Handler) failFetch(c *gin.Context, err error, f fetchFailure) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		h.fail(c, http.StatusNotFound, models.ErrorResponse{
			Error: f.NotFound,
			Tip:   "The requested video might be private, deleted, or not accessible",
		}, err)
	case services.KindInvalidInput:
		h.fail(c, http.StatusBadRequest, models.ErrorResponse{Error: f.Invalid}, err)
	default:
		h.fail(c, http.StatusInternalServerError, models.ErrorResponse{Error: f.Upstream, Tip: f.Tip}, err)
	}
}
