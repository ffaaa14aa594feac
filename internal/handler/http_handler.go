package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-image-enhancer/internal/repository"
	"github.com/weiawesome/wes-image-enhancer/internal/service"
	"github.com/weiawesome/wes-image-enhancer/pkg/log"
	"github.com/weiawesome/wes-image-enhancer/pkg/response"
)

type HTTPHandler struct {
	queryService service.QueryService
	metrics      http.Handler
}

// NewHTTPHandler creates the read API handler. metricsHandler may be nil.
func NewHTTPHandler(queryService service.QueryService, metricsHandler http.Handler) *HTTPHandler {
	return &HTTPHandler{
		queryService: queryService,
		metrics:      metricsHandler,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/outcomes", h.ListOutcomes)
		// Image ids are object keys and may contain slashes.
		api.GET("/outcomes/*image_id", h.GetOutcome)
		api.GET("/images", h.ListImages)
		api.GET("/images/:image_id", h.GetImage)
	}

	r.GET("/health", h.HealthCheck)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}
}

func (h *HTTPHandler) ListOutcomes(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	outcomes, err := h.queryService.ListOutcomes(c.Request.Context(), limit)
	if err != nil {
		h.internalError(c, err, "failed to list outcomes")
		return
	}

	response.Success(c, outcomes)
}

func (h *HTTPHandler) GetOutcome(c *gin.Context) {
	imageID := strings.TrimPrefix(c.Param("image_id"), "/")
	if imageID == "" {
		response.BadRequest(c, "image_id is required")
		return
	}

	view, err := h.queryService.GetOutcome(c.Request.Context(), imageID)
	if err != nil {
		if errors.Is(err, repository.ErrOutcomeNotFound) {
			response.OutcomeNotFound(c, imageID)
			return
		}
		h.internalError(c, err, "failed to get outcome")
		return
	}

	response.Success(c, view)
}

func (h *HTTPHandler) ListImages(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	images, err := h.queryService.ListImages(c.Request.Context(), limit)
	if err != nil {
		h.internalError(c, err, "failed to list images")
		return
	}

	response.Success(c, images)
}

func (h *HTTPHandler) GetImage(c *gin.Context) {
	imageID := c.Param("image_id")
	image, err := h.queryService.GetImage(c.Request.Context(), imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			response.ImageNotFound(c, imageID)
			return
		}
		h.internalError(c, err, "failed to get image")
		return
	}

	response.Success(c, image)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (h *HTTPHandler) internalError(c *gin.Context, err error, message string) {
	l := log.Ctx(c.Request.Context())
	l.Error().Err(err).Msg(message)
	_ = c.Error(err)
	response.InternalError(c, message)
}

// parseLimit reads the optional limit query parameter; the service applies
// the default and the cap.
func parseLimit(c *gin.Context) (int, bool) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		response.BadRequest(c, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}
