package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"FinVerdict/internal/domain/models"
	"FinVerdict/internal/services/sentiment"
	"FinVerdict/internal/usecase"
	xhttp "FinVerdict/pkg/http"
	"FinVerdict/pkg/http/middleware"
	xlogger "FinVerdict/pkg/logger"

	"github.com/labstack/echo/v4"
)

// VerdictService is the use case surface the handler needs.
type VerdictService interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.Verdict, bool, error)
	Detailed(ctx context.Context, req models.AnalyzeRequest) (*models.DetailedAnalysis, error)
	SentimentBatch(ctx context.Context, req models.SentimentRequest) ([]models.SentimentAggregate, map[string]string, error)
}

// Collaborators reports which upstreams are configured, for /health.
type Collaborators struct {
	PriceSource  string `json:"price_source"`
	AlphaVantage bool   `json:"alphavantage"`
	Benzinga     bool   `json:"benzinga"`
	HuggingFace  bool   `json:"huggingface"`
	Narrative    string `json:"narrative"`
}

// DeadLetterCounter reports refresh jobs that exhausted their retries.
type DeadLetterCounter interface {
	DeadLetters(ctx context.Context) (int64, error)
}

type SentimentResponse struct {
	Results []models.SentimentAggregate `json:"results"`
	Errors  map[string]string           `json:"errors,omitempty"`
}

// VerdictHandler serves the verdict API over echo.
type VerdictHandler struct {
	logger  *xlogger.Logger
	svc     VerdictService
	limiter middleware.Allower
	collabs Collaborators
	dead    DeadLetterCounter
	now     func() time.Time
}

// HandlerOption configures VerdictHandler.
type HandlerOption func(*VerdictHandler)

// WithDeadLetters adds the refresh queue's dead letter count to /health.
func WithDeadLetters(d DeadLetterCounter) HandlerOption {
	return func(h *VerdictHandler) {
		h.dead = d
	}
}

// NewVerdictHandler builds the handler; a nil limiter disables per-client throttling.
func NewVerdictHandler(logger *xlogger.Logger, svc VerdictService, limiter middleware.Allower, collabs Collaborators, opts ...HandlerOption) *VerdictHandler {
	h := &VerdictHandler{logger: logger, svc: svc, limiter: limiter, collabs: collabs, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *VerdictHandler) RegisterRoutes(e *echo.Echo) {
	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, middleware.RateLimit(h.limiter))
	}

	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/test", h.Test)

	e.POST("/analyze", h.Analyze, mw...)
	e.POST("/analyze/detailed", h.Detailed, mw...)

	g := e.Group("/api", mw...)
	g.POST("/analyze", h.Analyze)
	g.POST("/analyze/detailed", h.Detailed)
	g.POST("/sentiment", h.Sentiment)
	g.POST("/sentiment/clean", h.Clean)
}

func (h *VerdictHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "AI Financial Verdict System",
		"status":  "running",
	})
}

func (h *VerdictHandler) Health(c echo.Context) error {
	body := map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"services":  h.collabs,
	}
	if h.dead != nil {
		n, err := h.dead.DeadLetters(c.Request().Context())
		if err != nil {
			h.logger.Warn("dead letter count failed", xlogger.Error(err))
			body["status"] = "degraded"
		} else {
			if n > 0 {
				h.logger.Warn("refresh jobs in dead letter list", xlogger.Int64("dead_letters", n))
			}
			body["dead_letters"] = n
		}
	}
	return c.JSON(http.StatusOK, body)
}

func (h *VerdictHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":   "Backend is working!",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Analyze returns the frontend verdict unwrapped. X-Cache reports whether it came from cache.
func (h *VerdictHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	v, cached, err := h.svc.Analyze(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "analyze", err)
	}

	status := "MISS"
	if cached {
		status = "HIT"
	}
	c.Response().Header().Set("X-Cache", status)
	return c.JSON(http.StatusOK, v)
}

func (h *VerdictHandler) Detailed(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.svc.Detailed(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "detailed", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *VerdictHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	aggs, errs, err := h.svc.SentimentBatch(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "sentiment", err)
	}
	return xhttp.SuccessResponse(c, SentimentResponse{Results: aggs, Errors: errs})
}

func (h *VerdictHandler) Clean(c echo.Context) error {
	req := &models.CleanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, sentiment.CleanRecords(req.Rows))
}

func (h *VerdictHandler) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logger.Warn(op+" aborted", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("request did not complete in time").WithError(err))
	default:
		h.logger.Error(op+" usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
