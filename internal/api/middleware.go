package api

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/parsererror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failed request.
type ErrorDetail struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RequestValidator adapts go-playground/validator to echo.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// errorHandler maps handler errors to ErrorBody responses. Structural
// document failures and validation errors are client errors.
func errorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := ErrorDetail{Status: http.StatusInternalServerError, Message: "internal error"}
		var (
			httpErr    *echo.HTTPError
			formatErr  *parsererror.InvalidFormatError
			validation validator.ValidationErrors
		)
		switch {
		case errors.As(err, &httpErr):
			body.Status = httpErr.Code
			body.Message = fmt.Sprintf("%v", httpErr.Message)
		case errors.As(err, &validation):
			body.Status = http.StatusBadRequest
			body.Message = "invalid document"
			body.Fields = make(map[string]string, len(validation))
			for _, fe := range validation {
				body.Fields[fe.Namespace()] = fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
			}
		case errors.As(err, &formatErr):
			body.Status = http.StatusBadRequest
			body.Message = formatErr.Error()
		}

		entry := logger.WithFields(
			logging.F("path", c.Request().URL.Path),
			logging.F("method", c.Request().Method),
			logging.F(logging.FieldStatus, body.Status))
		if body.Status >= http.StatusInternalServerError {
			entry.WithError(err).Error("HTTP request failed")
		} else {
			entry.Warn("HTTP request rejected", logging.F(logging.FieldError, err.Error()))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(body.Status)
		} else {
			err = c.JSON(body.Status, ErrorBody{Error: body})
		}
		if err != nil {
			logger.WithError(err).Error("Failed to send error response")
		}
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows rps sustained requests per client with the given
// burst. A non-positive burst defaults to twice the rate, at least 1.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = int(rps * 2)
		if burst < 1 {
			burst = 1
		}
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     3 * time.Minute,
		now:      time.Now,
	}
}

// Allow reports whether a request from key may proceed.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	v, ok := r.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep evicts idle visitors at most once per idle interval. The caller
// holds r.mu.
func (r *RateLimiter) sweep(now time.Time) {
	if r.lastSweep.IsZero() {
		r.lastSweep = now
		return
	}
	if now.Sub(r.lastSweep) < r.idle {
		return
	}
	r.lastSweep = now
	for k, v := range r.visitors {
		if now.Sub(v.lastSeen) > r.idle {
			delete(r.visitors, k)
		}
	}
}

// Middleware returns the echo middleware. Rejected requests get 429.
func (r *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !r.Allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
