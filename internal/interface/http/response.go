package httpapi

import (
	"errors"
	"net/http"

	"etf-fortune/internal/application/apperr"
	appingest "etf-fortune/internal/application/dataingestion"
	appfortune "etf-fortune/internal/application/fortune"
	"etf-fortune/internal/application/pricequery"
	"etf-fortune/internal/application/profile"
	"etf-fortune/internal/domain/fortune"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Success:   false,
		Error:     msg,
		ErrorCode: code,
	})
}

func writeData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// classify 將應用層錯誤轉為 AppError。
func classify(err error) *apperr.AppError {
	if ae, ok := apperr.As(err); ok {
		return ae
	}
	switch {
	case errors.Is(err, appfortune.ErrInvalidDate):
		return apperr.Invalid(apperr.CodeInvalidDate, err.Error(), err)
	case errors.Is(err, appfortune.ErrIncompleteProfile):
		return apperr.Invalid(apperr.CodeIncomplete, err.Error(), err)
	case errors.Is(err, appfortune.ErrInvalidProfile):
		return apperr.Invalid(apperr.CodeInvalidInput, err.Error(), err)
	case errors.Is(err, appingest.ErrInvalidRange):
		return apperr.Invalid(apperr.CodeInvalidInput, err.Error(), err)
	case fortune.IsValidationError(err):
		return apperr.Invalid(apperr.CodeInvalidInput, err.Error(), err)
	case errors.Is(err, profile.ErrNotFound):
		return apperr.Invalid(apperr.CodeNotFound, err.Error(), err)
	case errors.Is(err, pricequery.ErrNoPrices):
		return apperr.Transient(apperr.CodeDataUnavailable, err.Error(), err)
	}
	return apperr.New(apperr.CodeInternal, "internal error", err)
}

func statusFor(code string) int {
	switch code {
	case apperr.CodeInvalidInput, apperr.CodeInvalidDate, apperr.CodeIncomplete:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeDataUnavailable, apperr.CodeUpstream, apperr.CodeCalendar:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeAppError(c *gin.Context, err error) {
	ae := classify(err)
	status := statusFor(ae.Code)

	ev := s.log.Warn()
	if status >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Err(err).
		Str("request_id", c.GetString(requestIDKey)).
		Str("error_code", ae.Code).
		Str("severity", string(ae.Severity)).
		Msg("request failed")

	msg := ae.Message
	if ae.Code == apperr.CodeInternal {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{
		Success:   false,
		Error:     msg,
		ErrorCode: ae.Code,
		Retryable: ae.Retryable,
	})
}

func invalidDate(err error) error {
	return apperr.Invalid(apperr.CodeInvalidDate, err.Error(), err)
}
