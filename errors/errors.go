package errors

import (
	"fmt"
	"net/http"
)

// AppError is the application error carried to the HTTP boundary and to failure notices
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	e.Details = details
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Upload validation errors. These never reach the analysis service.
func ErrUnsupportedFormat(filename, contentType string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_UNSUPPORTED_FORMAT,
		Message:  "Unsupported format. Please upload MP3 or WAV.",
	}.WithDetail("filename", filename).
		WithDetail("content_type", contentType)
}

func ErrFileTooLarge(filename string, maxSizeMB int) AppError {
	e := AppError{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Code:     ErrorCode_FILE_TOO_LARGE,
		Message:  fmt.Sprintf("File too large. Max %dMB allowed.", maxSizeMB),
	}
	if filename == "" {
		return e
	}
	return e.WithDetail("filename", filename)
}

func ErrMissingFile() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_FILE,
		Message:  "Missing audio file",
	}
}

// Analysis service errors
func ErrSubmissionFailed(detail string, err error) AppError {
	msg := "Analyze failed"
	if detail != "" {
		msg = fmt.Sprintf("Analyze failed: %s", detail)
	}
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_ANALYSIS_SUBMISSION_FAILED,
		Message:  msg,
	}
}

func ErrAnalysisUnauthorized(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_ANALYSIS_UNAUTHORIZED,
		Message:  "Analysis service rejected the API key",
	}
}

func ErrAnalysisRateLimited(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_ANALYSIS_RATE_LIMITED,
		Message:  "Analysis service rate limit reached, try again later",
	}
}

func ErrAnalysisTimeout(attempts int) AppError {
	return AppError{
		HTTPCode: http.StatusGatewayTimeout,
		Code:     ErrorCode_ANALYSIS_TIMEOUT,
		Message:  "Processing timed out",
	}.WithDetail("attempts", fmt.Sprintf("%d", attempts))
}

func ErrAnalysisTransport(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_ANALYSIS_TRANSPORT,
		Message:  "Could not reach the analysis service",
	}
}

func ErrAnalysisInvalidResult(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_ANALYSIS_INVALID_RESULT,
		Message:  "Analysis service returned an invalid result",
	}
}

func ErrAnalysisCancelled(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_ANALYSIS_CANCELLED,
		Message:  "Processing stopped before completion",
	}
}

// Call lookups
func ErrCallNotFound(callID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  "Call not found",
	}.WithDetail("call_id", callID)
}
