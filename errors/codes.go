package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT ErrorCode = 2
	ErrorCode_NOT_FOUND        ErrorCode = 3
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 4

	// Upload validation
	ErrorCode_UNSUPPORTED_FORMAT ErrorCode = 100
	ErrorCode_FILE_TOO_LARGE     ErrorCode = 101
	ErrorCode_MISSING_FILE       ErrorCode = 102

	// Analysis service
	ErrorCode_ANALYSIS_SUBMISSION_FAILED ErrorCode = 200
	ErrorCode_ANALYSIS_UNAUTHORIZED      ErrorCode = 201
	ErrorCode_ANALYSIS_RATE_LIMITED      ErrorCode = 202
	ErrorCode_ANALYSIS_TIMEOUT           ErrorCode = 203
	ErrorCode_ANALYSIS_TRANSPORT         ErrorCode = 204
	ErrorCode_ANALYSIS_INVALID_RESULT    ErrorCode = 205
	ErrorCode_ANALYSIS_CANCELLED         ErrorCode = 206
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_UNSUPPORTED_FORMAT:         "UNSUPPORTED_FORMAT",
	ErrorCode_FILE_TOO_LARGE:             "FILE_TOO_LARGE",
	ErrorCode_MISSING_FILE:               "MISSING_FILE",
	ErrorCode_ANALYSIS_SUBMISSION_FAILED: "ANALYSIS_SUBMISSION_FAILED",
	ErrorCode_ANALYSIS_UNAUTHORIZED:      "ANALYSIS_UNAUTHORIZED",
	ErrorCode_ANALYSIS_RATE_LIMITED:      "ANALYSIS_RATE_LIMITED",
	ErrorCode_ANALYSIS_TIMEOUT:           "ANALYSIS_TIMEOUT",
	ErrorCode_ANALYSIS_TRANSPORT:         "ANALYSIS_TRANSPORT",
	ErrorCode_ANALYSIS_INVALID_RESULT:    "ANALYSIS_INVALID_RESULT",
	ErrorCode_ANALYSIS_CANCELLED:         "ANALYSIS_CANCELLED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
