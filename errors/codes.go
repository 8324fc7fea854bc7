package errors

// ErrorCode identifies an application error class in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_CONFLICT         ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004
	ErrorCode_REQUEST_CANCELED ErrorCode = 1005
	ErrorCode_REQUEST_TIMEOUT  ErrorCode = 1006

	// Session errors
	ErrorCode_SESSION_NOT_FOUND     ErrorCode = 2000
	ErrorCode_SESSION_INVALID_STATE ErrorCode = 2001
	ErrorCode_SESSION_BUSY          ErrorCode = 2002
	ErrorCode_MISSING_AUDIO_FILE    ErrorCode = 2003

	// Case errors
	ErrorCode_CASE_NOT_FOUND ErrorCode = 3000

	// System config errors
	ErrorCode_CONFIG_INVALID ErrorCode = 4000

	// AI errors
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 5000
	ErrorCode_AI_SUMMARY_FAILED       ErrorCode = 5001

	// Integration errors
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 6000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_CONFLICT:                   "CONFLICT",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_REQUEST_CANCELED:           "REQUEST_CANCELED",
	ErrorCode_REQUEST_TIMEOUT:            "REQUEST_TIMEOUT",
	ErrorCode_SESSION_NOT_FOUND:          "SESSION_NOT_FOUND",
	ErrorCode_SESSION_INVALID_STATE:      "SESSION_INVALID_STATE",
	ErrorCode_SESSION_BUSY:               "SESSION_BUSY",
	ErrorCode_MISSING_AUDIO_FILE:         "MISSING_AUDIO_FILE",
	ErrorCode_CASE_NOT_FOUND:             "CASE_NOT_FOUND",
	ErrorCode_CONFIG_INVALID:             "CONFIG_INVALID",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SUMMARY_FAILED:          "AI_SUMMARY_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
