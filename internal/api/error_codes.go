// internal/api/error_codes.go
package api

// API错误代码常量
const (
	// 通用错误
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"
	ErrorForbidden     = "FORBIDDEN"
	ErrorUnauthorized  = "UNAUTHORIZED"

	// 生成请求相关错误
	ErrorDescriptionRequired = "DESCRIPTION_REQUIRED"

	// 语音相关错误
	ErrorVoiceNotFound      = "VOICE_NOT_FOUND"
	ErrorVoiceIDRequired    = "VOICE_ID_REQUIRED"
	ErrorTextRequired       = "TEXT_REQUIRED"
	ErrorPremiumVoiceLocked = "PREMIUM_VOICE_LOCKED"
)
