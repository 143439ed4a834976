package apierrors

import (
	"fmt"

	"taskboard/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code and message.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// ValidationErr is a JsonErr extended with field-level messages, used for
// 422 responses.
type ValidationErr struct {
	ErrDetails Err                 `json:"error"`
	Fields     map[string][]string `json:"errors"`
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{code, message}}
}

// CreateErrorDetail appends an untranslated detail, such as the offending
// filter key, after the translated message.
func CreateErrorDetail(code int, msgKey string, lang string, detail string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	if detail != "" {
		message = message + ": " + detail
	}
	return JsonErr{ErrDetails: Err{code, message}}
}

// CreateValidationError generates a 422-style payload carrying per-field
// messages alongside the translated summary.
func CreateValidationError(code int, msgKey string, lang string, fields map[string][]string) ValidationErr {
	return ValidationErr{
		ErrDetails: Err{code, GetTransErrorMsg(msgKey, lang)},
		Fields:     fields,
	}
}

// GetTransErrorMsg retrieves the translated error message.
func GetTransErrorMsg(msgKey string, lang string) string {
	l := i18n.NewLocalizer(translator.Translator, lang, "en")
	m := i18n.LocalizeConfig{}
	m.MessageID = msgKey
	msg, err := l.Localize(&m)
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}
