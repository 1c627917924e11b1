// Package i18n translates the messages of API error responses.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale returns the first supported language of the Accept-Language
// header, in header order, or DefaultLocale. Region subtags and q-values are
// ignored: "fr-CA, es-MX;q=0.8" resolves to "es".
func GetLocale(c *gin.Context) string {
	messages := GetTranslator().messages
	for _, part := range strings.Split(c.GetHeader(AcceptLanguageHeader), ",") {
		lang, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ = strings.Cut(lang, "-")
		lang = strings.ToLower(lang)
		if _, ok := messages[lang]; ok {
			return lang
		}
	}
	return DefaultLocale
}

// getDefaultMessages returns the message catalogue by locale.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			ErrKeyInvalidRequest:      "Invalid request",
			ErrKeyInvalidRequestBody:  "Invalid request body",
			ErrKeyInternalError:       "An unexpected error occurred",
			ErrKeyUnauthorized:        "Unauthorized",
			ErrKeyForbidden:           "Forbidden",
			ErrKeyNotFound:            "Not found",
			ErrKeyRateLimitExceeded:   "Too many requests, please try again later",
			ErrKeyInvalidToken:        "Invalid or expired session",
			ErrKeyTokenRequired:       "A session token is required",
			ErrKeyTimeout:             "The request took too long",
			ErrKeyCustomerNotFound:    "No customer is registered with this email",
			ErrKeyCompanyNotFound:     "Company not found",
			ErrKeyUpstreamUnavailable: "Customer records are temporarily unavailable, please try again shortly",
			ErrKeyNotOwner:            "You can only access your own records",
		},
		"es": {
			ErrKeyInvalidRequest:      "Solicitud inválida",
			ErrKeyInvalidRequestBody:  "Cuerpo de la solicitud inválido",
			ErrKeyInternalError:       "Ocurrió un error inesperado",
			ErrKeyUnauthorized:        "No autorizado",
			ErrKeyForbidden:           "Prohibido",
			ErrKeyNotFound:            "No encontrado",
			ErrKeyRateLimitExceeded:   "Demasiadas solicitudes, inténtelo más tarde",
			ErrKeyInvalidToken:        "Sesión inválida o expirada",
			ErrKeyTokenRequired:       "Se requiere un token de sesión",
			ErrKeyTimeout:             "La solicitud tardó demasiado",
			ErrKeyCustomerNotFound:    "No hay ningún cliente registrado con este correo",
			ErrKeyCompanyNotFound:     "Empresa no encontrada",
			ErrKeyUpstreamUnavailable: "Los registros de clientes no están disponibles temporalmente, inténtelo en breve",
			ErrKeyNotOwner:            "Solo puede acceder a sus propios registros",
		},
	}
}
