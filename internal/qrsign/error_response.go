package qrsign

// error_response.go maps internal errors to localized HTTP error responses.
// The taxonomy (sign.Error code + reason) decides the status code; the
// request locale decides the display string. Locale never changes status.

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/egov-mobile/qr-sign-service/app/internal/logger"
	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// SignErrorResponse is the error body every endpoint returns: a single
// message in the locale requested via Accept-Language.
type SignErrorResponse struct {
	Message string `json:"message"`
}

// Locale is a supported display language.
type Locale string

const (
	LocaleRu Locale = "ru"
	LocaleKk Locale = "kk"
)

// ParseAcceptLanguage picks the display locale for a request. Kazakh is
// selected when the header mentions "kk"; everything else, including
// English and absent headers, falls back to Russian.
func ParseAcceptLanguage(header string) Locale {
	if strings.Contains(strings.ToLower(header), "kk") {
		return LocaleKk
	}
	return LocaleRu
}

// localizedMessage holds the display strings for one rejection reason.
type localizedMessage struct {
	ru string
	kk string
}

func (m localizedMessage) in(loc Locale) string {
	if loc == LocaleKk && m.kk != "" {
		return m.kk
	}
	return m.ru
}

// reasonMessages maps every rejection reason to its client-facing strings.
// A reason missing from this table falls through to the generic message for
// its error code.
var reasonMessages = map[sign.Reason]localizedMessage{
	sign.ReasonEmptyRequest: {
		ru: "Пустой запрос.",
		kk: "Бос сұраныс.",
	},
	sign.ReasonMissingBundle: {
		ru: "Отсутствует объект documents.",
		kk: "Documents объектісі жоқ.",
	},
	sign.ReasonInvalidVersion: {
		ru: "Поле version должно быть положительным.",
		kk: "Version өрісі оң сан болуы керек.",
	},
	sign.ReasonEmptyDocumentList: {
		ru: "Список documentsToSign пуст.",
		kk: "DocumentsToSign тізімі бос.",
	},
	sign.ReasonMissingSignMethod: {
		ru: "Не указан signMethod для документа (и не задан общий signMethod).",
		kk: "Құжат үшін signMethod көрсетілмеген (және жалпы signMethod берілмеген).",
	},
	sign.ReasonInvalidSignMethod: {
		ru: "Недопустимый signMethod. Допустимые: XML, CMS_WITH_DATA, CMS_SIGN_ONLY, SIGN_BYTES_ARRAY, MIX_SIGN.",
		kk: "Жарамсыз signMethod. Рұқсат етілгендер: XML, CMS_WITH_DATA, CMS_SIGN_ONLY, SIGN_BYTES_ARRAY, MIX_SIGN.",
	},
	sign.ReasonMissingXML: {
		ru: "Для метода XML требуется непустое поле documentXml.",
		kk: "XML әдісі үшін бос емес documentXml өрісі қажет.",
	},
	sign.ReasonMissingFile: {
		ru: "Для методов CMS/SIGN_BYTES_ARRAY требуется объект document.file.",
		kk: "CMS/SIGN_BYTES_ARRAY әдістері үшін document.file объектісі қажет.",
	},
	sign.ReasonMissingFileMime: {
		ru: "Поле mime в document.file обязательно.",
		kk: "Document.file ішіндегі mime өрісі міндетті.",
	},
	sign.ReasonMissingFileData: {
		ru: "Поле data в document.file обязательно.",
		kk: "Document.file ішіндегі data өрісі міндетті.",
	},
	sign.ReasonFieldTooLarge: {
		ru: "Превышен допустимый размер поля.",
		kk: "Өрістің рұқсат етілген өлшемі асып кетті.",
	},
	sign.ReasonInvalidBin: {
		ru: "Некорректный БИН организации.",
		kk: "Ұйымның БСН коды қате.",
	},
	sign.ReasonInvalidExpiry: {
		ru: "Дата истечения должна быть в будущем.",
		kk: "Мерзімнің аяқталу күні болашақта болуы керек.",
	},
	sign.ReasonTransactionNotFound: {
		ru: "Транзакция не найдена.",
		kk: "Транзакция табылмады.",
	},
	sign.ReasonNotEligible: {
		ru: "Транзакция истекла или не готова к подписанию.",
		kk: "Транзакция мерзімі өтті немесе қол қоюға дайын емес.",
	},
	sign.ReasonUnsupportedAuth: {
		ru: "Неподдерживаемый тип аутентификации.",
		kk: "Қолдау көрсетілмейтін аутентификация түрі.",
	},
	sign.ReasonMissingAuthProof: {
		ru: "Отсутствуют данные для аутентификации.",
		kk: "Аутентификация үшін деректер жоқ.",
	},
	sign.ReasonAuthRejected: {
		ru: "Аутентификация не прошла проверку. Подпись недействительна или данные не соответствуют.",
		kk: "Аутентификация тексеруден өтпеді. Қолтаңба жарамсыз немесе деректер сәйкес келмейді.",
	},
	sign.ReasonSignatureInvalid: {
		ru: "Подписанные документы не прошли валидацию подписи.",
		kk: "Қол қойылған құжаттар қолтаңба валидациясынан өтпеді.",
	},
	sign.ReasonInternal: {
		ru: "Внутренняя ошибка сервиса.",
		kk: "Қызметтің ішкі қатесі.",
	},
}

// codeMessages are the fallback strings per error code.
var codeMessages = map[sign.ErrorCode]localizedMessage{
	sign.ErrCodeValidation:     {ru: "Некорректный запрос.", kk: "Қате сұраныс."},
	sign.ErrCodeNotFound:       {ru: "Транзакция не найдена.", kk: "Транзакция табылмады."},
	sign.ErrCodeNotEligible:    {ru: "Транзакция истекла или не готова к подписанию.", kk: "Транзакция мерзімі өтті немесе қол қоюға дайын емес."},
	sign.ErrCodeAuthentication: {ru: "Аутентификация не прошла проверку.", kk: "Аутентификация тексеруден өтпеді."},
	sign.ErrCodeVerification:   {ru: "Подписанные документы не прошли валидацию подписи.", kk: "Қол қойылған құжаттар қолтаңба валидациясынан өтпеді."},
	sign.ErrCodeInternal:       {ru: "Внутренняя ошибка сервиса.", kk: "Қызметтің ішкі қатесі."},
}

// StatusForError maps an error to its HTTP status code. Unsupported auth
// scheme is a client mistake (400), a missing or failed proof is a
// forbidden (403), matching the original endpoint contract.
func StatusForError(err error) int {
	var signErr *sign.Error
	if !errors.As(err, &signErr) {
		return http.StatusInternalServerError
	}
	switch signErr.Code() {
	case sign.ErrCodeValidation:
		return http.StatusBadRequest
	case sign.ErrCodeNotFound:
		return http.StatusNotFound
	case sign.ErrCodeNotEligible:
		return http.StatusForbidden
	case sign.ErrCodeAuthentication:
		if signErr.Reason() == sign.ReasonUnsupportedAuth {
			return http.StatusBadRequest
		}
		return http.StatusForbidden
	case sign.ErrCodeVerification:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// LocalizedMessage returns the display string for err in the given locale.
// Non-taxonomy errors get the generic internal-error message so internal
// details never reach clients.
func LocalizedMessage(err error, loc Locale) string {
	var signErr *sign.Error
	if !errors.As(err, &signErr) {
		return codeMessages[sign.ErrCodeInternal].in(loc)
	}
	if msg, ok := reasonMessages[signErr.Reason()]; ok {
		return msg.in(loc)
	}
	if msg, ok := codeMessages[signErr.Code()]; ok {
		return msg.in(loc)
	}
	return codeMessages[sign.ErrCodeInternal].in(loc)
}

var (
	msgRequestTooLarge = localizedMessage{
		ru: "Размер запроса превышает допустимый предел.",
		kk: "Сұраныс өлшемі рұқсат етілген шектен асады.",
	}
	msgRateLimited = localizedMessage{
		ru: "Слишком много запросов. Повторите попытку позже.",
		kk: "Сұраныстар тым көп. Кейінірек қайталап көріңіз.",
	}
)

// RespondWithRequestTooLarge rejects an oversized request body with 413.
func RespondWithRequestTooLarge(w http.ResponseWriter, r *http.Request) {
	loc := ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	RespondWithJSON(w, http.StatusRequestEntityTooLarge, SignErrorResponse{Message: msgRequestTooLarge.in(loc)})
}

// RespondWithRateLimited rejects a throttled request with 429.
func RespondWithRateLimited(w http.ResponseWriter, r *http.Request) {
	loc := ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	RespondWithJSON(w, http.StatusTooManyRequests, SignErrorResponse{Message: msgRateLimited.in(loc)})
}

// RespondWithError sends the localized error body for err, logging the full
// error detail server-side. The client sees only the sanitized message.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	loc := ParseAcceptLanguage(r.Header.Get("Accept-Language"))

	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Warn("request failed",
		slog.String("error", err.Error()),
		slog.Int("status_code", status),
		slog.String("locale", string(loc)),
	)

	RespondWithJSON(w, status, SignErrorResponse{Message: LocalizedMessage(err, loc)})
}
