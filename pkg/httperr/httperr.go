// httperr стандартизирует тела ошибок HTTP-слоя сервисов.
// Транспорт каждого сервиса сам знает свой маппинг доменных ошибок в статусы;
// здесь — только единый формат ответа и запись с request_id для трассировки.
package httperr

import (
	"encoding/json"
	"net/http"
)

// APIError — единый формат для клиентов.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание без внутренних деталей.
// RequestID — прокидывается из X-Request-Id, если есть.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Write пишет унифицированный ответ об ошибке с указанным статусом.
func Write(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	resp := ErrorResponse{Error: APIError{Code: code, Message: message}}

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// Internal — частый случай: 500 без раскрытия причин.
func Internal(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusInternalServerError, "internal", "internal error")
}
