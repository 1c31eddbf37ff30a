// transport/http содержит HTTP-эндпоинты risk-сервиса.
// Здесь выполняется только маппинг данных и ошибок доменного слоя (service)
// в HTTP. Вся бизнес-логика находится в пакетах service/catalog/aggregator.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vetrovaas/go-clinical-platform/pkg/httperr"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/service"
)

// dateLayout — формат даты рождения в API.
const dateLayout = "2006-01-02"

// Handlers агрегирует зависимости эндпоинтов.
type Handlers struct {
	service *service.Service
}

// NewHandlers создаёт HTTP-обработчики поверх сервисного слоя.
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{service: svc}
}

type assessRequest struct {
	PatientID   string   `json:"patient_id"`
	DateOfBirth string   `json:"date_of_birth"`
	Gender      string   `json:"gender"`
	NoteIDs     []string `json:"note_ids,omitempty"`
}

type assessResponse struct {
	PatientID   string `json:"patient_id"`
	Category    string `json:"category"`
	TriggerHits int64  `json:"trigger_hits"`
	NotesSeen   int    `json:"notes_seen"`
}

type wordsResponse struct {
	Words []string `json:"words"`
}

type saveWordsRequest struct {
	Words []string `json:"words"`
}

// Assess оценивает категорию риска диабета для пациента.
func (h *Handlers) Assess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := decodeStrict(r, &req); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		httperr.Write(w, r, http.StatusBadRequest, "invalid_argument", "date_of_birth must be YYYY-MM-DD")
		return
	}

	got, err := h.service.AssessRisk(r.Context(), req.PatientID, dob, models.Gender(req.Gender), req.NoteIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, assessResponse{
		PatientID:   got.PatientID,
		Category:    got.Category.String(),
		TriggerHits: got.TriggerHits,
		NotesSeen:   got.NotesSeen,
	})
}

// TriggerWords возвращает текущий список триггер-слов.
func (h *Handlers) TriggerWords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wordsResponse{Words: h.service.TriggerWords(r.Context())})
}

// SaveTriggerWords заменяет список триггер-слов целиком.
func (h *Handlers) SaveTriggerWords(w http.ResponseWriter, r *http.Request) {
	var req saveWordsRequest
	if err := decodeStrict(r, &req); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	if err := h.service.SaveTriggerWords(r.Context(), req.Words); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wordsResponse{Words: req.Words})
}

// ResetTriggerWords восстанавливает встроенный список.
func (h *Handlers) ResetTriggerWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.service.ResetTriggerWords(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wordsResponse{Words: words})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

func writeInvalidArgument(w http.ResponseWriter, r *http.Request) {
	httperr.Write(w, r, http.StatusBadRequest, "invalid_argument", "invalid argument")
}
