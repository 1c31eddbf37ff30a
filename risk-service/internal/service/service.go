// service реализует прикладные операции risk-сервиса:
// оценку риска диабета и управление каталогом триггер-слов.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vetrovaas/go-clinical-platform/pkg/log"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/catalog"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/scoring"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/search"
)

// Канонические ошибки сервисного слоя.
var (
	// ErrInvalidInput — некорректные данные пациента (пустой id,
	// нулевая дата рождения или дата в будущем).
	ErrInvalidInput = errors.New("invalid input")
)

// HitCounter — агрегатор срабатываний триггер-слов по заметкам.
type HitCounter interface {
	CountHits(ctx context.Context, patientID string, noteIDs, words []string) (int64, error)
}

// Service — сервисный слой поверх каталога, агрегатора и индекса.
type Service struct {
	catalog    *catalog.Catalog
	aggregator HitCounter
	index      search.Index

	// now подменяется в тестах.
	now func() time.Time
}

// New создаёт сервис.
func New(cat *catalog.Catalog, agg HitCounter, idx search.Index) *Service {
	return &Service{
		catalog:    cat,
		aggregator: agg,
		index:      idx,
		now:        time.Now,
	}
}

// Assessment — результат оценки риска.
type Assessment struct {
	PatientID   string
	Category    models.RiskCategory
	TriggerHits int64
	NotesSeen   int
}

// AssessRisk оценивает категорию риска пациента по его заметкам.
// Пустой список noteIDs означает "все заметки пациента" и разрешается
// через индекс. Сбои индекса фатальны для запроса: частичный подсчёт
// занизил бы категорию.
func (s *Service) AssessRisk(ctx context.Context, patientID string, dateOfBirth time.Time, gender models.Gender, noteIDs []string) (*Assessment, error) {
	const op = "service.AssessRisk"

	if patientID == "" {
		return nil, fmt.Errorf("%s: %w: empty patient id", op, ErrInvalidInput)
	}

	now := s.now().UTC()
	if dateOfBirth.IsZero() || dateOfBirth.After(now) {
		return nil, fmt.Errorf("%s: %w: date of birth", op, ErrInvalidInput)
	}

	if len(noteIDs) == 0 {
		ids, err := s.index.NoteIDsByPatient(ctx, patientID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		noteIDs = ids
	}

	words := s.catalog.Get(ctx)

	hits, err := s.aggregator.CountHits(ctx, patientID, noteIDs, words)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	category := scoring.Score(dateOfBirth, gender, hits, now)

	log.From(ctx).Info("risk_assessed",
		slog.String("patient_id", patientID),
		slog.Int("notes", len(noteIDs)),
		slog.Int64("hits", hits),
		slog.String("category", category.String()),
	)

	return &Assessment{
		PatientID:   patientID,
		Category:    category,
		TriggerHits: hits,
		NotesSeen:   len(noteIDs),
	}, nil
}

// TriggerWords возвращает текущий список триггер-слов.
func (s *Service) TriggerWords(ctx context.Context) []string {
	return s.catalog.Get(ctx)
}

// SaveTriggerWords заменяет список триггер-слов целиком.
func (s *Service) SaveTriggerWords(ctx context.Context, words []string) error {
	return s.catalog.Save(ctx, words)
}

// ResetTriggerWords восстанавливает встроенный список и возвращает его.
func (s *Service) ResetTriggerWords(ctx context.Context) ([]string, error) {
	return s.catalog.ResetToDefault(ctx)
}
