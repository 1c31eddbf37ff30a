package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/aggregator"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/catalog"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/search"
	"github.com/vetrovaas/go-clinical-platform/risk-service/mocks"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func dobForAge(age int) time.Time {
	return time.Date(testNow.Year()-age, time.March, 1, 0, 0, 0, 0, time.UTC)
}

// newService собирает сервис поверх gomock-хранилища и gomock-индекса,
// агрегатор настоящий.
func newService(t *testing.T) (*Service, *mocks.MockStorage, *mocks.MockIndex) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	idx := mocks.NewMockIndex(ctrl)

	cat := catalog.New(st)
	svc := New(cat, aggregator.New(idx, 2), idx)
	svc.now = func() time.Time { return testNow }

	return svc, st, idx
}

func expectHits(idx *mocks.MockIndex, patientID, noteID string, hits int64) {
	idx.EXPECT().TermHits(gomock.Any(), patientID, noteID, gomock.Any()).
		Return([]models.TermBucket{{Term: "Smoker", DocCount: hits}}, nil)
}

// TestAssessRisk_EndToEnd — сквозные сценарии порогов.
func TestAssessRisk_EndToEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		age    int
		gender models.Gender
		hits   int64
		want   models.RiskCategory
	}{
		{"young_female_4_in_danger", 25, models.GenderFemale, 4, models.RiskInDanger},
		{"young_female_7_early_onset", 25, models.GenderFemale, 7, models.RiskEarlyOnset},
		{"adult_1_none", 45, models.GenderMale, 1, models.RiskNone},
		{"adult_6_in_danger", 45, models.GenderMale, 6, models.RiskInDanger},
		{"adult_8_early_onset", 45, models.GenderFemale, 8, models.RiskEarlyOnset},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, st, idx := newService(t)

			st.EXPECT().TriggerWords(gomock.Any()).Return([]string{"Smoker"}, nil)
			expectHits(idx, "p-1", "n-1", tc.hits)

			got, err := svc.AssessRisk(context.Background(), "p-1", dobForAge(tc.age), tc.gender, []string{"n-1"})
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Category)
			require.Equal(t, tc.hits, got.TriggerHits)
			require.Equal(t, 1, got.NotesSeen)
		})
	}
}

// TestAssessRisk_ResolvesNotesWhenOmitted — пустой список заметок
// разрешается через индекс.
func TestAssessRisk_ResolvesNotesWhenOmitted(t *testing.T) {
	t.Parallel()

	svc, st, idx := newService(t)

	idx.EXPECT().NoteIDsByPatient(gomock.Any(), "p-1").Return([]string{"n-1", "n-2"}, nil)
	st.EXPECT().TriggerWords(gomock.Any()).Return([]string{"Smoker"}, nil)
	expectHits(idx, "p-1", "n-1", 1)
	expectHits(idx, "p-1", "n-2", 1)

	got, err := svc.AssessRisk(context.Background(), "p-1", dobForAge(45), models.GenderMale, nil)
	require.NoError(t, err)
	require.Equal(t, models.RiskBorderline, got.Category)
	require.Equal(t, 2, got.NotesSeen)
}

func TestAssessRisk_InvalidInput(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService(t)

	_, err := svc.AssessRisk(context.Background(), "", dobForAge(45), models.GenderMale, []string{"n-1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AssessRisk(context.Background(), "p-1", time.Time{}, models.GenderMale, []string{"n-1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	future := testNow.Add(24 * time.Hour)
	_, err = svc.AssessRisk(context.Background(), "p-1", future, models.GenderMale, []string{"n-1"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

// TestAssessRisk_SearchFailureFailsRequest — сбой индекса не даёт
// частичного результата.
func TestAssessRisk_SearchFailureFailsRequest(t *testing.T) {
	t.Parallel()

	svc, st, idx := newService(t)

	st.EXPECT().TriggerWords(gomock.Any()).Return([]string{"Smoker"}, nil)
	idx.EXPECT().TermHits(gomock.Any(), "p-1", "n-1", gomock.Any()).Return(nil, search.ErrUnavailable)

	_, err := svc.AssessRisk(context.Background(), "p-1", dobForAge(45), models.GenderMale, []string{"n-1"})
	require.ErrorIs(t, err, search.ErrUnavailable)
}

func TestAssessRisk_NoteResolutionFailure(t *testing.T) {
	t.Parallel()

	svc, _, idx := newService(t)

	idx.EXPECT().NoteIDsByPatient(gomock.Any(), "p-1").Return(nil, search.ErrUnavailable)

	_, err := svc.AssessRisk(context.Background(), "p-1", dobForAge(45), models.GenderMale, nil)
	require.ErrorIs(t, err, search.ErrUnavailable)
}

// TestAssessRisk_CatalogFallback — при сбое чтения каталога скоринг
// продолжается со встроенным списком.
func TestAssessRisk_CatalogFallback(t *testing.T) {
	t.Parallel()

	svc, st, idx := newService(t)

	st.EXPECT().TriggerWords(gomock.Any()).Return(nil, context.DeadlineExceeded)
	idx.EXPECT().TermHits(gomock.Any(), "p-1", "n-1", catalog.DefaultWords()).
		Return([]models.TermBucket{{Term: "Smoker", DocCount: 2}}, nil)

	got, err := svc.AssessRisk(context.Background(), "p-1", dobForAge(45), models.GenderMale, []string{"n-1"})
	require.NoError(t, err)
	require.Equal(t, models.RiskBorderline, got.Category)
}

func TestTriggerWordOps(t *testing.T) {
	t.Parallel()

	svc, st, _ := newService(t)

	st.EXPECT().TriggerWords(gomock.Any()).Return([]string{"Smoker"}, nil)
	require.Equal(t, []string{"Smoker"}, svc.TriggerWords(context.Background()))

	st.EXPECT().SaveTriggerWords(gomock.Any(), []string{"Relapse", "Reaction"}).Return(nil)
	require.NoError(t, svc.SaveTriggerWords(context.Background(), []string{"Relapse", "Reaction"}))

	require.ErrorIs(t, svc.SaveTriggerWords(context.Background(), nil), catalog.ErrInvalidWordSet)

	st.EXPECT().SaveTriggerWords(gomock.Any(), catalog.DefaultWords()).Return(nil)
	words, err := svc.ResetTriggerWords(context.Background())
	require.NoError(t, err)
	require.Len(t, words, 11)
}
