package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/models"
)

// Интеграционные тесты mongo-адаптера поискового индекса:
// - MongoDB поднимается в контейнере один раз на весь пакет (TestMain);
// - каждый тест создаёт свою БД с уникальным именем;
// - проверяются терм-агрегация по заметке и выборка заметок пациента.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./risk-service/internal/search/mongo -v -race -count=1

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет тестов.
// Адрес контейнера прокидывается через ENV MONGO_TEST_URL.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("MONGO_TEST_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestIndex — индекс поверх уникальной БД контейнера.
func newTestIndex(t *testing.T) *Index {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	base := os.Getenv("MONGO_TEST_URL")
	require.NotEmpty(t, base)

	uri := fmt.Sprintf("%s/test_%s", base, uuid.NewString()[:8])

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	idx, err := New(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close(context.Background()) })

	return idx
}

func seedNote(t *testing.T, idx *Index, noteID, patientID, body string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	_, err := idx.notes.InsertOne(ctx, bson.D{
		{Key: "_id", Value: noteID},
		{Key: "patient_id", Value: patientID},
		{Key: "body", Value: body},
	})
	require.NoError(t, err)
}

func TestIntegration_TermHits_CaseInsensitive(t *testing.T) {
	idx := newTestIndex(t)

	seedNote(t, idx, "n-1", "p-1",
		"Patient is a SMOKER, cholesterol abnormal, hemoglobin a1c elevated.")

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	buckets, err := idx.TermHits(ctx, "p-1", "n-1",
		[]string{"Smoker", "Cholesterol", "Hemoglobin A1C", "Dizziness"})
	require.NoError(t, err)

	got := map[string]int64{}
	for _, b := range buckets {
		got[b.Term] = b.DocCount
	}
	require.Equal(t, map[string]int64{
		"Smoker":         1,
		"Cholesterol":    1,
		"Hemoglobin A1C": 1,
	}, got)
}

// TestIntegration_TermHits_ScopedToPatientAndNote — чужая заметка
// и чужой пациент не дают совпадений.
func TestIntegration_TermHits_ScopedToPatientAndNote(t *testing.T) {
	idx := newTestIndex(t)

	seedNote(t, idx, "n-1", "p-1", "Smoker.")
	seedNote(t, idx, "n-2", "p-2", "Smoker.")

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	// Заметка существует, но принадлежит другому пациенту.
	buckets, err := idx.TermHits(ctx, "p-1", "n-2", []string{"Smoker"})
	require.NoError(t, err)
	require.Empty(t, buckets)

	// Несуществующая заметка.
	buckets, err = idx.TermHits(ctx, "p-1", "n-404", []string{"Smoker"})
	require.NoError(t, err)
	require.Empty(t, buckets)
}

// TestIntegration_TermHits_TermsAreLiterals — термин с метасимволами regex
// не матчится как шаблон.
func TestIntegration_TermHits_TermsAreLiterals(t *testing.T) {
	idx := newTestIndex(t)

	seedNote(t, idx, "n-1", "p-1", "Reading: a1c value recorded.")

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	buckets, err := idx.TermHits(ctx, "p-1", "n-1", []string{"a.c"})
	require.NoError(t, err)
	require.Empty(t, buckets)

	buckets, err = idx.TermHits(ctx, "p-1", "n-1", []string{"a1c"})
	require.NoError(t, err)
	require.Equal(t, []models.TermBucket{{Term: "a1c", DocCount: 1}}, buckets)
}

func TestIntegration_TermHits_EmptyTerms(t *testing.T) {
	idx := newTestIndex(t)

	buckets, err := idx.TermHits(context.Background(), "p-1", "n-1", nil)
	require.NoError(t, err)
	require.Empty(t, buckets)
}

func TestIntegration_NoteIDsByPatient(t *testing.T) {
	idx := newTestIndex(t)

	seedNote(t, idx, "n-1", "p-1", "one")
	seedNote(t, idx, "n-2", "p-1", "two")
	seedNote(t, idx, "n-3", "p-2", "other patient")

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	ids, err := idx.NoteIDsByPatient(ctx, "p-1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"n-1", "n-2"}, ids)

	ids, err = idx.NoteIDsByPatient(ctx, "p-404")
	require.NoError(t, err)
	require.Empty(t, ids)
}
