package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"
)

func seedReadings(t *testing.T, repo *fakeReadingRepo, hash string) {
	t.Helper()
	seeds := []struct {
		variant oracledomain.Variant
		full    string
		brief   string
	}{
		{oracledomain.Horoscope{Range: oracledomain.RangeDaily}, "A career breakthrough approaches as Mars enters your tenth house.", "Career breakthrough"},
		{oracledomain.MoonPhase{Phase: "Full Moon"}, "The full moon illuminates matters of the heart and old attachments.", "Full moon and the heart"},
		{oracledomain.CosmicWeather{}, "Mercury retrograde clouds communication today.", "Mercury retrograde"},
	}
	for _, s := range seeds {
		require.NoError(t, repo.Insert(&oracledomain.Reading{
			UserIDHash: hash,
			Variant:    s.variant,
			Content:    oracledomain.Content{Full: s.full, Brief: s.brief},
			Stamp:      oracledomain.Stamp{LocalDate: "2026-03-10", LocalTimestamp: "2026-03-10T09:00:00+00:00"},
		}))
	}
}

func TestSearchReadings_FuzzyFallback(t *testing.T) {
	uc, readingRepo, _, _ := newTestUsecase(t)
	user := testUser("UTC")
	hash := crypto.HashUserID(user.ID)
	seedReadings(t, readingRepo, hash)

	resp, err := uc.SearchReadings(context.Background(), user.ID, "career", 10)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Contains(t, resp.Results[0].Reading.Content.Full, "career breakthrough")
}

func TestSearchReadings_OtherUsersReadingsInvisible(t *testing.T) {
	uc, readingRepo, _, _ := newTestUsecase(t)
	user := testUser("UTC")
	seedReadings(t, readingRepo, crypto.HashUserID("someone-else"))

	resp, err := uc.SearchReadings(context.Background(), user.ID, "career", 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

type fakeVectorSearch struct {
	ids     []string
	scores  []float64
	err     error
	deleted []string
}

func (f *fakeVectorSearch) UpsertReadingEmbedding(ctx context.Context, readingID, userIDHash, kind, text string) error {
	return nil
}

func (f *fakeVectorSearch) SemanticSearch(ctx context.Context, userIDHash, query string, limit int) ([]string, []float64, error) {
	return f.ids, f.scores, f.err
}

func (f *fakeVectorSearch) DeleteReadingEmbedding(ctx context.Context, readingID string) error {
	f.deleted = append(f.deleted, readingID)
	return f.err
}

func TestSearchReadings_SemanticWhenConfigured(t *testing.T) {
	uc, readingRepo, _, _ := newTestUsecase(t)
	user := testUser("UTC")
	hash := crypto.HashUserID(user.ID)
	seedReadings(t, readingRepo, hash)

	uc.SetVectorSearchService(&fakeVectorSearch{
		ids:    []string{readingRepo.readings[1].ID},
		scores: []float64{0.92},
	})

	resp, err := uc.SearchReadings(context.Background(), user.ID, "matters of the heart", 10)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, readingRepo.readings[1].ID, resp.Results[0].Reading.ID)
	assert.InDelta(t, 0.92, resp.Results[0].Score, 1e-9)
}

func TestSearchReadings_SemanticFailureFallsBackToFuzzy(t *testing.T) {
	uc, readingRepo, _, _ := newTestUsecase(t)
	user := testUser("UTC")
	seedReadings(t, readingRepo, crypto.HashUserID(user.ID))

	uc.SetVectorSearchService(&fakeVectorSearch{err: errors.New("chroma unreachable")})

	resp, err := uc.SearchReadings(context.Background(), user.ID, "career", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Results)
}

func TestPurgeUserData_RemovesReadingsMessagesAndEmbeddings(t *testing.T) {
	uc, readingRepo, _, _ := newTestUsecase(t)
	messageRepo := uc.messageRepo.(*fakeMessageRepo)
	vectors := &fakeVectorSearch{}
	uc.SetVectorSearchService(vectors)

	user := testUser("UTC")
	hash := crypto.HashUserID(user.ID)
	seedReadings(t, readingRepo, hash)
	seedReadings(t, readingRepo, crypto.HashUserID("someone-else"))
	require.NoError(t, messageRepo.Insert(&oracledomain.Message{
		UserIDHash: hash,
		Role:       oracledomain.RoleUser,
		Content:    "goodbye",
	}))

	require.NoError(t, uc.PurgeUserData(context.Background(), user.ID))

	remaining, err := readingRepo.ListByUser(hash, 50)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, 3, readingRepo.count(), "other users' readings survive")

	messages, err := messageRepo.ListRecent(hash, 50)
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.Len(t, vectors.deleted, 3, "one embedding delete per purged reading")
}

func TestHistory_ReturnsReadingsAndMessages(t *testing.T) {
	uc, readingRepo, _, _ := newTestUsecase(t)
	messageRepo := uc.messageRepo.(*fakeMessageRepo)
	user := testUser("UTC")
	hash := crypto.HashUserID(user.ID)
	seedReadings(t, readingRepo, hash)
	require.NoError(t, messageRepo.Insert(&oracledomain.Message{
		UserIDHash: hash,
		Role:       oracledomain.RoleUser,
		Content:    "what about my love life?",
	}))

	resp, err := uc.History(user.ID, 50, "")
	require.NoError(t, err)
	assert.Len(t, resp.Readings, 3)
	assert.Len(t, resp.Messages, 1)
}

func TestHistory_QueryFilters(t *testing.T) {
	uc, readingRepo, _, _ := newTestUsecase(t)
	user := testUser("UTC")
	seedReadings(t, readingRepo, crypto.HashUserID(user.ID))

	resp, err := uc.History(user.ID, 50, "retrograde")
	require.NoError(t, err)
	require.Len(t, resp.Readings, 1)
	assert.Contains(t, resp.Readings[0].Content.Full, "Mercury retrograde")
}
