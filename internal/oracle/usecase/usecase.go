package usecase

import (
	"context"
	"sync"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	oracledto "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/repository"
	profilerepo "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/repository"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/ai"
)

// OracleUsecase defines the content-generation operations exposed to HTTP
type OracleUsecase interface {
	Chat(ctx context.Context, user *authdomain.User, message string) (*oracledto.ContentResponse, error)
	GenerateHoroscope(ctx context.Context, user *authdomain.User, rng oracledomain.HoroscopeRange) (*oracledto.ContentResponse, error)
	GenerateMoonPhase(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error)
	GenerateCosmicWeather(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error)
	GenerateVoidOfCourse(ctx context.Context, user *authdomain.User) (*oracledto.ContentResponse, error)
	History(userID string, limit int, query string) (*oracledto.HistoryResponse, error)
	SearchReadings(ctx context.Context, userID, query string, limit int) (*oracledto.SearchResponse, error)
	PurgeUserData(ctx context.Context, userID string) error

	SetOracleService(svc ai.OracleService)
	SetNotifier(n Notifier)
	SetVectorSearchService(svc VectorSearchService)
}

// Notifier publishes "content ready" events. Best-effort: failures are
// logged by the caller and never fail generation.
type Notifier interface {
	NotifyContentReady(userID string, reading *oracledomain.Reading) error
}

// VectorSearchService indexes readings for semantic history search.
type VectorSearchService interface {
	UpsertReadingEmbedding(ctx context.Context, readingID, userIDHash, kind, text string) error
	SemanticSearch(ctx context.Context, userIDHash, query string, limit int) ([]string, []float64, error)
	DeleteReadingEmbedding(ctx context.Context, readingID string) error
}

// oracleUsecase implements OracleUsecase interface
type oracleUsecase struct {
	readingRepo repository.ReadingRepository
	messageRepo repository.MessageRepository
	chartRepo   profilerepo.BirthChartRepository

	oracle       ai.OracleService
	notifier     Notifier
	vectorSearch VectorSearchService

	locks keyedMutex
}

// NewOracleUsecase creates a new instance of oracleUsecase
func NewOracleUsecase(readingRepo repository.ReadingRepository, messageRepo repository.MessageRepository, chartRepo profilerepo.BirthChartRepository) OracleUsecase {
	return &oracleUsecase{
		readingRepo: readingRepo,
		messageRepo: messageRepo,
		chartRepo:   chartRepo,
	}
}

func (u *oracleUsecase) SetOracleService(svc ai.OracleService) {
	u.oracle = svc
}

func (u *oracleUsecase) SetNotifier(n Notifier) {
	u.notifier = n
}

func (u *oracleUsecase) SetVectorSearchService(svc VectorSearchService) {
	u.vectorSearch = svc
}

// keyedMutex serializes concurrent check-then-generate sequences for the
// same (user, kind, subKey) within this process, so two simultaneous
// requests cannot both observe "stale" and both generate. Cross-node
// duplicates remain possible and are accepted. Entries are reference
// counted and removed when the last holder releases, so the map stays
// bounded by the number of in-flight generations.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
