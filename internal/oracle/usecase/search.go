package usecase

import (
	"context"
	"log"
	"sort"

	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	oracledto "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/dto"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/fuzzy"
)

const defaultHistoryLimit = 50

// PurgeUserData deletes the user's readings, chat history and search
// embeddings. Called from the account-deletion cleanup chain.
func (u *oracleUsecase) PurgeUserData(ctx context.Context, userID string) error {
	hash := crypto.HashUserID(userID)

	ids, err := u.readingRepo.DeleteByUser(hash)
	if err != nil {
		return err
	}
	if err := u.messageRepo.DeleteByUser(hash); err != nil {
		return err
	}

	// Embedding deletion is best-effort: the rows are already gone and a
	// leftover vector can never surface without its reading
	if u.vectorSearch != nil {
		for _, id := range ids {
			if err := u.vectorSearch.DeleteReadingEmbedding(ctx, id); err != nil {
				log.Printf("[Oracle] Failed to delete embedding for reading %s: %v", id, err)
			}
		}
	}
	return nil
}

// History returns the user's recent readings and chat messages, optionally
// filtered by a fuzzy text query.
func (u *oracleUsecase) History(userID string, limit int, query string) (*oracledto.HistoryResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}
	hash := crypto.HashUserID(userID)

	readings, err := u.readingRepo.ListByUser(hash, limit)
	if err != nil {
		return nil, err
	}
	messages, err := u.messageRepo.ListRecent(hash, limit)
	if err != nil {
		return nil, err
	}

	if query != "" {
		filtered := make([]*oracledomain.Reading, 0, len(readings))
		for _, r := range readings {
			if fuzzy.FuzzyMatchReading(query, string(r.Variant.Kind()), r.Content.Brief, r.Content.Full) {
				filtered = append(filtered, r)
			}
		}
		readings = filtered

		kept := make([]*oracledomain.Message, 0, len(messages))
		for _, m := range messages {
			if fuzzy.FuzzyMatch(query, m.Content, 2) {
				kept = append(kept, m)
			}
		}
		messages = kept
	}

	return &oracledto.HistoryResponse{
		Readings: readings,
		Messages: messages,
	}, nil
}

// SearchReadings searches the user's reading history. Semantic search via
// the vector store when configured; otherwise a fuzzy scan over recent
// readings.
func (u *oracleUsecase) SearchReadings(ctx context.Context, userID, query string, limit int) (*oracledto.SearchResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	hash := crypto.HashUserID(userID)

	if u.vectorSearch != nil {
		results, err := u.semanticSearch(ctx, hash, query, limit)
		if err == nil {
			return results, nil
		}
		log.Printf("[Oracle] Semantic search failed, falling back to fuzzy: %v", err)
	}
	return u.fuzzySearch(hash, query, limit)
}

func (u *oracleUsecase) semanticSearch(ctx context.Context, userIDHash, query string, limit int) (*oracledto.SearchResponse, error) {
	ids, scores, err := u.vectorSearch.SemanticSearch(ctx, userIDHash, query, limit)
	if err != nil {
		return nil, err
	}

	readings, err := u.readingRepo.GetByIDs(userIDHash, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*oracledomain.Reading, len(readings))
	for _, r := range readings {
		byID[r.ID] = r
	}

	results := make([]oracledto.SearchResult, 0, len(ids))
	for i, id := range ids {
		r, ok := byID[id]
		if !ok {
			// embedding outlived its reading row; skip
			continue
		}
		score := 0.0
		if i < len(scores) {
			score = scores[i]
		}
		results = append(results, oracledto.SearchResult{Reading: r, Score: score})
	}
	return &oracledto.SearchResponse{Results: results}, nil
}

func (u *oracleUsecase) fuzzySearch(userIDHash, query string, limit int) (*oracledto.SearchResponse, error) {
	readings, err := u.readingRepo.ListByUser(userIDHash, 200)
	if err != nil {
		return nil, err
	}

	results := make([]oracledto.SearchResult, 0, limit)
	for _, r := range readings {
		score := fuzzy.CalculateRelevanceScore(query, string(r.Variant.Kind()), r.Content.Brief, r.Content.Full)
		if score > 0 {
			results = append(results, oracledto.SearchResult{Reading: r, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return &oracledto.SearchResponse{Results: results}, nil
}
