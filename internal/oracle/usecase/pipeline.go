package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"
	oracledto "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/dto"
	profiledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/domain"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/astro"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/localdate"
)

// ErrChartRequired is returned when a content kind needs the birth chart
// and the user has not completed setup.
var ErrChartRequired = errors.New("please complete your birth chart before requesting a reading")

// ChartPolicy decides what a content kind does when the user has no birth
// chart on record.
type ChartPolicy int

const (
	// ChartRequired surfaces a user-facing setup error (horoscope)
	ChartRequired ChartPolicy = iota
	// ChartOptionalSkip silently generates nothing (moon phase, cosmic weather)
	ChartOptionalSkip
	// ChartNotNeeded generates from the sky alone (void of course)
	ChartNotNeeded
)

// generator is the per-kind strategy plugged into the shared pipeline.
// Every content kind supplies its variant, chart policy and prompt; the
// pipeline owns the regeneration rule, stamping, persistence and the
// best-effort notify/index fanout.
type generator interface {
	// Variant yields the tagged-union variant for this generation; the
	// sub-key may depend on the sky (moon phase name).
	Variant(sky astro.Snapshot) oracledomain.Variant
	ChartPolicy() ChartPolicy
	BuildPrompt(user *authdomain.User, chart *profiledomain.BirthChart, sky astro.Snapshot) (system, prompt string)
}

const generationTimeout = 60 * time.Second

// generate runs the shared content pipeline for one kind.
func (u *oracleUsecase) generate(ctx context.Context, user *authdomain.User, gen generator) (*oracledto.ContentResponse, error) {
	if u.oracle == nil {
		return nil, errors.New("oracle service is not configured")
	}

	// Resolve the user's local date and timestamp up front; the persisted
	// stamp is this moment, not when generation finishes.
	localDate, localTimestamp := localdate.Resolve(user.Timezone)

	sky := astro.ComputeSnapshot(time.Now())
	variant := gen.Variant(sky)
	key := oracledomain.RecordKey{Kind: variant.Kind(), SubKey: variant.SubKey()}
	hash := crypto.HashUserID(user.ID)

	unlock := u.locks.lock(hash + "|" + string(key.Kind) + "|" + key.SubKey)
	defer unlock()

	last, err := u.readingRepo.LatestByKey(hash, key)
	if err != nil {
		return nil, err
	}

	if last != nil {
		// Trial horoscopes are generated exactly once, ever
		if key.Kind == oracledomain.KindHoroscope && user.IsTemporary {
			return readingResponse(last, false), nil
		}
		if !localdate.NeedsRegeneration(last.Stamp.LocalDate, localDate) {
			return readingResponse(last, false), nil
		}
	}

	chart, err := u.chartRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		switch gen.ChartPolicy() {
		case ChartRequired:
			return nil, ErrChartRequired
		case ChartOptionalSkip:
			return &oracledto.ContentResponse{
				Success:      true,
				Role:         oracledomain.RoleOracle,
				ResponseType: string(key.Kind),
				Generated:    false,
			}, nil
		}
	}

	system, prompt := gen.BuildPrompt(user, chart, sky)

	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	resp, err := u.oracle.GenerateReading(genCtx, system, nil, prompt)
	if err != nil {
		log.Printf("[Oracle] Generation failed for kind %s: %v", key.Kind, err)
		return nil, fmt.Errorf("the oracle could not complete your reading: %w", err)
	}

	reading := &oracledomain.Reading{
		UserIDHash: hash,
		Variant:    variant,
		Content:    oracledomain.Content{Full: resp.Full, Brief: resp.Brief},
		Stamp: oracledomain.Stamp{
			LocalDate:      localDate,
			LocalTimestamp: localTimestamp,
		},
	}
	if err := u.readingRepo.Insert(reading); err != nil {
		log.Printf("[Oracle] Failed to persist %s reading: %v", key.Kind, err)
		return nil, err
	}

	// Best-effort fanout; neither failure rolls back the reading
	u.afterGenerate(user.ID, reading)

	return readingResponse(reading, true), nil
}

// afterGenerate publishes the content-ready notification and indexes the
// reading for semantic search, off the request path.
func (u *oracleUsecase) afterGenerate(userID string, reading *oracledomain.Reading) {
	if u.notifier != nil {
		go func() {
			if err := u.notifier.NotifyContentReady(userID, reading); err != nil {
				log.Printf("[Oracle] Content-ready notification failed: %v", err)
			}
		}()
	}

	if u.vectorSearch != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := u.vectorSearch.UpsertReadingEmbedding(ctx, reading.ID, reading.UserIDHash, string(reading.Variant.Kind()), reading.Content.Full); err != nil {
				log.Printf("[Oracle] Failed to index reading %s: %v", reading.ID, err)
			}
		}()
	}
}

func readingResponse(reading *oracledomain.Reading, generated bool) *oracledto.ContentResponse {
	return &oracledto.ContentResponse{
		Success:      true,
		Role:         oracledomain.RoleOracle,
		Content:      reading.Content.Full,
		ContentBrief: reading.Content.Brief,
		ResponseType: string(reading.Variant.Kind()),
		CreatedAt:    reading.Stamp.LocalTimestamp,
		Generated:    generated,
	}
}
