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
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/ai"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/astro"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/localdate"
)

// chatHistoryLimit is how many prior turns feed the model.
const chatHistoryLimit = 20

// Chat handles one conversational turn. Chat messages are exempt from the
// daily-regeneration policy: every request produces a fresh reply.
func (u *oracleUsecase) Chat(ctx context.Context, user *authdomain.User, message string) (*oracledto.ContentResponse, error) {
	if u.oracle == nil {
		return nil, errors.New("oracle service is not configured")
	}

	localDate, localTimestamp := localdate.Resolve(user.Timezone)
	hash := crypto.HashUserID(user.ID)

	history, err := u.messageRepo.ListRecent(hash, chatHistoryLimit)
	if err != nil {
		log.Printf("[Oracle] Failed to load chat history: %v", err)
		history = nil
	}

	if err := u.messageRepo.Insert(&oracledomain.Message{
		UserIDHash: hash,
		Role:       oracledomain.RoleUser,
		Content:    message,
		Stamp:      oracledomain.Stamp{LocalDate: localDate, LocalTimestamp: localTimestamp},
	}); err != nil {
		return nil, err
	}

	turns := make([]ai.Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, ai.Turn{Role: msg.Role, Content: msg.Content})
	}

	system := u.chatSystemPrompt(user)

	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	resp, err := u.oracle.GenerateReading(genCtx, system, turns, message)
	if err != nil {
		log.Printf("[Oracle] Chat generation failed: %v", err)
		return nil, fmt.Errorf("the oracle could not answer right now: %w", err)
	}

	// Reply timestamps are resolved again so long generations do not
	// backdate the oracle's turn
	replyDate, replyTimestamp := localdate.Resolve(user.Timezone)
	if err := u.messageRepo.Insert(&oracledomain.Message{
		UserIDHash:   hash,
		Role:         oracledomain.RoleOracle,
		Content:      resp.Full,
		ContentBrief: resp.Brief,
		Stamp:        oracledomain.Stamp{LocalDate: replyDate, LocalTimestamp: replyTimestamp},
	}); err != nil {
		log.Printf("[Oracle] Failed to persist oracle reply: %v", err)
	}

	return &oracledto.ContentResponse{
		Success:      true,
		Role:         oracledomain.RoleOracle,
		Content:      resp.Full,
		ContentBrief: resp.Brief,
		ResponseType: "chat",
		CreatedAt:    replyTimestamp,
		Generated:    true,
	}, nil
}

// chatSystemPrompt grounds the conversation in the user's chart and the
// live sky, when available.
func (u *oracleUsecase) chatSystemPrompt(user *authdomain.User) string {
	system := oraclePersona

	chart, err := u.chartRepo.GetByUserID(user.ID)
	if err != nil {
		log.Printf("[Oracle] Failed to load chart for chat: %v", err)
		chart = nil
	}
	if chart != nil {
		system += fmt.Sprintf("\n\nThe seeker's birth chart: Sun in %s, Moon in %s", chart.SunSign, chart.MoonSign)
		if chart.RisingSign != "" {
			system += fmt.Sprintf(", %s rising", chart.RisingSign)
		}
		system += "."
	}
	system += "\n\nCurrent sky: " + astro.ComputeSnapshot(time.Now()).Describe()
	return system
}
