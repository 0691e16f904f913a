package dto

import oracledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/domain"

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type HoroscopeRequest struct {
	Range string `json:"range" binding:"omitempty,oneof=daily weekly"`
}

// ContentResponse is the shared response shape of the chat and content
// endpoints.
type ContentResponse struct {
	Success      bool   `json:"success"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	ContentBrief string `json:"contentBrief"`
	ResponseType string `json:"responseType"`
	CreatedAt    string `json:"createdAt"`

	// Generated is false when a fresh reading already existed (or the
	// content kind is not applicable yet) and no LLM call was made.
	Generated bool `json:"generated"`
}

type HistoryResponse struct {
	Readings []*oracledomain.Reading `json:"readings"`
	Messages []*oracledomain.Message `json:"messages"`
}

type SearchResult struct {
	Reading *oracledomain.Reading `json:"reading"`
	Score   float64               `json:"score"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
