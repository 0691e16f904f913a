package api

import (
	"log"

	authUsecase "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/usecase"
	oracleUsecasePkg "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/usecase"
	profileUsecasePkg "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/usecase"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/ai"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/chroma"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/config"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/gemini"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	profileUsecase profileUsecasePkg.ProfileUsecase
	oracleUsecase  oracleUsecasePkg.OracleUsecase
	sseManager     *sse.Manager
	config         *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, profileUc profileUsecasePkg.ProfileUsecase, oracleUc oracleUsecasePkg.OracleUsecase, sseManager *sse.Manager, cfg *config.Config) *Handler {
	// Initialize runtime config for settings API
	InitRuntimeConfig(cfg.OllamaBaseURL, cfg.OllamaModel)

	// Initialize AI service with dynamic config getters for runtime updates
	aiCfg := ai.DynamicConfig{
		Provider:         ai.ProviderType(cfg.AIProvider),
		GetOllamaBaseURL: GetRuntimeOllamaBaseURL,
		GetOllamaModel:   GetRuntimeOllamaModel,
	}
	if cfg.GeminiApiKey != "" {
		aiCfg.Gemini = gemini.NewGeminiService(cfg.GeminiApiKey)
	}
	aiService, err := ai.NewOracleServiceWithDynamicConfig(aiCfg)
	if err != nil {
		log.Printf("Warning: Failed to initialize AI service: %v", err)
	} else {
		log.Printf("AI service initialized with provider: %s (dynamic config enabled)", cfg.AIProvider)
		oracleUc.SetOracleService(aiService)
	}

	// Initialize Chroma client for semantic reading search
	if cfg.ChromaAPIKey != "" {
		chromaClient, err := chroma.NewChromaClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Chroma client: %v. Semantic search will not be available.", err)
		} else {
			oracleUc.SetVectorSearchService(chromaClient)
			log.Println("Chroma client initialized successfully")
		}
	} else {
		log.Println("Warning: CHROMA_API_KEY not set. Semantic search will not be available.")
	}

	return &Handler{
		authUsecase:    authUc,
		profileUsecase: profileUc,
		oracleUsecase:  oracleUc,
		sseManager:     sseManager,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.profileUsecase, h.oracleUsecase, h.sseManager)

	return r.Run(addr)
}
