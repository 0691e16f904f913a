package main

import (
	"context"
	"log"
	"strings"

	api "github.com/wsabol/psychic-chat-poc-sub000/cmd/api"
	authdomain "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/domain"
	authRepo "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/repository"
	authUsecase "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/usecase"
	"github.com/wsabol/psychic-chat-poc-sub000/internal/notification"
	oracleRepo "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/repository"
	oracleUsecase "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/usecase"
	profiledomain "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/domain"
	profileRepo "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/repository"
	profileUsecase "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/usecase"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/config"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/crypto"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/database"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/fcm"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.TwoFactorCode{}, &authdomain.DeviceToken{}, &profiledomain.BirthChart{}, &oracleRepo.ReadingRecord{}, &oracleRepo.MessageRecord{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Column-level cipher for birth data and generated content
	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize encryption:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	deviceTokenRepo := authRepo.NewDeviceTokenRepository(db)
	twoFactorRepo := authRepo.NewTwoFactorRepository(db)
	chartRepo := profileRepo.NewBirthChartRepository(db, cipher)
	readingRepo := oracleRepo.NewReadingRepository(db, cipher)
	messageRepo := oracleRepo.NewMessageRepository(db, cipher)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, deviceTokenRepo, twoFactorRepo, cfg)
	profileUsecaseInstance := profileUsecase.NewProfileUsecase(userRepo, chartRepo)
	oracleUsecaseInstance := oracleUsecase.NewOracleUsecase(readingRepo, messageRepo, chartRepo)

	// Account deletion purges feature data before the user row goes away
	authUsecaseInstance.AddCleanupHook(func(userID string) error {
		return oracleUsecaseInstance.PurgeUserData(context.Background(), userID)
	})
	authUsecaseInstance.AddCleanupHook(func(userID string) error {
		return profileUsecaseInstance.DeleteBirthChart(userID)
	})

	// Initialize Notification Service (Pub/Sub)
	// Only start if project ID is configured
	if cfg.GoogleProjectID != "" {
		// Extract short topic name from full resource name if necessary
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}
		if topicName == "" {
			topicName = "oracle-content"
		}

		// FCM client is optional; SSE fanout works without it
		var fcmClient *fcm.Client
		if cfg.FirebaseCredentials != "" {
			fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
			if err != nil {
				log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
				fcmClient = nil
			}
		}

		notifService, err := notification.NewService(cfg.GoogleProjectID, topicName, cfg.GoogleCredentials, sseManager, deviceTokenRepo, fcmClient)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize notification service: %v", err)
		} else {
			oracleUsecaseInstance.SetNotifier(notifService)
			go notifService.Start(context.Background())
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, notification service disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, profileUsecaseInstance, oracleUsecaseInstance, sseManager, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
