package api

import (
	"net/http"

	"github.com/wsabol/psychic-chat-poc-sub000/internal/auth/delivery"
	authUsecase "github.com/wsabol/psychic-chat-poc-sub000/internal/auth/usecase"
	oracleDelivery "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/delivery"
	oracleUsecase "github.com/wsabol/psychic-chat-poc-sub000/internal/oracle/usecase"
	profileDelivery "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/delivery"
	profileUsecase "github.com/wsabol/psychic-chat-poc-sub000/internal/profile/usecase"
	"github.com/wsabol/psychic-chat-poc-sub000/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, profileUc profileUsecase.ProfileUsecase, oracleUc oracleUsecase.OracleUsecase, sseManager *sse.Manager) {
	authHandler := delivery.NewAuthHandler(authUc)
	profileHandler := profileDelivery.NewProfileHandler(profileUc)
	oracleHandler := oracleDelivery.NewOracleHandler(oracleUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// SSE endpoint
		api.GET("/events", delivery.AuthMiddleware(authUc), func(c *gin.Context) {
			userID := c.GetString("userID")
			sseManager.ServeHTTP(c, userID)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/trial", authHandler.Trial)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/verify-2fa", authHandler.VerifyTwoFactor)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
			auth.DELETE("/me", delivery.AuthMiddleware(authUc), authHandler.DeleteMe)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(delivery.AuthMiddleware(authUc))
		{
			fcm.POST("/register", authHandler.RegisterDeviceToken)
			fcm.DELETE("/:token", authHandler.UnregisterDeviceToken)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(delivery.AuthMiddleware(authUc))
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.GET("/birth-chart", profileHandler.GetBirthChart)
			profile.PUT("/birth-chart", profileHandler.SetBirthChart)
		}

		// Oracle routes (protected)
		oracle := api.Group("/oracle")
		oracle.Use(delivery.AuthMiddleware(authUc))
		{
			oracle.POST("/chat", oracleHandler.Chat)
			oracle.POST("/horoscope", oracleHandler.Horoscope)
			oracle.POST("/moon-phase", oracleHandler.MoonPhase)
			oracle.POST("/cosmic-weather", oracleHandler.CosmicWeather)
			oracle.POST("/void-of-course", oracleHandler.VoidOfCourse)
			oracle.GET("/history", oracleHandler.History)
			oracle.GET("/search", oracleHandler.Search)
		}

		// Settings routes (public) - Runtime configuration
		settings := api.Group("/settings")
		{
			settings.GET("/ollama", GetOllamaSettings)
			settings.PUT("/ollama", UpdateOllamaSettings)
			settings.POST("/ollama/test", TestOllamaConnection)
		}
	}
}
