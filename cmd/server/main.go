package main

import (
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/config"
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/database"
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/handlers"
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/middleware"
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/models"
	"github.com/ebosebastien68-maker/backhend-harmonia/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	catalogService := services.NewCatalogService(db)
	runService := services.NewRunService(db)
	answerService := services.NewAnswerService(db)
	resultsService := services.NewResultsService(db)

	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler(catalogService)
	runHandler := handlers.NewRunHandler(runService)
	playHandler := handlers.NewPlayHandler(runService, answerService, resultsService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "Harmonia API"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		api.GET("/sessions", sessionHandler.ListSessions)

		player := api.Group("")
		player.Use(middleware.JWTAuth(authService))
		{
			player.GET("/sessions/available", sessionHandler.ListAvailableSessions)
			player.GET("/sessions/mine", sessionHandler.ListMySessions)
			player.GET("/sessions/:id/parties", sessionHandler.ListParties)
			player.POST("/sessions/join", sessionHandler.JoinSession)

			player.GET("/parties/:id/runs", playHandler.ListVisibleRuns)
			player.GET("/parties/:id/questions", playHandler.GetUnansweredQuestions)
			player.GET("/parties/:id/my-answers", playHandler.GetMyAnswers)
			player.GET("/parties/:id/my-results", playHandler.GetMyResults)
			player.GET("/parties/:id/history", playHandler.GetPartyHistory)

			player.GET("/runs/:id/questions", playHandler.GetRunQuestions)
			player.GET("/runs/:id/leaderboard", playHandler.GetLeaderboard)
			player.POST("/answers", playHandler.SubmitAnswer)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(authService))
		admin.Use(middleware.RequireRoles(models.AdminRoles...))
		{
			admin.POST("/sessions", sessionHandler.CreateSession)
			admin.DELETE("/sessions/:id", sessionHandler.DeleteSession)
			admin.POST("/sessions/:id/parties", sessionHandler.CreateParty)
			admin.DELETE("/parties/:id", sessionHandler.DeleteParty)
			admin.GET("/parties/:id/players", sessionHandler.GetPartyPlayers)

			admin.POST("/parties/:id/runs", runHandler.CreateRun)
			admin.GET("/parties/:id/runs", runHandler.ListRuns)
			admin.DELETE("/runs/:id", runHandler.DeleteRun)
			admin.POST("/runs/:id/questions", runHandler.AddQuestions)
			admin.GET("/runs/:id/questions", runHandler.ListRunQuestions)
			admin.POST("/runs/:id/started", runHandler.SetStarted)
			admin.POST("/runs/:id/visibility", runHandler.SetVisibility)
			admin.POST("/runs/:id/close", runHandler.CloseRun)
			admin.GET("/runs/:id/statistics", runHandler.GetStatistics)
			admin.DELETE("/questions/:id", runHandler.DeleteQuestion)
		}
	}

	log.Infof("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
