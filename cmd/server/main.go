package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/config"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/db"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/events"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/goroutine"
	httpHandlers "github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/handlers"
	httpRouter "github.com/kaitohotmart-afk/Djobfacil-sub000/internal/http/router"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/logger"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/repository"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/service"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/storage"
	"github.com/kaitohotmart-afk/Djobfacil-sub000/internal/ws"
)

func main() {
	// Contexto para graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: erro ao carregar configuração: %v", err)
	}

	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Banco e migrações.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: erro ao conectar no banco: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: erro nas migrações: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL)

	fileStorage, err := storage.NewFileStorage(cfg.MediaStoragePath, cfg.MaxPhotoMB, cfg.MaxChatAttachMB)
	if err != nil {
		log.Fatalf("main: erro ao preparar o armazenamento de arquivos: %v", err)
	}

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger.Log)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Log.WithError(err).Warn("main: erro ao fechar o publisher")
		}
	}()

	// Repositórios.
	userRepo := repository.NewUserRepository(dbConn)
	listingRepo := repository.NewListingRepository(dbConn)
	conversationRepo := repository.NewConversationRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Presença e hub WebSocket.
	presence := ws.NewPresenceRegistry(cfg.PresenceTTL)
	hub := ws.NewHub(ctx, presence, logger.Log)
	goroutine.SafeGo(hub.Run)
	goroutine.SafeGoWithContext(ctx, presence.Run)

	// Serviços.
	authService := service.NewAuthService(userRepo, tokenManager, cfg.RefreshTokenTTL, logger.Log)
	notificationService := service.NewNotificationService(notificationRepo, hub, logger.Log)
	profileService := service.NewProfileService(userRepo, reviewRepo)
	listingService := service.NewListingService(listingRepo)
	conversationService := service.NewConversationService(conversationRepo, listingRepo, fileStorage, hub, publisher, notificationService, logger.Log)
	proposalService := service.NewProposalService(proposalRepo, conversationRepo, hub, publisher, notificationService, logger.Log)
	moderationService := service.NewModerationService(conversationRepo, userRepo, hub, publisher, logger.Log)
	reviewService := service.NewReviewService(reviewRepo, userRepo, notificationService)
	reportService := service.NewReportService(reportRepo, publisher)
	mediaService := service.NewMediaService(mediaRepo, fileStorage)

	// O hub consulta o serviço de conversas para autorizar assinaturas.
	hub.SetAuthorizer(conversationService)

	// Handlers HTTP.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	listingHandler := httpHandlers.NewListingHandler(listingService)
	conversationHandler := httpHandlers.NewConversationHandler(conversationService)
	proposalHandler := httpHandlers.NewProposalHandler(proposalService)
	moderationHandler := httpHandlers.NewModerationHandler(moderationService, reportService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	reportHandler := httpHandlers.NewReportHandler(reportService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaService, cfg.MediaStoragePath)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		listingHandler,
		conversationHandler,
		proposalHandler,
		moderationHandler,
		reviewHandler,
		reportHandler,
		mediaHandler,
		notificationHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Encerra o servidor ao receber o sinal.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: erro ao parar o servidor http: %v", err)
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).Info("main: servidor iniciado")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: erro no servidor http: %v", err)
	}
	logger.Log.Info("main: servidor encerrado")
}

func safeClose(dbConn *sqlx.DB) {
	if err := dbConn.Close(); err != nil {
		log.Printf("main: erro ao fechar conexão com o banco: %v", err)
	}
}
