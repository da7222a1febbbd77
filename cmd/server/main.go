package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"securesphere/internal/cache"
	"securesphere/internal/catalog"
	"securesphere/internal/config"
	"securesphere/internal/notify"
	"securesphere/internal/repository"
	"securesphere/internal/service"
	"securesphere/internal/storage"
	"securesphere/internal/transport/rest"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("mongodb connect failed", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Error("mongodb ping failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to mongodb", "db", cfg.MongoDB)

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Error("redis ping failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to redis", "addr", cfg.RedisAddr)

	// Question catalog: falls back to the built-in rubric when the CSV is
	// missing or malformed.
	cat := catalog.Load(cfg.CatalogPath, log)
	log.Info("catalog loaded", "sections", len(cat.OrderedSections()), "questions", cat.TotalQuestions())

	// Evidence file store
	files, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Error("upload dir init failed", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	statusRepo := repository.NewStatusRepo(db)
	scoreRepo := repository.NewScoreRepo(db)
	inviteRepo := repository.NewInvitationRepo(db)
	txn := repository.NewTxnRunner(mongoClient)

	// Initialize caches
	statusCache := cache.NewStatusCache(rdb)
	unreadCache := cache.NewUnreadCache(rdb)
	rankingCache := cache.NewRankingCache(rdb)

	// Initialize services
	mailer := notify.NewMailer(cfg.SMTPURL, log)
	authSvc := service.NewAuthService(userRepo, inviteRepo, cfg.JWTSecret, log)
	inviteSvc := service.NewInviteService(inviteRepo, userRepo, mailer, cfg.ExternalBase, log)
	statusSvc := service.NewStatusService(responseRepo, commentRepo, statusRepo, statusCache, cat, log)
	scoringSvc := service.NewScoringService(responseRepo, scoreRepo, productRepo, rankingCache, cat, log)
	responseSvc := service.NewResponseService(responseRepo, commentRepo, productRepo, txn, files, scoringSvc, statusSvc, cat, log)
	reviewSvc := service.NewReviewService(commentRepo, responseRepo, txn, files, unreadCache, scoringSvc, statusSvc, log)
	productSvc := service.NewProductService(productRepo, responseRepo, commentRepo, scoreRepo, statusRepo, userRepo, statusCache, rankingCache, txn, log)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		ProductService:  productSvc,
		ResponseService: responseSvc,
		ScoringService:  scoringSvc,
		StatusService:   statusSvc,
		ReviewService:   reviewSvc,
		InviteService:   inviteSvc,
		UserRepo:        userRepo,
		Files:           files,
		Catalog:         cat,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen and serve failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}
