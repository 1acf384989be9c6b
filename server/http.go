package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"autopost/config"
	"autopost/constant"
	"autopost/handler"
	"autopost/pkg/caption"
	"autopost/pkg/media"
	"autopost/pkg/rabbitmq"
	"autopost/pkg/stt"
	"autopost/pkg/youtube"
	"autopost/repository"
	"autopost/service"
)

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	records, err := newRecordStore(cfg)
	if err != nil {
		zerolog.Ctx(ctx).Fatal().Err(err).Msg("failed to open record store")
	}

	var events service.EventPublisher
	if cfg.Queue != nil {
		conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn")
		} else {
			events = rabbitmq.NewPublisher(conn, cfg.Queue)
		}
	}

	providers := []stt.Provider{
		stt.NewWhisperProvider(cfg.Whisper.Binary, cfg.Whisper.Model, cfg.Whisper.Language),
		stt.NewCloudProvider(cfg.CloudSTT.APIKey, cfg.CloudSTT.URL),
		stt.NewDegradedProvider(media.Duration),
	}

	transcriptionService := service.NewTranscriptionService(providers, cfg.Media.TempDir, cfg.Media.MaxSizeBytes)
	clipService := service.NewClipService(cfg.Storage, cfg.MinIOBucket, cfg.Media.ClipDir, cfg.Media.TempDir)
	uploadService := service.NewUploadService(service.UploadServiceParams{
		Platform:       youtube.New(cfg.YouTube.ClientSecrets, cfg.YouTube.AuthTimeout),
		Records:        records,
		Events:         events,
		Storage:        cfg.Storage,
		Bucket:         cfg.MinIOBucket,
		ClipDir:        cfg.Media.ClipDir,
		TempRoot:       cfg.Media.TempDir,
		DefaultPrivacy: constant.Privacy(cfg.YouTube.DefaultPrivacy),
		MaxTags:        cfg.Caption.MaxTags,
	})

	var captionGenerator caption.Generator
	if cfg.Caption.APIKey != "" {
		captionGenerator = caption.NewOpenAIGenerator(cfg.Caption.APIKey, cfg.Caption.Model)
	}

	h := handler.New(handler.ServiceDependencies{
		TranscriptionService: transcriptionService,
		UploadService:        uploadService,
		ClipService:          clipService,
		CaptionGenerator:     captionGenerator,
		Records:              records,
		MaxTags:              cfg.Caption.MaxTags,
	})

	r := gin.Default()
	r.Use(requestLogger(ctx))
	addHealth(r)
	addRoutes(r, h)

	srv := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("start http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	if err := drainAndShutdown(&srv); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

const shutdownGrace = 15 * time.Second

// drainAndShutdown shuts the server down on its own deadline. The signal
// context is already canceled by the time we get here, so passing it to
// Shutdown would abort in-flight requests instead of draining them.
func drainAndShutdown(srv *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func addRoutes(r *gin.Engine, h *handler.Handler) {
	api := r.Group("/api")
	api.POST("/transcribe", h.Transcribe)
	api.POST("/clip", h.CreateClip)
	api.POST("/upload", h.Upload)
	api.POST("/caption", h.GenerateCaption)
	api.GET("/records", h.ListRecords)
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
}

// requestLogger carries the process logger into each request context so the
// service layer can use zerolog.Ctx.
func requestLogger(ctx context.Context) gin.HandlerFunc {
	logger := zerolog.Ctx(ctx)
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}

func newRecordStore(cfg *config.Config) (repository.RecordStore, error) {
	if cfg.DB != nil {
		return repository.NewRepo(cfg.DB)
	}
	return repository.NewJSONStore(cfg.Media.RecordsPath), nil
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
