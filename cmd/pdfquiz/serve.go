package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pdfquiz/internal/api"
	"pdfquiz/internal/api/handlers"
	"pdfquiz/internal/db"
	"pdfquiz/internal/document"
	"pdfquiz/internal/llm"
	"pdfquiz/internal/quiz"
	"pdfquiz/internal/quizgen"
	"pdfquiz/internal/r2"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Generation events are only recorded when a database is configured.
	var sink llm.EventSink
	if cfg.DatabaseURL != "" {
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = database
	}

	var generator quizgen.Generator
	client, err := newLocalGenerator(ctx, sink)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logrus.Warn("No LLM provider configured; generation requests will fail")
	case err != nil:
		return err
	default:
		generator = client
	}

	var opts []quiz.Option
	if cfg.Quiz.StrictSubmit {
		opts = append(opts, quiz.WithStrictSubmit())
	}
	handler := handlers.NewHandler(generator, quiz.NewSession(opts...), document.NewPDFExtractor())
	handler.MaxUploadBytes = cfg.Server.MaxUploadBytes

	store, err := r2.NewClient(ctx, cfg.R2)
	if err != nil {
		return err
	}
	if store != nil {
		handler.Store = store
		logrus.Infof("Storing uploaded documents in bucket %s", cfg.R2.BucketName)
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(handler, cfg.Server.FrontendURL)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logrus.Infof("Server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Give server 5 seconds to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logrus.Info("Server exited properly")
	return nil
}
