package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pdfquiz/internal/config"
	"pdfquiz/internal/document"
	"pdfquiz/internal/llm"
	"pdfquiz/internal/logging"
	"pdfquiz/internal/quizgen"
	"pdfquiz/internal/youtube"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pdfquiz",
	Short: "Generate multiple-choice quizzes from PDFs",
	Long:  "pdfquiz turns a PDF or a video transcript into a multiple-choice quiz using a language model, served over HTTP or played in the terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(playCmd)
}

// newLocalGenerator builds a question generator backed by the configured
// provider. It returns llm.ErrNotConfigured when no API key is set.
func newLocalGenerator(ctx context.Context, sink llm.EventSink) (*quizgen.Client, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, sink)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Using %s provider (%s)", cfg.LLM.Provider, provider.ModelID())
	return quizgen.New(provider, cfg.Generation), nil
}

// readSource returns the quiz text from a PDF path or, when videoURL is
// set, from the video's transcript.
func readSource(ctx context.Context, args []string, videoURL string) (string, error) {
	if videoURL != "" {
		return youtube.New().Extract(ctx, videoURL)
	}
	if len(args) == 0 {
		return "", errors.New("a PDF file or --video is required")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !document.IsPDF(path, "", data) {
		return "", fmt.Errorf("%s is not a PDF", path)
	}

	text, err := document.NewPDFExtractor().Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	logrus.Infof("Extracted %d characters from %s", len([]rune(text)), path)
	return text, nil
}

func notConfiguredHint(err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		names := []string{"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY"}
		return fmt.Errorf("%w: set one of %s", err, strings.Join(names, ", "))
	}
	return err
}
