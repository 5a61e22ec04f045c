package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdfquiz/internal/document"
	"pdfquiz/internal/logging"
	"pdfquiz/internal/models"
	"pdfquiz/internal/quiz"
	"pdfquiz/internal/quizgen"
	"pdfquiz/internal/youtube"
)

// DefaultMaxUploadBytes limits uploaded documents when no limit is set.
const DefaultMaxUploadBytes = 32 << 20

// TextSource turns a reference such as a video URL into plain text.
type TextSource interface {
	Extract(ctx context.Context, ref string) (string, error)
}

// DocumentStore keeps uploaded documents so a quiz can be generated again
// from the same file.
type DocumentStore interface {
	Upload(ctx context.Context, filename string, content io.ReadSeeker) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// Handler contains the API handlers dependencies
type Handler struct {
	// Generator is nil when no language-model provider is configured.
	Generator      quizgen.Generator
	Session        *quiz.Session
	Extractor      document.Extractor
	Youtube        TextSource
	Store          DocumentStore
	MaxUploadBytes int64
}

// NewHandler creates a new Handler. Store is left unset; assign it when
// document storage is configured.
func NewHandler(generator quizgen.Generator, session *quiz.Session, extractor document.Extractor) *Handler {
	return &Handler{
		Generator:      generator,
		Session:        session,
		Extractor:      extractor,
		Youtube:        youtube.New(),
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// abortWithError logs err against the request and aborts with an
// {error, details} body.
func (h *Handler) abortWithError(c *gin.Context, statusCode int, message string, err error) {
	entry := logging.WithContext(c.Request.Context()).WithFields(logrus.Fields{
		"status": statusCode,
		"path":   c.Request.URL.Path,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	if statusCode >= 500 {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}

	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{
		Error:   message,
		Details: errorDetails(err),
	})
}

func errorDetails(err error) string {
	if err == nil {
		return ""
	}
	var svcErr *quizgen.ErrService
	if errors.As(err, &svcErr) {
		return svcErr.Detail()
	}
	return err.Error()
}
