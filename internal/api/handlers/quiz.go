package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"pdfquiz/internal/document"
	"pdfquiz/internal/llm"
	"pdfquiz/internal/logging"
	"pdfquiz/internal/models"
	"pdfquiz/internal/quiz"
	"pdfquiz/internal/quizgen"
	"pdfquiz/internal/youtube"
)

const (
	msgMissingInput      = "text and numQuestions are required"
	msgNotConfigured     = "LLM provider not configured"
	msgGenerationFailed  = "failed to generate questions"
	msgMissingTextSource = "file, videoUrl or objectKey is required"
)

var errNotPDF = errors.New("only PDF files are supported")

// QuizStartResponse is returned when a new quiz has been generated and
// loaded into the session.
type QuizStartResponse struct {
	Quiz      quiz.Snapshot `json:"quiz"`
	Length    int           `json:"length"`
	ObjectKey string        `json:"objectKey,omitempty"`
}

// HandleGenerateQuestions is the stateless Generation Service endpoint:
// {text, numQuestions} in, {questions} out.
func (h *Handler) HandleGenerateQuestions(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, msgMissingInput, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" || req.NumQuestions == 0 {
		h.abortWithError(c, http.StatusBadRequest, msgMissingInput, nil)
		return
	}
	if h.Generator == nil {
		h.abortWithError(c, http.StatusInternalServerError, msgNotConfigured, nil)
		return
	}

	questions, err := h.Generator.Generate(c.Request.Context(), req.Text, req.NumQuestions)
	if err != nil {
		h.abortWithGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerateResponse{Questions: questions})
}

// HandleCreateQuiz generates questions from JSON text and loads them into
// the session, replacing any current quiz.
func (h *Handler) HandleCreateQuiz(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, msgMissingInput, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" || req.NumQuestions <= 0 {
		h.abortWithError(c, http.StatusBadRequest, msgMissingInput, nil)
		return
	}

	h.startQuiz(c, req.Text, req.NumQuestions, "")
}

// HandleUploadQuiz generates a quiz from a multipart upload. The text comes
// from a PDF "file", a "videoUrl" transcript or a stored document
// "objectKey", checked in that order.
func (h *Handler) HandleUploadQuiz(c *gin.Context) {
	if !h.parseUpload(c) {
		return
	}

	n, err := strconv.Atoi(strings.TrimSpace(c.Request.FormValue("numQuestions")))
	if err != nil || n <= 0 {
		h.abortWithError(c, http.StatusBadRequest, "numQuestions must be a positive integer", err)
		return
	}

	text, objectKey, status, err := h.sourceText(c)
	if err != nil {
		h.abortWithError(c, status, "failed to read text source", err)
		return
	}

	h.startQuiz(c, text, n, objectKey)
}

// startQuiz discards the current quiz and generates a new one. Text source
// failures never reach this point, so a bad upload leaves the session as it
// was.
func (h *Handler) startQuiz(c *gin.Context, text string, n int, objectKey string) {
	if h.Generator == nil {
		h.abortWithError(c, http.StatusInternalServerError, msgNotConfigured, nil)
		return
	}
	if h.Session.Snapshot().Generating {
		h.abortWithError(c, http.StatusConflict, quiz.ErrConcurrentGeneration.Error(), nil)
		return
	}

	h.Session.Reset()
	if err := h.Session.Generate(c.Request.Context(), h.Generator, text, n); err != nil {
		h.abortWithGenerationError(c, err)
		return
	}

	snap := h.Session.Snapshot()
	logging.WithContext(c.Request.Context()).Infof("Loaded quiz with %d questions", snap.Total)
	c.JSON(http.StatusCreated, QuizStartResponse{
		Quiz:      snap,
		Length:    utf8.RuneCountInString(text),
		ObjectKey: objectKey,
	})
}

// abortWithGenerationError maps generation failures onto response codes.
func (h *Handler) abortWithGenerationError(c *gin.Context, err error) {
	var vErr *quizgen.ErrValidation
	switch {
	case errors.As(err, &vErr):
		h.abortWithError(c, http.StatusBadRequest, vErr.Error(), nil)
	case errors.Is(err, llm.ErrNotConfigured):
		h.abortWithError(c, http.StatusInternalServerError, msgNotConfigured, err)
	case errors.Is(err, quiz.ErrConcurrentGeneration), errors.Is(err, quiz.ErrInvalidState):
		h.abortWithError(c, http.StatusConflict, err.Error(), nil)
	default:
		h.abortWithError(c, http.StatusInternalServerError, msgGenerationFailed, err)
	}
}

// parseUpload reads the multipart form within the upload limit. It aborts
// the request and returns false on failure.
func (h *Handler) parseUpload(c *gin.Context) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.abortWithError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.MaxUploadBytes), nil)
			return false
		}
		h.abortWithError(c, http.StatusBadRequest, "failed to parse multipart form", err)
		return false
	}
	return true
}

// sourceText resolves the quiz text of an upload. The returned status is
// meaningful only when err is non-nil.
func (h *Handler) sourceText(c *gin.Context) (string, string, int, error) {
	ctx := c.Request.Context()

	if fh, err := c.FormFile("file"); err == nil {
		data, err := readFormFile(fh)
		if err != nil {
			return "", "", http.StatusBadRequest, err
		}
		text, status, err := h.extractPDF(c, fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			return "", "", status, err
		}
		return text, h.storeDocument(c, fh.Filename, data), 0, nil
	}

	if videoURL := strings.TrimSpace(c.Request.FormValue("videoUrl")); videoURL != "" {
		if h.Youtube == nil {
			return "", "", http.StatusBadRequest, errors.New("video transcripts are not enabled")
		}
		text, err := h.Youtube.Extract(ctx, videoURL)
		if errors.Is(err, youtube.ErrInvalidURL) {
			return "", "", http.StatusBadRequest, err
		}
		if err != nil {
			return "", "", http.StatusUnprocessableEntity, err
		}
		return text, "", 0, nil
	}

	if key := strings.TrimSpace(c.Request.FormValue("objectKey")); key != "" {
		if h.Store == nil {
			return "", "", http.StatusBadRequest, errors.New("document storage is not configured")
		}
		data, err := h.Store.Download(ctx, key)
		if err != nil {
			return "", "", http.StatusUnprocessableEntity, err
		}
		text, status, err := h.extractPDF(c, key, "", data)
		if err != nil {
			return "", "", status, err
		}
		return text, key, 0, nil
	}

	return "", "", http.StatusBadRequest, errors.New(msgMissingTextSource)
}

// extractPDF checks that data is a PDF and returns its text.
func (h *Handler) extractPDF(c *gin.Context, filename, contentType string, data []byte) (string, int, error) {
	if !document.IsPDF(filename, contentType, data) {
		return "", http.StatusBadRequest, errNotPDF
	}
	text, err := h.Extractor.Extract(c.Request.Context(), data)
	if err != nil {
		return "", http.StatusUnprocessableEntity, err
	}
	return text, 0, nil
}

// storeDocument keeps an uploaded PDF when storage is configured. Storage
// failures are logged and do not fail the request.
func (h *Handler) storeDocument(c *gin.Context, filename string, data []byte) string {
	if h.Store == nil {
		return ""
	}
	key, err := h.Store.Upload(c.Request.Context(), filename, bytes.NewReader(data))
	if err != nil {
		logging.WithContext(c.Request.Context()).WithError(err).Warn("Failed to store uploaded document")
		return ""
	}
	return key
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return data, nil
}
