package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfquiz/internal/logging"
	"pdfquiz/internal/quiz"
)

// --- Quiz Session Handlers ---

// SelectAnswerRequest records one answer.
type SelectAnswerRequest struct {
	QuestionIndex *int `json:"questionIndex" binding:"required"`
	OptionIndex   *int `json:"optionIndex" binding:"required"`
}

// NavigateRequest moves the current question.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// ResultResponse is the outcome of a finished quiz with its review.
type ResultResponse struct {
	Result quiz.Result       `json:"result"`
	Review []quiz.ReviewItem `json:"review"`
}

// HandleGetQuiz returns the current session snapshot.
func (h *Handler) HandleGetQuiz(c *gin.Context) {
	c.JSON(http.StatusOK, h.Session.Snapshot())
}

// HandleSelectAnswer records the chosen option for a question.
func (h *Handler) HandleSelectAnswer(c *gin.Context) {
	var req SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, "questionIndex and optionIndex are required", err)
		return
	}

	if err := h.Session.SelectAnswer(*req.QuestionIndex, *req.OptionIndex); err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Session.Snapshot())
}

// HandleNavigate moves to the previous or next question.
func (h *Handler) HandleNavigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abortWithError(c, http.StatusBadRequest, "direction is required", err)
		return
	}

	dir, err := quiz.ParseDirection(req.Direction)
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	if err := h.Session.Navigate(dir); err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Session.Snapshot())
}

// HandleSubmitQuiz finishes the quiz and returns its score and review.
func (h *Handler) HandleSubmitQuiz(c *gin.Context) {
	if err := h.Session.Submit(); err != nil {
		h.abortWithSessionError(c, err)
		return
	}

	resp, err := h.results()
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	logging.WithContext(c.Request.Context()).Infof("Quiz submitted: %d/%d (%d%%)",
		resp.Result.CorrectCount, resp.Result.Total, resp.Result.Percentage)
	c.JSON(http.StatusOK, resp)
}

// HandleGetScore returns the score of a completed quiz.
func (h *Handler) HandleGetScore(c *gin.Context) {
	result, err := h.Session.Score()
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleGetReview returns the score and per-question review.
func (h *Handler) HandleGetReview(c *gin.Context) {
	resp, err := h.results()
	if err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleRetryQuiz restarts a completed quiz with the same questions.
func (h *Handler) HandleRetryQuiz(c *gin.Context) {
	if err := h.Session.Retry(); err != nil {
		h.abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Session.Snapshot())
}

// HandleResetQuiz discards the current quiz.
func (h *Handler) HandleResetQuiz(c *gin.Context) {
	h.Session.Reset()
	c.Status(http.StatusNoContent)
}

func (h *Handler) results() (ResultResponse, error) {
	result, err := h.Session.Score()
	if err != nil {
		return ResultResponse{}, err
	}
	review, err := h.Session.Review()
	if err != nil {
		return ResultResponse{}, err
	}
	return ResultResponse{Result: result, Review: review}, nil
}

// abortWithSessionError maps session errors onto response codes.
func (h *Handler) abortWithSessionError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, quiz.ErrIndexOutOfRange),
		errors.Is(err, quiz.ErrInvalidDirection),
		errors.Is(err, quiz.ErrInvalidQuestionSet):
		status = http.StatusBadRequest
	case errors.Is(err, quiz.ErrInvalidState),
		errors.Is(err, quiz.ErrIncompleteQuiz),
		errors.Is(err, quiz.ErrConcurrentGeneration),
		errors.Is(err, quiz.ErrEmptyQuiz):
		status = http.StatusConflict
	}
	h.abortWithError(c, status, err.Error(), nil)
}
