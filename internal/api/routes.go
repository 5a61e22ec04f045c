package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfquiz/internal/api/handlers"
	"pdfquiz/internal/models"
)

// NewRouter returns a gin engine with recovery, request logging and all
// API routes registered.
func NewRouter(handler *handlers.Handler, frontendURL string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{Error: "method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	})

	SetupRoutes(router, handler, frontendURL)
	return router
}

// SetupRoutes sets up the API routes
func SetupRoutes(router *gin.Engine, handler *handlers.Handler, frontendURL string) {
	router.Use(RequestLogger(), CORSMiddleware(frontendURL))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Stateless generation service
		api.POST("/generate-questions", handler.HandleGenerateQuestions)
		api.POST("/documents/extract", handler.HandleExtractDocument)

		// --- Quiz Session Routes ---
		api.GET("/quiz", handler.HandleGetQuiz)
		api.POST("/quiz", handler.HandleCreateQuiz)        // Generate from JSON text
		api.POST("/quiz/upload", handler.HandleUploadQuiz) // Generate from PDF, video URL or stored document
		api.DELETE("/quiz", handler.HandleResetQuiz)
		api.POST("/quiz/answers", handler.HandleSelectAnswer)
		api.POST("/quiz/navigate", handler.HandleNavigate)
		api.POST("/quiz/submit", handler.HandleSubmitQuiz)
		api.GET("/quiz/score", handler.HandleGetScore)
		api.GET("/quiz/review", handler.HandleGetReview)
		api.POST("/quiz/retry", handler.HandleRetryQuiz)
	}
}
