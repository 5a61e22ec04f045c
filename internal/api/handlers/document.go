package handlers

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"pdfquiz/internal/document"
	"pdfquiz/internal/models"
)

// HandleExtractDocument returns the text of an uploaded PDF with its
// length and a short preview.
func (h *Handler) HandleExtractDocument(c *gin.Context) {
	if !h.parseUpload(c) {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		h.abortWithError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	data, err := readFormFile(fh)
	if err != nil {
		h.abortWithError(c, http.StatusBadRequest, "failed to read uploaded file", err)
		return
	}

	text, status, err := h.extractPDF(c, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		h.abortWithError(c, status, "failed to extract text", err)
		return
	}

	c.JSON(http.StatusOK, models.ExtractResponse{
		Text:    text,
		Length:  utf8.RuneCountInString(text),
		Preview: document.Preview(text, document.PreviewLength),
	})
}
