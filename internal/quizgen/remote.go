package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pdfquiz/internal/logging"
	"pdfquiz/internal/models"
)

// GeneratePath is the route of the generation endpoint.
const GeneratePath = "/api/generate-questions"

// RemoteClient calls a Generation Service over HTTP.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteClient creates a client for the service at baseURL. A nil
// httpClient uses http.DefaultClient.
func NewRemoteClient(baseURL string, httpClient *http.Client) *RemoteClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *RemoteClient) Generate(ctx context.Context, text string, n int) (models.QuestionSet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ErrValidation{Field: "text", Reason: "is required"}
	}
	if n <= 0 {
		return nil, &ErrValidation{Field: "numQuestions", Reason: "must be a positive integer"}
	}

	body, err := json.Marshal(models.GenerateRequest{Text: text, NumQuestions: n})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.WithContext(ctx).WithField("url", req.URL.String()).Info("Requesting questions from generation service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ErrService{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrService{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp models.ErrorResponse
		_ = json.Unmarshal(respBody, &errResp)
		msg := errResp.Details
		if msg == "" {
			msg = errResp.Error
		}
		return nil, &ErrService{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var out models.GenerateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &ErrFormat{Raw: string(respBody), Err: err}
	}
	if len(out.Questions) == 0 {
		return nil, &ErrFormat{Raw: string(respBody), Err: errors.New("response carried no questions")}
	}
	return out.Questions, nil
}
