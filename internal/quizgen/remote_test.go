package quizgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfquiz/internal/models"
)

func newRemote(t *testing.T, handler http.HandlerFunc) *RemoteClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRemoteClient(server.URL+"/", server.Client())
}

func TestRemoteClient_Success(t *testing.T) {
	var got models.GenerateRequest
	client := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GeneratePath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"questions":` + threeQuestions + `}`))
	})

	qs, err := client.Generate(context.Background(), "source", 3)
	require.NoError(t, err)
	assert.Len(t, qs, 3)
	assert.Equal(t, "source", got.Text)
	assert.Equal(t, 3, got.NumQuestions)
}

func TestRemoteClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"details preferred", http.StatusInternalServerError, `{"error":"failed to generate questions","details":"quota exceeded"}`, "quota exceeded"},
		{"error only", http.StatusBadRequest, `{"error":"text and numQuestions are required"}`, "text and numQuestions are required"},
		{"no body", http.StatusBadGateway, ``, fallbackServiceMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), "source", 3)

			var svcErr *ErrService
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.status, svcErr.StatusCode)
			assert.Equal(t, tt.wantDetail, svcErr.Detail())
		})
	}
}

func TestRemoteClient_UndecodableBody(t *testing.T) {
	client := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Generate(context.Background(), "source", 3)

	var formatErr *ErrFormat
	require.ErrorAs(t, err, &formatErr)
}

func TestRemoteClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewRemoteClient(url, nil).Generate(context.Background(), "source", 3)

	var svcErr *ErrService
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, fallbackServiceMessage, svcErr.Detail())
}

func TestRemoteClient_Validation(t *testing.T) {
	client := NewRemoteClient("http://unused", nil)

	_, err := client.Generate(context.Background(), "", 3)
	var vErr *ErrValidation
	require.ErrorAs(t, err, &vErr)
}
