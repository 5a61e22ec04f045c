package r2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigEnabled(t *testing.T) {
	full := Config{AccountID: "acct", BucketName: "b", AccessKeyID: "k", SecretAccessKey: "s"}
	assert.True(t, full.Enabled())

	custom := full
	custom.AccountID = ""
	custom.Endpoint = "http://localhost:9000"
	assert.True(t, custom.Enabled())

	missing := full
	missing.SecretAccessKey = ""
	assert.False(t, missing.Enabled())

	assert.Equal(t, "https://acct.r2.cloudflarestorage.com", full.endpoint())
}

func TestNewClient_Disabled(t *testing.T) {
	c, err := NewClient(context.Background(), Config{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func newTestClient(t *testing.T, maxBytes int64, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), Config{
		BucketName:      "quiz-docs",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Endpoint:        server.URL,
		MaxObjectBytes:  maxBytes,
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/quiz-docs/documents/abc/notes.pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 test"))
	})

	data, err := c.Download(context.Background(), "documents/abc/notes.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))
}

func TestDownload_TooLarge(t *testing.T) {
	c := newTestClient(t, 8, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	})

	_, err := c.Download(context.Background(), "documents/big.pdf")
	assert.ErrorIs(t, err, ErrObjectTooLarge)
}

func TestDownload_NotFound(t *testing.T) {
	c := newTestClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
	})

	_, err := c.Download(context.Background(), "documents/missing.pdf")
	assert.Error(t, err)
}

func TestNilClient(t *testing.T) {
	var c *Client
	_, err := c.Download(context.Background(), "k")
	assert.Error(t, err)
	_, err = c.Upload(context.Background(), "a.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
