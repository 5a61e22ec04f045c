package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"pdfquiz/internal/logging"
)

const (
	reYoutube       = `(?:youtube\.com\/(?:[^\/]+\/.+\/|(?:v|e(?:mbed)?)\/|.*[?&]v=)|youtu\.be\/)([^"&?\/\s]{11})`
	reXMLTranscript = `<text start="([^"]*)" dur="([^"]*)">([^<]*)<\/text>`

	defaultBaseURL = "https://www.youtube.com"
)

var (
	videoIDPattern    = regexp.MustCompile(reYoutube)
	transcriptPattern = regexp.MustCompile(reXMLTranscript)
	titlePattern      = regexp.MustCompile(`<title>(.+?) - YouTube</title>`)

	// ErrInvalidURL is returned when no video ID can be read from the input.
	ErrInvalidURL = errors.New("invalid YouTube URL or video ID")

	// ErrNoCaptions is returned when a video has no caption tracks.
	ErrNoCaptions = errors.New("no captions available")
)

// Segment is one timed caption line.
type Segment struct {
	Text     string
	Duration float64
	Offset   float64
}

// Transcript is the caption text of a video.
type Transcript struct {
	VideoID  string
	Title    string
	Segments []Segment
}

// Text joins the segments into one string.
func (t *Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		parts = append(parts, s.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Client fetches caption tracks from YouTube watch pages.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(yt *Client) { yt.httpClient = c }
}

// WithBaseURL points the client at another host serving watch pages.
func WithBaseURL(u string) Option {
	return func(yt *Client) { yt.baseURL = strings.TrimRight(u, "/") }
}

// New creates a transcript client.
func New(opts ...Option) *Client {
	yt := &Client{httpClient: http.DefaultClient, baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(yt)
	}
	return yt
}

// Extract returns the transcript text of the video at url. It lets the
// client serve as a text source next to document extraction.
func (yt *Client) Extract(ctx context.Context, url string) (string, error) {
	t, err := yt.GetTranscript(ctx, url, "")
	if err != nil {
		return "", err
	}
	text := t.Text()
	if text == "" {
		return "", fmt.Errorf("%w for video %s", ErrNoCaptions, t.VideoID)
	}
	return text, nil
}

// GetTranscript fetches the captions of a video. An empty lang picks the
// first track.
func (yt *Client) GetTranscript(ctx context.Context, url string, lang string) (*Transcript, error) {
	videoID, err := VideoID(url)
	if err != nil {
		return nil, err
	}
	log := logging.WithContext(ctx).WithFields(logrus.Fields{"video_id": videoID, "lang": lang})

	page, err := yt.get(ctx, fmt.Sprintf("%s/watch?v=%s", yt.baseURL, videoID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video page: %w", err)
	}

	transcript := &Transcript{VideoID: videoID}
	if m := titlePattern.FindSubmatch(page); len(m) > 1 {
		transcript.Title = html.UnescapeString(string(m[1]))
	}

	trackURL, err := captionTrackURL(string(page), lang)
	if err != nil {
		log.WithError(err).Warn("No usable caption track")
		return nil, fmt.Errorf("video %s: %w", videoID, err)
	}

	body, err := yt.get(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}

	for _, m := range transcriptPattern.FindAllStringSubmatch(string(body), -1) {
		offset, _ := strconv.ParseFloat(m[1], 64)
		duration, _ := strconv.ParseFloat(m[2], 64)
		transcript.Segments = append(transcript.Segments, Segment{
			Text:     html.UnescapeString(m[3]),
			Duration: duration,
			Offset:   offset,
		})
	}

	log.Infof("Fetched %d transcript segments", len(transcript.Segments))
	return transcript, nil
}

func captionTrackURL(page, lang string) (string, error) {
	_, after, found := strings.Cut(page, `"captions":`)
	if !found {
		return "", ErrNoCaptions
	}
	end := strings.Index(after, `,"videoDetails`)
	if end < 0 {
		return "", ErrNoCaptions
	}

	var captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	if err := json.Unmarshal([]byte(after[:end]), &captions); err != nil {
		return "", fmt.Errorf("failed to parse captions data: %w", err)
	}

	tracks := captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", ErrNoCaptions
	}
	if lang == "" {
		return tracks[0].BaseURL, nil
	}
	for _, track := range tracks {
		if track.LanguageCode == lang {
			return track.BaseURL, nil
		}
	}
	return "", fmt.Errorf("%w in language %s", ErrNoCaptions, lang)
}

func (yt *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := yt.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// VideoID reads the 11-character video ID from a URL, or accepts a bare ID.
func VideoID(url string) (string, error) {
	if len(url) == 11 && !strings.ContainsAny(url, "/?&.") {
		return url, nil
	}
	if m := videoIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", ErrInvalidURL
}
