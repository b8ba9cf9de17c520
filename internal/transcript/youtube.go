// Package transcript fetches lesson transcripts from the video platform.
// Transcripts are fetched once at lesson creation and cached immutably.
package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Unavailable is the placeholder stored when no transcript can be fetched
const Unavailable = "Transcript not available for this video."

// Fetcher retrieves the transcript text for a video URL
type Fetcher interface {
	// Fetch returns the transcript text for the video at sourceURL
	//
	// "ctx" is the context for the request.
	// "sourceURL" is the video page or embed URL.
	//
	// Returns the transcript text and an error if any.
	Fetch(ctx context.Context, sourceURL string) (string, error)
}

// timedTextURL is the captions endpoint queried for English captions
const timedTextURL = "https://video.google.com/timedtext"

// youtubeFetcher fetches captions from the YouTube timedtext endpoint
type youtubeFetcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewYouTubeFetcher creates a new YouTube transcript fetcher
func NewYouTubeFetcher(logger *zap.Logger) *youtubeFetcher {
	return &youtubeFetcher{
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// captionDocument is the timedtext XML payload
type captionDocument struct {
	Texts []captionText `xml:"text"`
}

type captionText struct {
	Body string `xml:",chardata"`
}

// Fetch retrieves and joins the captions for a video URL
func (f *youtubeFetcher) Fetch(ctx context.Context, sourceURL string) (string, error) {
	videoID := ExtractVideoID(sourceURL)
	if videoID == "" {
		return "", fmt.Errorf("could not extract video id from url %q", sourceURL)
	}

	reqURL := fmt.Sprintf("%s?lang=en&v=%s", timedTextURL, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build transcript request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript response: %w", err)
	}

	var doc captionDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to decode captions: %w", err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, text := range doc.Texts {
		trimmed := strings.TrimSpace(text.Body)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no captions found for video %s", videoID)
	}

	f.logger.Info("fetched transcript",
		zap.String("video_id", videoID),
		zap.Int("snippets", len(parts)),
	)

	return strings.Join(parts, " "), nil
}

// ExtractVideoID extracts the YouTube video ID from watch, embed and
// short URL formats. Returns an empty string when no ID can be found.
func ExtractVideoID(sourceURL string) string {
	switch {
	case strings.Contains(sourceURL, "watch?v="):
		id := sourceURL[strings.Index(sourceURL, "v=")+2:]
		if amp := strings.Index(id, "&"); amp >= 0 {
			id = id[:amp]
		}
		return id
	case strings.Contains(sourceURL, "embed/"), strings.Contains(sourceURL, "youtu.be/"):
		id := sourceURL[strings.LastIndex(sourceURL, "/")+1:]
		if q := strings.Index(id, "?"); q >= 0 {
			id = id[:q]
		}
		return id
	}
	return ""
}
