package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// geminiClient implements Client using the Google Gemini SDK
type geminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a new Gemini client.
// Every call carries a bounded deadline so a stalled provider cannot hang
// a request indefinitely.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*geminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// GenerateText sends a prompt and returns the raw text response
func (c *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", mapGeminiError(err)
	}

	return extractText(result)
}

// GenerateTextWithFile sends a prompt together with an uploaded file
func (c *geminiClient) GenerateTextWithFile(ctx context.Context, file *FileRef, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(file.URI, file.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", mapGeminiError(err)
	}

	return extractText(result)
}

// UploadFile uploads a local file to the Gemini Files API
func (c *geminiClient) UploadFile(ctx context.Context, path, mimeType string) (*FileRef, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	file, err := c.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return nil, mapGeminiError(err)
	}

	return &FileRef{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: file.MIMEType,
	}, nil
}

// DeleteFile removes a previously uploaded file from the Gemini Files API
func (c *geminiClient) DeleteFile(ctx context.Context, file *FileRef) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.client.Files.Delete(ctx, file.Name, nil); err != nil {
		return mapGeminiError(err)
	}
	return nil
}

// extractText pulls the text output from a generation response. The SDK
// joins the candidate text parts; an empty join means there is nothing
// usable to parse.
func extractText(result *genai.GenerateContentResponse) (string, error) {
	text := result.Text()
	if text == "" {
		return "", &ErrEmptyResponse{}
	}
	return text, nil
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrUnavailable{Err: err}
		}
	}
	return &ErrUnavailable{Err: err}
}
