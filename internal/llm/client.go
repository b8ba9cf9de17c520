// Package llm wraps the Gemini SDK behind a small client interface so the
// services that depend on text generation can be tested with stubs.
package llm

import "context"

// FileRef identifies a file uploaded to the model provider
type FileRef struct {
	Name     string
	URI      string
	MIMEType string
}

// Client defines the model capabilities consumed by the application
type Client interface {
	// GenerateText sends a prompt and returns the raw text response
	//
	// "ctx" is the context for the request.
	// "prompt" is the full prompt text.
	//
	// Returns the response text and an error if any.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateTextWithFile sends a prompt together with an uploaded file
	//
	// "ctx" is the context for the request.
	// "file" is a reference previously returned by UploadFile.
	// "prompt" is the full prompt text.
	//
	// Returns the response text and an error if any.
	GenerateTextWithFile(ctx context.Context, file *FileRef, prompt string) (string, error)
	// UploadFile uploads a local file to the provider
	//
	// "ctx" is the context for the request.
	// "path" is the local file path.
	// "mimeType" is the content type of the file.
	//
	// Returns a reference to the uploaded file and an error if any.
	UploadFile(ctx context.Context, path, mimeType string) (*FileRef, error)
	// DeleteFile removes a previously uploaded file from the provider
	//
	// "ctx" is the context for the request.
	// "file" is the reference to delete.
	//
	// Returns an error if any.
	DeleteFile(ctx context.Context, file *FileRef) error
}
