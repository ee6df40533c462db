// Package gemini invokes the generative model behind the analysis pipeline.
// It builds schema-constrained requests, runs them through the Gemini API,
// and returns the raw JSON tree for the sanitizer to repair.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"
)

// Sentinel errors returned by Invoke.
var (
	ErrEmptyResponse = errors.New("gemini: empty model response")
	ErrBadJSON       = errors.New("gemini: response is not a json object")
)

// Client runs generation requests. The API key is supplied per call because
// credentials are session-scoped, not process-scoped.
type Client struct{}

// NewClient returns a ready client.
func NewClient() *Client {
	return &Client{}
}

// Invoke sends one request and parses the JSON object it returns. A request
// is tried exactly once; transient failures surface to the caller unretried,
// since a generation is too expensive to repeat blindly.
func (c *Client) Invoke(ctx context.Context, apiKey string, req Request) (map[string]any, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
		Temperature:      genai.Ptr(req.Temperature),
	}
	if req.Instruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.Instruction, genai.RoleUser)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var tree map[string]any
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}

	log.Printf("gemini: %s responded in %s (%d bytes)", model, time.Since(start).Round(time.Millisecond), len(text))
	return tree, nil
}
