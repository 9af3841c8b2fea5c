/*
Package ai asks the Gemini API to pull the DV program year and entry period
out of the entry page text and decodes the answer strictly.
*/
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/shanehull/dvwatch/internal/config"
	"github.com/shanehull/dvwatch/internal/types"
)

const (
	fieldProgramYear = "program_year"
	fieldStartDate   = "start_date"
	fieldEndDate     = "end_date"
)

// Kind tells a successful extraction apart from "not announced yet".
type Kind int

const (
	KindFound Kind = iota
	KindNotYetAvailable
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotYetAvailable:
		return "not_yet_available"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of a successful extraction. Info is only meaningful
// when Kind is KindFound.
type Result struct {
	Kind Kind
	Info types.ExtractedInfo
}

func (r Result) Status() types.Status {
	if r.Kind != KindFound {
		return types.NotYetAnnounced()
	}
	return types.StatusOf(r.Info)
}

// ExtractionError means the model could not be called or its answer could not
// be decoded. It never stands for "not announced yet".
type ExtractionError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return "extraction failed: " + e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Generator sends a prompt to a text generation service and returns the raw
// JSON text it answered with.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements Generator with JSON-constrained Gemini output.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: cfg.Model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   getResponseSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return resp.Text(), nil
}

type Extractor struct {
	gen    Generator
	logger *slog.Logger
}

func NewExtractor(gen Generator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{gen: gen, logger: logger}
}

// Extract returns the page's program year and entry period, a
// KindNotYetAvailable result, or an *ExtractionError.
func (e *Extractor) Extract(ctx context.Context, pageText string) (Result, error) {
	raw, err := e.gen.Generate(ctx, BuildPrompt(pageText))
	if err != nil {
		return Result{}, &ExtractionError{Reason: "model request failed", Err: err}
	}

	result, err := Decode(raw)
	if err != nil {
		e.logger.Warn("could not decode model response", "error", err, "raw", raw)
		return Result{}, err
	}

	if result.Kind == KindNotYetAvailable {
		e.logger.Info("model found no application window in page text")
	}

	return result, nil
}

type responseFields struct {
	ProgramYear *string `json:"program_year"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// Decode parses a model answer. The answer must be a JSON object whose three
// fields, when present and non-null, are strings. A missing, null, blank or
// "Not Found" field yields KindNotYetAvailable.
func Decode(raw string) (Result, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 {
		return Result{}, &ExtractionError{Reason: "empty response", Raw: raw}
	}
	if trimmed[0] != '{' {
		return Result{}, &ExtractionError{Reason: "response is not a JSON object", Raw: raw}
	}

	var fields responseFields
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Result{}, &ExtractionError{Reason: "failed to unmarshal gemini JSON response", Raw: raw, Err: err}
	}

	year, okYear := present(fields.ProgramYear)
	start, okStart := present(fields.StartDate)
	end, okEnd := present(fields.EndDate)

	if !okYear || !okStart || !okEnd {
		return Result{Kind: KindNotYetAvailable}, nil
	}

	return Result{
		Kind: KindFound,
		Info: types.ExtractedInfo{
			ProgramYear: year,
			StartDate:   start,
			EndDate:     end,
		},
	}, nil
}

func present(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	s := strings.TrimSpace(*v)
	if s == "" || s == types.NotFoundSentinel {
		return "", false
	}
	return s, true
}
