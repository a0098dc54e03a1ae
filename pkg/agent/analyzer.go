package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// previewLimit caps the cleaned-text preview carried by ParseError.
const previewLimit = 240

// Analyzer composes the inference client, the Markdown stripper and the
// payload extractor into the single operation every presentation surface
// calls: submit a prompt, get a structured object or a typed error.
// Every call is a fresh network round trip; nothing is cached here.
type Analyzer struct {
	config  *Config
	client  InferenceClient
	logger  Logger
	schemas *SchemaSet
}

// AnalyzerOption configures optional analyzer behaviour.
type AnalyzerOption func(*analyzerOptions)

type analyzerOptions struct {
	logger  Logger
	schemas *SchemaSet
}

// WithAnalyzerLogger injects a custom logger implementation.
func WithAnalyzerLogger(logger Logger) AnalyzerOption {
	return func(opts *analyzerOptions) {
		opts.logger = logger
	}
}

// WithSchemas injects a pre-compiled schema set instead of loading one
// from the configured schema directory.
func WithSchemas(set *SchemaSet) AnalyzerOption {
	return func(opts *analyzerOptions) {
		opts.schemas = set
	}
}

// NewAnalyzer constructs an Analyzer over the given client.
func NewAnalyzer(cfg *Config, client InferenceClient, opts ...AnalyzerOption) (*Analyzer, error) {
	if cfg == nil {
		return nil, errors.New("agent: config cannot be nil")
	}
	if client == nil {
		return nil, errors.New("agent: client cannot be nil")
	}

	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	optState := analyzerOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	logger := optState.logger
	if logger == nil {
		logger = NewLogger(cfg.LogLevel)
	}

	schemas := optState.schemas
	if schemas == nil {
		loaded, err := LoadSchemas(cfg.SchemaDir, cfg.Surfaces)
		if err != nil {
			return nil, err
		}
		schemas = loaded
	}

	return &Analyzer{
		config:  cfg,
		client:  client,
		logger:  logger,
		schemas: schemas,
	}, nil
}

// Surfaces returns the configured analysis surfaces in sorted order.
func (a *Analyzer) Surfaces() []string {
	names := make([]string, 0, len(a.config.Surfaces))
	for name := range a.config.Surfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Analyze submits message to the agent behind surface and returns the
// structured payload. A fresh session is used for each call.
func (a *Analyzer) Analyze(ctx context.Context, surface, message string) (json.RawMessage, error) {
	return a.AnalyzeSession(ctx, surface, "", message)
}

// AnalyzeSession behaves like Analyze but groups the call under the given
// session ID so the remote agent sees one logical conversation.
func (a *Analyzer) AnalyzeSession(ctx context.Context, surface, sessionID, message string) (json.RawMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	surfaceCfg, ok := a.config.Surface(surface)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, surface)
	}

	envelope, err := a.client.Converse(ctx, &ConverseRequest{
		AgentID:   surfaceCfg.AgentID,
		SessionID: sessionID,
		Message:   message,
	})
	if err != nil {
		return nil, err
	}

	cleaned := StripMarkdown(envelope.Response)
	cleaned = UnwrapLanguageTag(cleaned)

	payload, err := ExtractJSONPayload(cleaned)
	if err != nil {
		a.logger.Error(ctx, fmt.Errorf("extract payload: %w", err), Fields{"surface": surface})
		return nil, &ParseError{Preview: truncate(cleaned, previewLimit), Err: err}
	}

	var doc json.RawMessage
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		a.logger.Error(ctx, fmt.Errorf("parse payload: %w", err), Fields{"surface": surface})
		return nil, &ParseError{Preview: truncate(cleaned, previewLimit), Err: err}
	}

	if err := a.schemas.Validate(surface, doc); err != nil {
		a.logger.Error(ctx, err, Fields{"surface": surface})
		return nil, err
	}

	a.logger.Debug(ctx, "analysis parsed", Fields{
		"surface": surface,
		"bytes":   len(doc),
	})
	return doc, nil
}

// AnalyzeProfile renders the business profile through renderer and
// submits the result to the agent behind surface.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, surface string, renderer *PromptRenderer, profile *Profile) (json.RawMessage, error) {
	if renderer == nil {
		return nil, errors.New("agent: prompt renderer is required")
	}
	message, err := renderer.Render(profile)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, surface, message)
}
