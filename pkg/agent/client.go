package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// bodyPreviewLimit caps how much of a remote error body is retained.
const bodyPreviewLimit = 512

// InferenceClient defines the supported client behaviours.
type InferenceClient interface {
	Converse(ctx context.Context, req *ConverseRequest) (*Envelope, error)
	GetConfig() *Config
	Close() error
}

// Client submits prompts to the hosted inference endpoint over HTTPS and
// applies the retry policy. It holds no mutable state across calls.
type Client struct {
	config       *Config
	httpClient   *http.Client
	logger       Logger
	retryHandler *RetryHandler
}

// ClientOption configures optional client behaviour.
type ClientOption func(*clientOptions)

type clientOptions struct {
	logger     Logger
	retry      *RetryHandler
	httpClient *http.Client
}

// WithLogger injects a custom logger implementation.
func WithLogger(logger Logger) ClientOption {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithRetryHandler injects a custom retry handler.
func WithRetryHandler(handler *RetryHandler) ClientOption {
	return func(opts *clientOptions) {
		opts.retry = handler
	}
}

// WithHTTPClient replaces the default HTTP client (primarily for testing).
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *clientOptions) {
		opts.httpClient = client
	}
}

// NewClient constructs an inference client using the provided configuration.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("agent: config cannot be nil")
	}

	clientCfg := cfg.Clone()
	if err := clientCfg.Validate(); err != nil {
		return nil, err
	}

	optState := clientOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	logger := optState.logger
	if logger == nil {
		logger = NewLogger(clientCfg.LogLevel)
	}

	retryHandler := optState.retry
	if retryHandler == nil {
		retryHandler = NewRetryHandler(RetryConfig{
			MaxRetries: clientCfg.MaxRetries,
		})
	}

	httpClient := optState.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:       clientCfg,
		httpClient:   httpClient,
		logger:       logger,
		retryHandler: retryHandler,
	}, nil
}

// Converse submits a single prompt to the configured endpoint and returns
// the raw agent envelope. Transient failures are retried with exponential
// backoff; cancellation of ctx abandons pending retries.
func (c *Client) Converse(ctx context.Context, req *ConverseRequest) (*Envelope, error) {
	if req == nil {
		return nil, errors.New("agent: request cannot be nil")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	if strings.TrimSpace(req.AgentID) == "" {
		return nil, errors.New("agent: agent_id is required")
	}

	sessionID := req.SessionID
	if strings.TrimSpace(sessionID) == "" {
		sessionID = NewSessionID()
	}

	payload := inferencePayload{
		UserID:    c.config.UserID,
		AgentID:   req.AgentID,
		SessionID: sessionID,
		Message:   req.Message,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "inference request", Fields{
		"agent_id":   req.AgentID,
		"session_id": sessionID,
		"bytes":      len(data),
	})

	start := time.Now()
	var envelope *Envelope
	err = c.retryHandler.Do(ctx, func() error {
		env, attemptErr := c.attempt(ctx, data)
		if attemptErr != nil {
			c.logger.Error(ctx, attemptErr, Fields{"agent_id": req.AgentID})
			return attemptErr
		}
		envelope = env
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "inference success", Fields{
		"agent_id":    req.AgentID,
		"session_id":  sessionID,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return envelope, nil
}

// attempt performs one bounded POST to the inference endpoint.
func (c *Client) attempt(ctx context.Context, body []byte) (*Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Parent cancellation must not be retried; attempt timeouts may be.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ConnectivityError{URL: c.config.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{URL: c.config.Endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(raw), bodyPreviewLimit),
		}
	}

	var parsed struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &EnvelopeError{Reason: "body is not valid JSON", Err: err}
	}
	if parsed.Response == nil {
		return nil, &EnvelopeError{Reason: "missing response field"}
	}
	return &Envelope{Response: *parsed.Response}, nil
}

// GetConfig returns a copy of the client configuration.
func (c *Client) GetConfig() *Config {
	return c.config.Clone()
}

// Close releases idle connections held by the HTTP client.
func (c *Client) Close() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
