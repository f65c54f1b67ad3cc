// Package translator implements machine translation backends.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-padel/internal/logging"
	"github.com/goliatone/go-padel/internal/metrics"
	"github.com/goliatone/go-padel/pkg/interfaces"
)

const (
	DefaultModel      = "gpt-4o-mini"
	DefaultEndpoint   = "https://api.openai.com"
	maxErrorBodyBytes = 2048
)

var (
	ErrAPIKeyRequired   = errors.New("translator: api key is required")
	ErrEmptyTranslation = errors.New("translator: model returned no translation")
)

// HTTPClient is the subset of *http.Client used by OpenAI.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures the OpenAI-compatible chat completions client.
type Config struct {
	Endpoint    string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	Backoff     time.Duration
}

// APIError is a non-2xx answer from the completions endpoint.
type APIError struct {
	StatusCode int
	Body       string

	retryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("translator: api returned %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed when repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// OpenAI translates segments through a chat completions endpoint.
type OpenAI struct {
	cfg      Config
	endpoint string
	client   HTTPClient
	logger   interfaces.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

var _ interfaces.MachineTranslator = (*OpenAI)(nil)

// Option configures the OpenAI client.
type Option func(*OpenAI)

func WithHTTPClient(client HTTPClient) Option {
	return func(o *OpenAI) {
		if client != nil {
			o.client = client
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(o *OpenAI) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOpenAI validates cfg and builds a client.
func NewOpenAI(cfg Config, opts ...Option) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}

	o := &OpenAI{
		cfg:      cfg,
		endpoint: normalizeOpenAIEndpoint(cfg.Endpoint),
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logging.NoOp(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Translate sends one segment and returns its translation. 429 and 5xx
// answers and transport errors are retried with exponential backoff.
func (o *OpenAI) Translate(ctx context.Context, req interfaces.TranslateRequest) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return req.Text, nil
	}
	body, err := o.payload(req)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= o.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := o.cfg.Backoff << (attempt - 1)
			var apiErr *APIError
			if errors.As(lastErr, &apiErr) {
				if retryAfter := apiErr.retryAfter; retryAfter > wait {
					wait = retryAfter
				}
			}
			o.logger.Warn("translator retrying", "attempt", attempt, "wait", wait.String(), "error", lastErr)
			if err := o.sleep(ctx, wait); err != nil {
				return "", err
			}
		}

		started := time.Now()
		text, err := o.do(ctx, body)
		if err == nil {
			metrics.ObserveTranslator("ok", time.Since(started))
			return text, nil
		}
		metrics.ObserveTranslator("error", time.Since(started))
		lastErr = err
		if !retryable(ctx, err) {
			return "", err
		}
	}
	return "", lastErr
}

func (o *OpenAI) payload(req interfaces.TranslateRequest) ([]byte, error) {
	payload := map[string]any{
		"model":       o.cfg.Model,
		"temperature": o.cfg.Temperature,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt(req)},
			{"role": "user", "content": req.Text},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	return json.Marshal(payload)
}

func (o *OpenAI) do(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("translator: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cc); err != nil {
		return "", fmt.Errorf("translator: decode response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", ErrEmptyTranslation
	}
	return extractTranslation(cc.Choices[0].Message.Content)
}

func extractTranslation(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyTranslation
	}
	var out struct {
		Translation *string `json:"translation"`
	}
	if err := json.Unmarshal([]byte(content), &out); err == nil && out.Translation != nil {
		if strings.TrimSpace(*out.Translation) == "" {
			return "", ErrEmptyTranslation
		}
		return *out.Translation, nil
	}
	// some compatible servers ignore response_format and answer in plain text
	return content, nil
}

func systemPrompt(req interfaces.TranslateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You translate content for a padel racket review website from %s to %s. ", localeOrAuto(req.SourceLocale), req.TargetLocale)
	if req.Format == interfaces.FormatHTML {
		b.WriteString("The input is an HTML fragment: keep every tag, attribute and entity exactly as given and translate only human-readable text. ")
	}
	b.WriteString("Keep brand names, racket model names and units unchanged. ")
	if hint := strings.TrimSpace(req.Hint); hint != "" {
		fmt.Fprintf(&b, "Context: %s. ", hint)
	}
	b.WriteString(`Respond with a JSON object {"translation": "<translated text>"} and nothing else.`)
	return b.String()
}

func localeOrAuto(locale string) string {
	if strings.TrimSpace(locale) == "" {
		return "the source language"
	}
	return locale
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return !errors.Is(err, ErrEmptyTranslation)
}

func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normalizeOpenAIEndpoint(base string) string {
	endpoint := strings.TrimRight(strings.TrimSpace(base), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	switch {
	case strings.HasSuffix(endpoint, "/chat/completions"):
		return endpoint
	case strings.HasSuffix(endpoint, "/v1"):
		return endpoint + "/chat/completions"
	default:
		return endpoint + "/v1/chat/completions"
	}
}
