package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/keywords"
	"github.com/aidscope/ayudas-crawler/internal/metrics"
	"github.com/aidscope/ayudas-crawler/internal/taxonomy"
)

// RemoteConfig controls the remote text-classification call.
type RemoteConfig struct {
	Endpoint    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Remote delegates classification to an OpenAI-compatible chat completion
// endpoint, falling back to the deterministic strategy on any failure. A
// record is never left unclassified because the remote misbehaved.
type Remote struct {
	cfg      RemoteConfig
	client   *http.Client
	fallback *Fallback
	logger   *zap.Logger
}

// NewRemote builds the remote strategy. logger may be nil.
func NewRemote(cfg RemoteConfig, logger *zap.Logger) *Remote {
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 500
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remote{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		fallback: NewFallback(),
		logger:   logger,
	}
}

// Classify asks the remote endpoint for tags and keywords, sanitizing its
// output through the local vocabulary and keyword extractor. Every failure
// path returns the deterministic result instead.
func (r *Remote) Classify(ctx context.Context, input catalog.ClassifyInput) (catalog.Classification, error) {
	suggestion, err := r.call(ctx, input)
	if err != nil {
		r.logger.Warn("remote classification failed, using fallback", zap.Error(err))
		metrics.ObserveClassification(SourceFallback)
		return r.fallback.Classify(ctx, input)
	}
	metrics.ObserveClassification(SourceAI)
	return suggestion, nil
}

// suggestionPayload is the fixed response contract expected from the remote.
type suggestionPayload struct {
	Tags       []string `json:"tags"`
	Keywords   []string `json:"keywords"`
	Confidence *float64 `json:"confidence"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r *Remote) call(ctx context.Context, input catalog.ClassifyInput) (catalog.Classification, error) {
	if r.cfg.Endpoint == "" {
		return catalog.Classification{}, fmt.Errorf("remote classifier endpoint is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: r.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt()},
			{Role: "user", Content: buildPrompt(input)},
		},
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return catalog.Classification{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return catalog.Classification{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return catalog.Classification{}, fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return catalog.Classification{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return catalog.Classification{}, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return catalog.Classification{}, fmt.Errorf("classifier returned no choices")
	}

	var suggestion suggestionPayload
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &suggestion); err != nil {
		return catalog.Classification{}, fmt.Errorf("invalid suggestion payload: %w", err)
	}
	return sanitize(suggestion)
}

// sanitize enforces the local contract on remote output: tags restricted to
// the closed vocabulary, keywords re-normalized, confidence within [0,1].
func sanitize(suggestion suggestionPayload) (catalog.Classification, error) {
	if suggestion.Confidence == nil {
		return catalog.Classification{}, fmt.Errorf("suggestion is missing confidence")
	}
	confidence := *suggestion.Confidence
	if confidence < 0 || confidence > 1 {
		return catalog.Classification{}, fmt.Errorf("confidence %v outside [0,1]", confidence)
	}

	opts := keywords.DefaultOptions()
	opts.MaxKeywords = enrichmentKeywordCap
	opts.MinLength = 2

	return catalog.Classification{
		Tags:       taxonomy.SortCanonical(taxonomy.FilterValid(suggestion.Tags)),
		Keywords:   keywords.Extract(strings.Join(suggestion.Keywords, " "), opts),
		Confidence: confidence,
		Source:     SourceAI,
	}, nil
}

func systemPrompt() string {
	return "Eres un experto en ayudas y subvenciones públicas en España. " +
		"Analiza el texto y extrae tags y keywords relevantes.\n\n" +
		"Responde ÚNICAMENTE en formato JSON con esta estructura exacta:\n" +
		`{"tags": ["tag1"], "keywords": ["keyword1"], "confidence": 0.8}` + "\n\n" +
		"Tags válidos: " + strings.Join(taxonomy.Tags, ", ") + "\n\n" +
		"Solo incluye tags que estén explícitamente mencionados en el texto. " +
		"No infieras atributos del usuario."
}

func buildPrompt(input catalog.ClassifyInput) string {
	var sections []string
	if input.Title != "" {
		sections = append(sections, "Título: "+input.Title)
	}
	if input.Description != "" {
		sections = append(sections, "Descripción: "+input.Description)
	}
	if input.Scope != "" {
		sections = append(sections, "Ámbito: "+input.Scope)
	}
	if input.Kind != "" {
		sections = append(sections, "Tipo: "+input.Kind)
	}
	if input.Domain != "" {
		sections = append(sections, "Categoría: "+input.Domain)
	}
	return strings.Join(sections, "\n\n")
}
