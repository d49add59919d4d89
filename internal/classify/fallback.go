// Package classify provides the classification strategies that enrich aid
// records with tags and keywords.
package classify

import (
	"context"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
	"github.com/aidscope/ayudas-crawler/internal/keywords"
	"github.com/aidscope/ayudas-crawler/internal/taxonomy"
)

// SourceFallback marks results produced by the deterministic strategy.
const SourceFallback = "fallback"

// SourceAI marks results produced by the remote strategy.
const SourceAI = "ai"

// fallbackConfidence is the fixed confidence attached to deterministic
// results.
const fallbackConfidence = 0.9

// enrichmentKeywordCap bounds keyword lists produced during classification.
const enrichmentKeywordCap = 20

// Fallback is the deterministic classification strategy: rule-engine tags plus
// extracted keywords. It never fails.
type Fallback struct{}

// NewFallback returns the deterministic classifier.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Classify computes tags and keywords without any external call.
func (f *Fallback) Classify(_ context.Context, input catalog.ClassifyInput) (catalog.Classification, error) {
	opts := keywords.DefaultOptions()
	opts.MaxKeywords = enrichmentKeywordCap

	return catalog.Classification{
		Tags:       taxonomy.ComputeTags(input),
		Keywords:   keywords.FromFields(opts, input.Title, input.Description, input.Scope),
		Confidence: fallbackConfidence,
		Source:     SourceFallback,
	}, nil
}
