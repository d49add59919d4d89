package taxonomy

import (
	"regexp"
	"strings"
	"sync"

	"github.com/aidscope/ayudas-crawler/internal/catalog"
)

// patternCache holds lazily compiled rule patterns. Rule tables are immutable,
// so a compiled pattern is reused for every record.
var patternCache sync.Map // pattern string -> *regexp.Regexp (nil when invalid)

// ComputeTags derives the deterministic tag set for one announcement. It never
// fails: unmatched or empty input yields an empty slice, and a malformed
// pattern degrades to literal substring matching.
func ComputeTags(input catalog.ClassifyInput) []string {
	text := CombineText(input)
	matched := make(map[string]struct{})

	addTopicTags(text, matched)
	for _, rules := range facetRules {
		applyRules(text, rules, matched)
	}
	addInferredSocialSupport(text, matched)

	out := make([]string, 0, len(matched))
	for tag := range matched {
		if IsTag(tag) {
			out = append(out, tag)
		}
	}
	return SortCanonical(out)
}

// CombineText joins the populated input fields with single spaces and lowers
// the result. This is the text every rule matches against.
func CombineText(input catalog.ClassifyInput) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{input.Title, input.Description, input.Scope, input.Kind, input.Domain} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func addTopicTags(text string, matched map[string]struct{}) {
	for _, tag := range topicOrder {
		if matchesTerms(text, topicTerms[tag]) {
			matched[tag] = struct{}{}
		}
	}

	// Vocational training implies the general education topic as well.
	if strings.Contains(text, "formación profesional") || strings.Contains(text, "formacion profesional") {
		matched["education"] = struct{}{}
	}
}

// addInferredSocialSupport attaches social_support when the text names a
// direct economic benefit, or pairs a vulnerability context with a generic
// support mention.
func addInferredSocialSupport(text string, matched map[string]struct{}) {
	if matchesTerms(text, supportIndicatorTerms) {
		matched["social_support"] = struct{}{}
		return
	}
	if matchesTerms(text, socialContextTerms) && strings.Contains(text, "apoyo") {
		matched["social_support"] = struct{}{}
	}
}

func applyRules(text string, rules []Rule, matched map[string]struct{}) {
	for _, rule := range rules {
		if matchesPatterns(text, rule.Patterns) {
			matched[rule.Tag] = struct{}{}
		}
	}
}

func matchesTerms(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func matchesPatterns(text string, patterns []string) bool {
	for _, pattern := range patterns {
		if re := compiled(pattern); re != nil {
			if re.MatchString(text) {
				return true
			}
			continue
		}
		if strings.Contains(text, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// compiled returns the cached case-insensitive regexp for pattern, or nil when
// the pattern does not compile.
func compiled(pattern string) *regexp.Regexp {
	if v, ok := patternCache.Load(pattern); ok {
		re, _ := v.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		re = nil
	}
	patternCache.Store(pattern, re)
	return re
}
