// Package keywords normalizes free text and extracts ranked search terms for
// aid announcements.
package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Options configures keyword extraction. The zero value is not usable
// directly; use DefaultOptions or fill every numeric field.
type Options struct {
	MaxKeywords     int
	MinLength       int
	IncludeNumbers  bool
	CustomStopwords []string
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{
		MaxKeywords: 30,
		MinLength:   3,
	}
}

// stripDiacritics removes combining marks after NFD decomposition.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9\s]`)
	spaces     = regexp.MustCompile(`\s+`)
	pureDigits = regexp.MustCompile(`^\d+$`)
	noWordChar = regexp.MustCompile(`^[^\w]+$`)
)

// Compound phrase patterns, matched against the normalized (accent-free)
// token stream before stopword removal. Multi-word matches are considered
// inherently more specific and are ranked ahead of single tokens.
var compoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(familia\s+numerosa|familia\s+monoparental|discapacidad\s+reconocida|dependencia\s+reconocida)\b`),
	regexp.MustCompile(`\b(ingreso\s+minimo|renta\s+minima|salario\s+minimo|iprem|smi)\b`),
	regexp.MustCompile(`\b(castilla\s+leon|junta\s+castilla)\b`),
	regexp.MustCompile(`\b(bono\s+social|ayuda\s+alquiler|subvencion)\b`),
	regexp.MustCompile(`\b(crianza\s+terneros|modernizacion\s+explotaciones|mejora\s+instalaciones)\b`),
	regexp.MustCompile(`\b(cambio\s+climatico|desarrollo\s+sostenible|economia\s+circular)\b`),
	regexp.MustCompile(`\b(innovacion|investigacion|desarrollo)\b`),
	regexp.MustCompile(`\b(formacion\s+profesional|competencias\s+digitales|transformacion\s+digital)\b`),
}

// Normalize lowercases text, strips diacritics, replaces non-alphanumeric
// characters with spaces and collapses whitespace.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		stripped = lowered
	}
	stripped = nonAlnum.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(spaces.ReplaceAllString(stripped, " "))
}

// Tokenize splits normalized text into tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// Extract runs the full keyword pipeline over text. The result is
// deterministic, idempotent under re-extraction, and never longer than
// opts.MaxKeywords.
func Extract(text string, opts Options) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return []string{}
	}

	compounds := extractCompounds(tokens)

	custom := newSet(opts.CustomStopwords...)
	filtered := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := defaultStopwords[tok]; ok {
			continue
		}
		if _, ok := custom[tok]; ok {
			continue
		}
		if !keepToken(tok, opts) {
			continue
		}
		filtered = append(filtered, tok)
	}

	ranked := rankByFrequency(filtered)

	// Multi-word compounds go first; single-word compound matches are covered
	// by the frequency ranking already.
	final := make([]string, 0, len(compounds)+len(ranked))
	for _, c := range compounds {
		if strings.Count(c, " ") >= 1 {
			final = append(final, Normalize(c))
		}
	}
	final = append(final, ranked...)

	return truncate(dedupe(final), opts.MaxKeywords)
}

// FromFields extracts keywords from the concatenation of several text fields,
// skipping empty ones.
func FromFields(opts Options, fields ...string) []string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return Extract(strings.Join(parts, " "), opts)
}

func extractCompounds(tokens []string) []string {
	text := strings.Join(tokens, " ")
	var out []string
	for _, pattern := range compoundPatterns {
		out = append(out, pattern.FindAllString(text, -1)...)
	}
	return out
}

func keepToken(tok string, opts Options) bool {
	if len(tok) < opts.MinLength {
		return false
	}
	if !opts.IncludeNumbers && pureDigits.MatchString(tok) {
		return false
	}
	return !noWordChar.MatchString(tok)
}

// rankByFrequency orders tokens by descending frequency, tie-broken by
// descending length (longer tokens are more specific), then by first
// occurrence.
func rankByFrequency(tokens []string) []string {
	freq := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if freq[tok] == 0 {
			order = append(order, tok)
		}
		freq[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		if freq[order[i]] != freq[order[j]] {
			return freq[order[i]] > freq[order[j]]
		}
		return len(order[i]) > len(order[j])
	})
	return order
}

func dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := keywords[:0]
	for _, kw := range keywords {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

func truncate(keywords []string, limit int) []string {
	if limit > 0 && len(keywords) > limit {
		return keywords[:limit]
	}
	return keywords
}
