package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVocabularyIsClosed(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Tags)
	require.True(t, IsTag("employment"))
	require.True(t, IsTag("housing"))
	require.True(t, IsTag("age_under_35"))
	require.False(t, IsTag("invalid_tag"))
	require.False(t, IsTag(""))

	seen := map[string]struct{}{}
	for _, tag := range Tags {
		_, dup := seen[tag]
		require.False(t, dup, "duplicate vocabulary entry %q", tag)
		seen[tag] = struct{}{}
	}
}

func TestEveryFacetTagIsInVocabulary(t *testing.T) {
	t.Parallel()

	total := 0
	for facet, tags := range facets {
		for _, tag := range tags {
			require.True(t, IsTag(tag), "facet %s lists unknown tag %q", facet, tag)
			require.True(t, InFacet(tag, facet))
		}
		total += len(tags)
	}
	require.Equal(t, len(Tags), total, "facets must partition the vocabulary")
}

func TestEveryRuleTagIsInVocabulary(t *testing.T) {
	t.Parallel()

	for _, rules := range facetRules {
		for _, rule := range rules {
			require.True(t, IsTag(rule.Tag), "rule targets unknown tag %q", rule.Tag)
			require.NotEmpty(t, rule.Patterns)
		}
	}
	for tag := range topicTerms {
		require.True(t, InFacet(tag, FacetTopic))
	}
}

func TestFilterValid(t *testing.T) {
	t.Parallel()

	got := FilterValid([]string{"housing", "bogus", "", "employment", "housing"})
	require.Equal(t, []string{"housing", "employment", "housing"}, got)
}

func TestSortCanonical(t *testing.T) {
	t.Parallel()

	got := SortCanonical([]string{"rural_area", "housing", "age_under_35", "employment"})
	require.Equal(t, []string{"employment", "housing", "age_under_35", "rural_area"}, got)
}
