// Package taxonomy implements the closed tag vocabulary and the deterministic
// rule engine that maps announcement text onto it.
package taxonomy

// Facet is a non-exclusive classification dimension within the vocabulary.
type Facet string

// Facets in vocabulary declaration order.
const (
	FacetTopic      Facet = "topic"
	FacetAge        Facet = "age"
	FacetEmployment Facet = "employment_status"
	FacetIncome     Facet = "income"
	FacetFamily     Facet = "family"
	FacetHealth     Facet = "health"
	FacetTerritory  Facet = "territory"
	FacetModality   Facet = "modality"
)

// Tags is the closed vocabulary, in canonical order. Tag lists attached to a
// record are always emitted in this order, never in match order.
var Tags = []string{
	// Topic
	"employment",
	"training",
	"education",
	"housing",
	"family",
	"care",
	"health",
	"disability",
	"energy",
	"transport",
	"entrepreneurship",
	"social_support",
	"digital_inclusion",

	// Age bracket
	"age_under_18",
	"age_under_30",
	"age_under_35",
	"age_under_45",
	"age_over_45",
	"age_over_55",
	"age_over_65",

	// Employment status
	"unemployed",
	"jobseeker_registered",
	"long_term_unemployed",
	"employee",
	"self_employed",
	"new_self_employed",
	"business_creation",
	"student",

	// Income and vulnerability
	"low_income",
	"income_below_iprem",
	"income_below_smi",
	"risk_of_exclusion",
	"social_vulnerability",

	// Family and care situation
	"large_family",
	"single_parent",
	"dependent_person_care",
	"children_under_3",
	"children_under_12",
	"birth_or_adoption",

	// Health and disability
	"disability_recognized",
	"dependency_recognized",
	"chronic_illness",

	// Territory and scope
	"castilla_y_leon_specific",
	"municipal_scope",
	"provincial_scope",
	"rural_area",
	"depopulation_area",

	// Processing modality (informative, non-exclusive)
	"online_available",
	"in_person_available",
	"electronic_processing_preferred",
	"appointment_required",
}

// facets groups the vocabulary by classification dimension.
var facets = map[Facet][]string{
	FacetTopic: {
		"employment", "training", "education", "housing", "family", "care",
		"health", "disability", "energy", "transport", "entrepreneurship",
		"social_support", "digital_inclusion",
	},
	FacetAge: {
		"age_under_18", "age_under_30", "age_under_35", "age_under_45",
		"age_over_45", "age_over_55", "age_over_65",
	},
	FacetEmployment: {
		"unemployed", "jobseeker_registered", "long_term_unemployed",
		"employee", "self_employed", "new_self_employed", "business_creation",
		"student",
	},
	FacetIncome: {
		"low_income", "income_below_iprem", "income_below_smi",
		"risk_of_exclusion", "social_vulnerability",
	},
	FacetFamily: {
		"large_family", "single_parent", "dependent_person_care",
		"children_under_3", "children_under_12", "birth_or_adoption",
	},
	FacetHealth: {
		"disability_recognized", "dependency_recognized", "chronic_illness",
	},
	FacetTerritory: {
		"castilla_y_leon_specific", "municipal_scope", "provincial_scope",
		"rural_area", "depopulation_area",
	},
	FacetModality: {
		"online_available", "in_person_available",
		"electronic_processing_preferred", "appointment_required",
	},
}

// tagIndex maps each tag to its position in the canonical order.
var tagIndex = func() map[string]int {
	idx := make(map[string]int, len(Tags))
	for i, t := range Tags {
		idx[t] = i
	}
	return idx
}()

// IsTag reports whether value belongs to the closed vocabulary.
func IsTag(value string) bool {
	_, ok := tagIndex[value]
	return ok
}

// InFacet reports whether tag belongs to the given facet.
func InFacet(tag string, facet Facet) bool {
	for _, t := range facets[facet] {
		if t == tag {
			return true
		}
	}
	return false
}

// FilterValid drops every value not present in the vocabulary, preserving
// input order.
func FilterValid(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if IsTag(v) {
			out = append(out, v)
		}
	}
	return out
}

// SortCanonical orders tags by vocabulary declaration order, in place, and
// returns the slice. Unknown values sort last; callers are expected to have
// filtered them already.
func SortCanonical(tags []string) []string {
	for i := 1; i < len(tags); i++ {
		for j := i; j > 0 && rank(tags[j]) < rank(tags[j-1]); j-- {
			tags[j], tags[j-1] = tags[j-1], tags[j]
		}
	}
	return tags
}

func rank(tag string) int {
	if i, ok := tagIndex[tag]; ok {
		return i
	}
	return len(Tags)
}
