package threat

import (
	"strings"

	"alertscope/core"
)

// Main categories produced by the default taxonomy
const (
	CategoryMalware   = "MALWARE"
	CategoryExploit   = "EXPLOIT"
	CategoryNetwork   = "NETWORK"
	CategoryIndicator = "INDICATOR"
	CategoryOther     = "OTHER"
)

// DetailUncategorized is the detail label of the fallback classification
const DetailUncategorized = "Uncategorized"

// Fallback is the classification of a signature no rule matches
var Fallback = core.Classification{
	MainCategory:     CategoryOther,
	DetailedCategory: DetailUncategorized,
}

// Predicate tests an uppercased signature
type Predicate func(sig string) bool

// Contains returns a predicate that matches when the signature contains any
// of the given keywords. Keywords must already be uppercase.
func Contains(keywords ...string) Predicate {
	return func(sig string) bool {
		for _, kw := range keywords {
			if strings.Contains(sig, kw) {
				return true
			}
		}
		return false
	}
}

// Detail is one nested check inside a rule
type Detail struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Label    string   `json:"label" yaml:"label"`
}

// Rule maps signatures matching Match to Main. The detailed category is the
// label of the first Details entry whose keywords match, or Default.
type Rule struct {
	Name     string    `json:"name" yaml:"name"`
	Keywords []string  `json:"keywords" yaml:"keywords"`
	Main     string    `json:"main_category" yaml:"main_category"`
	Details  []Detail  `json:"details,omitempty" yaml:"details,omitempty"`
	Default  string    `json:"default_detail" yaml:"default_detail"`
	Match    Predicate `json:"-" yaml:"-"`
}

// NewRule builds a rule that fires when the signature contains any keyword
func NewRule(name, main, defaultDetail string, keywords []string, details ...Detail) Rule {
	return Rule{
		Name:     name,
		Keywords: keywords,
		Main:     main,
		Details:  details,
		Default:  defaultDetail,
		Match:    Contains(keywords...),
	}
}

// detail resolves the detailed category for a signature already matched by r
func (r Rule) detail(sig string) string {
	for _, d := range r.Details {
		if Contains(d.Keywords...)(sig) {
			return d.Label
		}
	}
	return r.Default
}

func (r Rule) matches(sig string) bool {
	if r.Match != nil {
		return r.Match(sig)
	}
	return Contains(r.Keywords...)(sig)
}
