package threat

import (
	"strings"

	"alertscope/core"
)

// Taxonomy is an ordered list of classification rules. Rules are evaluated in
// order and the first match wins, so reordering rules changes outcomes.
type Taxonomy struct {
	rules []Rule
}

// NewTaxonomy creates a taxonomy evaluating rules in the given order
func NewTaxonomy(rules ...Rule) *Taxonomy {
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Taxonomy{rules: cp}
}

// DefaultTaxonomy returns the built-in alert taxonomy.
//
// Order is part of the contract: EXPLOIT is checked before RCE, PRIVILEGE and
// the overflow keywords, so "EXPLOIT ... RCE" classifies as a generic exploit.
// The "BO" keyword is a plain substring test and matches inside longer words.
func DefaultTaxonomy() *Taxonomy {
	return NewTaxonomy(
		NewRule("malware-cnc", CategoryMalware, "Malware Activity",
			[]string{"MALWARE-CNC"},
			Detail{Keywords: []string{"WIN.TROJAN"}, Label: "Trojan/Win.Jadtre"},
			Detail{Keywords: []string{"USER-AGENT"}, Label: "C&C Communication"},
		),
		NewRule("exploit", CategoryExploit, "Generic Exploit",
			[]string{"EXPLOIT"},
			Detail{Keywords: []string{"WIN32K"}, Label: "Privilege Escalation (Win32k)"},
			Detail{Keywords: []string{"JAVA JRE", "WEBLOGIC"}, Label: "Remote Code Execution (Java)"},
			Detail{Keywords: []string{"ORACLE 9I"}, Label: "Buffer Overflow (Oracle)"},
			Detail{Keywords: []string{"IIS"}, Label: "Web Server Exploit"},
		),
		NewRule("netbios", CategoryNetwork, "Network Protocol Anomaly",
			[]string{"NETBIOS"},
			Detail{Keywords: []string{"DCERPC"}, Label: "RPC Service Exploit"},
			Detail{Keywords: []string{"SMB-DS"}, Label: "SMB Service Exploit"},
		),
		NewRule("indicator-compromise", CategoryIndicator, "Suspicious Activity",
			[]string{"INDICATOR-COMPROMISE"},
			Detail{Keywords: []string{"MYSQL"}, Label: "Database Reconnaissance"},
		),
		NewRule("rce", CategoryExploit, "Remote Code Execution",
			[]string{"RCE"},
		),
		NewRule("privilege", CategoryExploit, "Privilege Escalation",
			[]string{"PRIVILEGE", "ELEVATION"},
		),
		NewRule("overflow", CategoryExploit, "Buffer Overflow",
			[]string{"BUFFER", "BO", "OVERFLOW"},
		),
	)
}

// Rules returns a copy of the rules in evaluation order
func (t *Taxonomy) Rules() []Rule {
	cp := make([]Rule, len(t.rules))
	copy(cp, t.rules)
	return cp
}

// Classify maps a signature to its two-level category. It never fails:
// signatures matching no rule get Fallback.
func (t *Taxonomy) Classify(signature string) core.Classification {
	sig := strings.ToUpper(signature)
	for _, r := range t.rules {
		if r.matches(sig) {
			return core.Classification{
				MainCategory:     r.Main,
				DetailedCategory: r.detail(sig),
			}
		}
	}
	return Fallback
}

// Categories lists every classification the taxonomy can produce, in rule
// order, ending with Fallback. Duplicate pairs are listed once.
func (t *Taxonomy) Categories() []core.Classification {
	seen := make(map[core.Classification]bool)
	var out []core.Classification
	add := func(c core.Classification) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, r := range t.rules {
		for _, d := range r.Details {
			add(core.Classification{MainCategory: r.Main, DetailedCategory: d.Label})
		}
		add(core.Classification{MainCategory: r.Main, DetailedCategory: r.Default})
	}
	add(Fallback)
	return out
}

// Classifier classifies signatures. Taxonomy and CachedClassifier implement it.
type Classifier interface {
	Classify(signature string) core.Classification
}

// Annotate classifies every event and returns the annotated events in the
// same order. The input slice is not modified.
func Annotate(c Classifier, events []core.Event) []core.AnnotatedEvent {
	out := make([]core.AnnotatedEvent, len(events))
	for i, e := range events {
		out[i] = core.Annotate(e, c.Classify(e.Signature))
	}
	return out
}
