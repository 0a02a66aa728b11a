package threat

import (
	"testing"
	"time"

	"alertscope/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomy_Classify(t *testing.T) {
	tax := DefaultTaxonomy()

	tests := []struct {
		name      string
		signature string
		main      string
		detail    string
	}{
		{"malware trojan", "MALWARE-CNC Win.Trojan.Jadtre variant outbound connection", CategoryMalware, "Trojan/Win.Jadtre"},
		{"malware user agent", "MALWARE-CNC User-Agent known malicious user agent", CategoryMalware, "C&C Communication"},
		{"malware generic", "MALWARE-CNC suspicious DNS beacon", CategoryMalware, "Malware Activity"},
		{"exploit win32k", "OS-WINDOWS Microsoft Windows win32k EXPLOIT attempt", CategoryExploit, "Privilege Escalation (Win32k)"},
		{"exploit java", "SERVER-OTHER Exploit Java JRE deserialization", CategoryExploit, "Remote Code Execution (Java)"},
		{"exploit weblogic", "EXPLOIT Oracle WebLogic T3 request", CategoryExploit, "Remote Code Execution (Java)"},
		{"exploit oracle", "EXPLOIT Oracle 9i TNS listener", CategoryExploit, "Buffer Overflow (Oracle)"},
		{"exploit iis", "EXPLOIT Microsoft IIS WebDAV", CategoryExploit, "Web Server Exploit"},
		{"exploit generic", "exploit kit landing page", CategoryExploit, "Generic Exploit"},
		{"netbios dcerpc", "NETBIOS DCERPC NCACN-IP-TCP ISystemActivator", CategoryNetwork, "RPC Service Exploit"},
		{"netbios smb", "NETBIOS SMB-DS IPC$ share access", CategoryNetwork, "SMB Service Exploit"},
		{"netbios generic", "NETBIOS name query overflow", CategoryNetwork, "Network Protocol Anomaly"},
		{"indicator mysql", "INDICATOR-COMPROMISE MySQL database enumeration", CategoryIndicator, "Database Reconnaissance"},
		{"indicator generic", "INDICATOR-COMPROMISE suspicious download", CategoryIndicator, "Suspicious Activity"},
		{"rce", "SERVER-WEBAPP Apache Struts RCE attempt", CategoryExploit, "Remote Code Execution"},
		{"privilege", "OS-LINUX sudo privilege bypass", CategoryExploit, "Privilege Escalation"},
		{"elevation", "OS-WINDOWS token elevation", CategoryExploit, "Privilege Escalation"},
		{"buffer", "SERVER-OTHER buffer smash", CategoryExploit, "Buffer Overflow"},
		{"overflow", "SERVER-OTHER heap overflow", CategoryExploit, "Buffer Overflow"},
		{"bo substring", "BROWSER-PLUGINS BO attempt", CategoryExploit, "Buffer Overflow"},
		{"lowercase input", "malware-cnc win.trojan beacon", CategoryMalware, "Trojan/Win.Jadtre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tax.Classify(tt.signature)
			assert.Equal(t, tt.main, got.MainCategory)
			assert.Equal(t, tt.detail, got.DetailedCategory)
		})
	}
}

func TestTaxonomy_Classify_Fallback(t *testing.T) {
	tax := DefaultTaxonomy()

	for _, sig := range []string{"", "POLICY-OTHER ping sweep", "SCAN nmap TCP", "12345"} {
		assert.Equal(t, Fallback, tax.Classify(sig), "signature %q", sig)
	}
	assert.Equal(t, core.Classification{MainCategory: "OTHER", DetailedCategory: "Uncategorized"}, Fallback)
}

func TestTaxonomy_RuleOrderIsContract(t *testing.T) {
	sig := "SERVER-WEBAPP generic EXPLOIT leading to RCE"

	got := DefaultTaxonomy().Classify(sig)
	assert.Equal(t, CategoryExploit, got.MainCategory)
	assert.Equal(t, "Generic Exploit", got.DetailedCategory, "EXPLOIT rule must win over RCE rule")

	// MALWARE-CNC is checked before NETBIOS
	got = DefaultTaxonomy().Classify("MALWARE-CNC over NETBIOS DCERPC")
	assert.Equal(t, CategoryMalware, got.MainCategory)

	// Swapping order changes the outcome
	rules := DefaultTaxonomy().Rules()
	var rce, exploit int
	for i, r := range rules {
		switch r.Name {
		case "rce":
			rce = i
		case "exploit":
			exploit = i
		}
	}
	rules[rce], rules[exploit] = rules[exploit], rules[rce]
	got = NewTaxonomy(rules...).Classify(sig)
	assert.Equal(t, "Remote Code Execution", got.DetailedCategory)
}

func TestTaxonomy_Deterministic(t *testing.T) {
	tax := DefaultTaxonomy()
	sig := "NETBIOS SMB-DS Session Setup AndX"
	first := tax.Classify(sig)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, tax.Classify(sig))
	}
}

func TestTaxonomy_RulesReturnsCopy(t *testing.T) {
	tax := DefaultTaxonomy()
	rules := tax.Rules()
	rules[0] = NewRule("override", "X", "Y", []string{"MALWARE-CNC"})

	assert.Equal(t, CategoryMalware, tax.Classify("MALWARE-CNC beacon").MainCategory)
}

func TestTaxonomy_CustomRuleWithoutPredicate(t *testing.T) {
	tax := NewTaxonomy(Rule{Name: "scan", Keywords: []string{"SCAN"}, Main: "RECON", Default: "Port Scan"})

	assert.Equal(t, core.Classification{MainCategory: "RECON", DetailedCategory: "Port Scan"}, tax.Classify("scan nmap"))
	assert.Equal(t, Fallback, tax.Classify("ping"))
}

func TestTaxonomy_Categories(t *testing.T) {
	cats := DefaultTaxonomy().Categories()

	assert.Equal(t, core.Classification{MainCategory: CategoryMalware, DetailedCategory: "Trojan/Win.Jadtre"}, cats[0])
	assert.Equal(t, Fallback, cats[len(cats)-1])
	assert.Contains(t, cats, core.Classification{MainCategory: CategoryExploit, DetailedCategory: "Buffer Overflow"})

	seen := make(map[core.Classification]bool)
	for _, c := range cats {
		assert.False(t, seen[c], "duplicate category %v", c)
		seen[c] = true
	}
}

func TestAnnotate_PreservesOrderAndInput(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []core.Event{
		core.NewEvent("NETBIOS DCERPC bind", at),
		core.NewInvalidEvent("ping"),
		core.NewEvent("MALWARE-CNC beacon", at),
	}
	before := append([]core.Event(nil), events...)

	annotated := Annotate(DefaultTaxonomy(), events)

	require.Len(t, annotated, 3)
	assert.Equal(t, before, events)
	assert.Equal(t, "NETBIOS DCERPC bind", annotated[0].Signature)
	assert.Equal(t, CategoryNetwork, annotated[0].MainCategory)
	assert.Equal(t, Fallback, annotated[1].Classification)
	assert.False(t, annotated[1].Timestamp.Valid)
	assert.Equal(t, CategoryMalware, annotated[2].MainCategory)
}
