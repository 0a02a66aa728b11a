package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"alertscope/export"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsDoc = `{"events": [
	{"timestamp": "2024-03-04 09:00:00", "signature": "MALWARE-CNC Win.Trojan.Jadtre"},
	{"timestamp": "2024-03-04 09:10:00", "signature": "NETBIOS SMB-DS IPC$ share"},
	{"timestamp": "2024-03-04 10:00:00", "signature": "MALWARE-CNC Win.Trojan.Jadtre"},
	{"timestamp": "2024-03-04 10:05:00", "signature": "NETBIOS SMB-DS IPC$ share"},
	{"timestamp": "bogus", "signature": "EXPLOIT Oracle 9i overflow"}
]}`

// prepare isolates a command run: fresh viper state, no config file in the
// working directory and no colors
func prepare(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "alertscope", root.Use)

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["analyze"])
	assert.True(t, names["taxonomy"])

	for _, flag := range []string{"config", "log-level", "no-color", "quiet", "json"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestAnalyzeCmd_Flags(t *testing.T) {
	cmd := newAnalyzeCmd(&globalOptions{})
	for _, flag := range []string{"input", "output", "format", "window", "source", "events-key", "no-csv", "include-events"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}
}

func TestAnalyze_WritesOutputs(t *testing.T) {
	dir := prepare(t)
	input := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(input, []byte(eventsDoc), 0o600))
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "--log-level", "error", "analyze", "--input", input, "--output", outDir, "--window", "2,3")
	require.NoError(t, err)

	assert.Contains(t, out, "SECURITY EVENTS ANALYSIS")
	assert.Contains(t, out, "Total events:")
	assert.Contains(t, out, "MALWARE")
	assert.Contains(t, out, "Window 2:")
	assert.Contains(t, out, "at 0, repeated 1 time(s)")
	assert.Contains(t, out, "Window 3:")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "1 events had an unparsable timestamp")

	assert.FileExists(t, filepath.Join(outDir, export.EventsFile))
	assert.FileExists(t, filepath.Join(outDir, export.PatternsFile))
	assert.FileExists(t, filepath.Join(outDir, "analysis_report.json"))
}

func TestAnalyze_JSONOutput(t *testing.T) {
	dir := prepare(t)
	input := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(input, []byte(eventsDoc), 0o600))

	out, err := execute(t, "--json", "analyze", "-i", input, "-o", filepath.Join(dir, "out"),
		"--format", "yaml", "--no-csv", "--source", "main_category")
	require.NoError(t, err)

	var rep map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "main_category", rep["pattern_source"])
	assert.NotEmpty(t, rep["run_id"])

	assert.FileExists(t, filepath.Join(dir, "out", "analysis_report.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, "out", export.EventsFile))
}

func TestAnalyze_Quiet(t *testing.T) {
	dir := prepare(t)
	input := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(input, []byte(eventsDoc), 0o600))

	out, err := execute(t, "--quiet", "analyze", "-i", input, "-o", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 5 events, wrote 9 files")
}

func TestAnalyze_ConfigFile(t *testing.T) {
	dir := prepare(t)
	input := filepath.Join(dir, "alerts.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"alerts": [{"signature": "RCE attempt"}]}`), 0o600))

	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"input:\n  path: "+input+"\n  events_key: alerts\noutput:\n  dir: "+filepath.Join(dir, "res")+"\n  csv: false\n",
	), 0o600))

	out, err := execute(t, "--quiet", "--config", cfgPath, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "Analyzed 1 events, wrote 1 files")
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(dir, input string) []string
	}{
		{"missing input", func(dir, _ string) []string {
			return []string{"analyze", "-i", filepath.Join(dir, "none.json"), "-o", dir}
		}},
		{"zero window", func(dir, input string) []string {
			return []string{"analyze", "-i", input, "-o", dir, "--window", "0"}
		}},
		{"unknown source", func(dir, input string) []string {
			return []string{"analyze", "-i", input, "-o", dir, "--source", "severity"}
		}},
		{"unknown format", func(dir, input string) []string {
			return []string{"analyze", "-i", input, "-o", dir, "--format", "xml"}
		}},
		{"positional argument", func(dir, input string) []string {
			return []string{"analyze", input}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := prepare(t)
			input := filepath.Join(dir, "events.json")
			require.NoError(t, os.WriteFile(input, []byte(eventsDoc), 0o600))

			_, err := execute(t, append([]string{"--quiet"}, tt.args(dir, input)...)...)
			assert.Error(t, err)
		})
	}
}

func TestTaxonomyCmd(t *testing.T) {
	prepare(t)

	out, err := execute(t, "taxonomy")
	require.NoError(t, err)
	assert.Contains(t, out, "TAXONOMY")
	assert.Contains(t, out, "malware-cnc")
	assert.Contains(t, out, "Trojan/Win.Jadtre")
	assert.Contains(t, out, "Uncategorized")

	out, err = execute(t, "--json", "taxonomy")
	require.NoError(t, err)
	var rules []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	require.Len(t, rules, 7)
	assert.Equal(t, "malware-cnc", rules[0]["name"])
	assert.Equal(t, "overflow", rules[6]["name"])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
