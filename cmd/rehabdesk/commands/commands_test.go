package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// run executes the CLI with a memory-backed configuration and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	configFile := writeFile(t, dir, "rehabdesk.yaml", "storage:\n  driver: memory\nlogging:\n  level: error\n")

	root := newRootCmd("1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", configFile, "--env-file", filepath.Join(dir, ".env")}, args...))
	err := root.Execute()
	return out.String(), err
}

const brrrrDoc = `{
	"financingStrategy": "loan",
	"phase1": [{"value":100000},{"value":20000},{},{},{"value":5000}],
	"phase2": {"items":[{},{},{},{},{},{},{"perYear":1200}],"refiAmount":150000,"years":2}
}`

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if out != "rehabdesk 1.2.3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBrrrrCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "elm.json", brrrrDoc)

	out, err := run(t, "", "brrrr", "--output-format", "csv", path)
	if err != nil {
		t.Fatalf("brrrr error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, `"111490.00"`) {
		t.Fatalf("unexpected final row %q in:\n%s", last, out)
	}

	out, err = run(t, brrrrDoc, "brrrr", "-")
	if err != nil {
		t.Fatalf("brrrr from stdin error = %v", err)
	}
	if !strings.Contains(out, "--- BRRRR projection for stdin ---") || !strings.Contains(out, "$111,490") {
		t.Fatalf("unexpected pretty output:\n%s", out)
	}
}

func TestBrrrrCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"brrrr", "-o", "xml", writeFile(t, dir, "a.json", brrrrDoc)}},
		{"missing file", []string{"brrrr", filepath.Join(dir, "missing.json")}},
		{"invalid json", []string{"brrrr", writeFile(t, dir, "b.json", "{")}},
		{"horizon too long", []string{"brrrr", writeFile(t, dir, "c.json", `{"phase1":[],"phase2":{"years":500}}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, "", tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestFlipCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "oak.json",
		`{"arv":300000,"purchasePrice":180000,"repairCost":40000,"desiredProfit":30000}`)

	out, err := run(t, "", "flip", "--name", "Oak", path)
	if err != nil {
		t.Fatalf("flip error = %v", err)
	}
	for _, want := range []string{"--- Flip evaluation for Oak ---", "$80,000.00", "$230,000.00", "meets target"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShowCommand(t *testing.T) {
	out, err := run(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "driver: memory") || !strings.Contains(out, "level: error") {
		t.Fatalf("unexpected config output:\n%s", out)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	root := newRootCmd("dev")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "config", "show"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}
