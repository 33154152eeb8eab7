package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/pkg/optimization"
)

// writeConfig copies the test fixture into a temp dir with a private store.
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	data, err := os.ReadFile("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	dir := t.TempDir()
	storePath := filepath.Join(dir, "saved.yaml")
	data = append(data, []byte("store:\n  path: "+storePath+"\n")...)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path, storePath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalculateCommand(t *testing.T) {
	path, _ := writeConfig(t)

	tests := []struct {
		format string
		want   string
	}{
		{format: "pretty", want: "--- Results for scenario Reference unit ---"},
		{format: "csv", want: "key,Reference unit,Equity funded house"},
		{format: "json", want: `"name": "Equity funded house"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "calculate", "--config", path, "--output-format", tt.format, "--log-level", "error")
			if err != nil {
				t.Fatalf("calculate error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}

	if _, err := run(t, "calculate", "--config", path, "--output-format", "xml"); err == nil {
		t.Error("expected error for unsupported output format")
	}
	if _, err := run(t, "calculate", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing configuration")
	}
}

func TestCapacityCommand(t *testing.T) {
	path, _ := writeConfig(t)

	out, err := run(t, "capacity", "Reference unit", "--config", path, "--output-format", "json", "--tolerance", "100")
	if err != nil {
		t.Fatalf("capacity error = %v", err)
	}
	var summaries []optimization.Summary
	if err := json.Unmarshal([]byte(out), &summaries); err != nil {
		t.Fatalf("capacity output is not JSON: %v\n%s", err, out)
	}
	if len(summaries) != 1 || !summaries[0].Converged {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
	if v := summaries[0].Value; v < 1343196 || v > 1343397 {
		t.Errorf("capacity = %.2f, expected about 1343296", v)
	}

	// The equity scenario has no capacity block, so bounds must come from flags.
	if _, err := run(t, "capacity", "Equity funded house", "--config", path); err == nil {
		t.Error("expected error without bounds")
	}
	out, err = run(t, "capacity", "Equity funded house", "--config", path, "--min", "300000", "--max", "600000")
	if err != nil {
		t.Fatalf("capacity with flags error = %v", err)
	}
	if !strings.Contains(out, "Equity funded house") {
		t.Errorf("table output missing scenario:\n%s", out)
	}
	if _, err := run(t, "capacity", "Nowhere", "--config", path); err == nil {
		t.Error("expected error for an unknown scenario")
	}
}

func TestReportCommand(t *testing.T) {
	path, _ := writeConfig(t)
	pdfPath := filepath.Join(t.TempDir(), "out.pdf")

	if _, err := run(t, "report", "--config", path, "--out", pdfPath); err != nil {
		t.Fatalf("report error = %v", err)
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("report is not a PDF")
	}
}

func TestScenariosCommands(t *testing.T) {
	path, storePath := writeConfig(t)

	out, err := run(t, "scenarios", "save", "Reference unit", "--as", "Unit A", "--config", path)
	if err != nil {
		t.Fatalf("save error = %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatal("save printed no id")
	}
	if _, err := os.Stat(storePath); err != nil {
		t.Fatalf("store file not written: %v", err)
	}

	out, err = run(t, "scenarios", "list", "--config", path)
	if err != nil || !strings.Contains(out, id) || !strings.Contains(out, "Unit A") {
		t.Fatalf("list = %q, %v", out, err)
	}

	out, err = run(t, "scenarios", "show", id, "--config", path)
	if err != nil || !strings.Contains(out, "purchasePrice: 650000") {
		t.Fatalf("show = %q, %v", out, err)
	}

	if _, err := run(t, "scenarios", "delete", id, "--config", path); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if _, err := run(t, "scenarios", "show", id, "--config", path); err == nil {
		t.Error("expected error showing a deleted scenario")
	}
	if _, err := run(t, "scenarios", "save", "Nowhere", "--config", path); err == nil {
		t.Error("expected error saving an unknown scenario")
	}
}

func TestVersionCommandSkipsConfig(t *testing.T) {
	out, err := run(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "property-forecast dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		conf     config.LoggingConfig
		override string
		wantErr  bool
	}{
		{name: "defaults", conf: config.LoggingConfig{}},
		{name: "console debug", conf: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "override wins", conf: config.LoggingConfig{Level: "nonsense"}, override: "warn"},
		{name: "bad level", conf: config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "bad format", conf: config.LoggingConfig{Format: "xml"}, wantErr: true},
		{name: "file output", conf: config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "app.log")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.conf, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("initializeLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("expected a logger")
			}
		})
	}
}
