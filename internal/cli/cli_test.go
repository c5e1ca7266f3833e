package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"hfscanner/internal/config"
	"hfscanner/internal/engine"
	"hfscanner/internal/flags"
)

func newTestScanCmd(c *config.Config) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	// Run makes the command runnable so Help renders the Usage block.
	cmd := &cobra.Command{
		Use:  "scan <root>",
		Long: "Scan a tree.",
		Run:  func(*cobra.Command, []string) {},
	}
	cmd.SetOut(&out)
	bindScanFlags(cmd, c)
	return cmd, &out
}

func writeProjectFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestRunScan_NoRootPrintsUsage(t *testing.T) {
	c := config.New()
	cmd, out := newTestScanCmd(c)
	var stderr bytes.Buffer

	code := runScan(context.Background(), cmd, c, nil, engine.NewEngine(), &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Usage:") || !strings.Contains(out.String(), "scan <root>") {
		t.Fatalf("expected usage output, got %q", out.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected no scan to start, got stderr %q", stderr.String())
	}
}

func TestScanCmd_NoRootPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	scanCmd.SetOut(&out)
	t.Cleanup(func() { scanCmd.SetOut(nil) })

	if err := scanCmd.Help(); err != nil {
		t.Fatalf("Help failed: %v", err)
	}
	if !strings.Contains(out.String(), "Usage:") || !strings.Contains(out.String(), "Exit codes:") {
		t.Fatalf("expected usage and exit codes in scan help, got %q", out.String())
	}
}

func TestRunScan_InvalidFlagExits3(t *testing.T) {
	c := config.New()
	cmd, _ := newTestScanCmd(c)
	if err := cmd.Flags().Set(flags.FlagProjectDepth, "3"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var stderr bytes.Buffer

	code := runScan(context.Background(), cmd, c, []string{t.TempDir()}, engine.NewEngine(), &stderr)
	if code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unsupported --project-depth") {
		t.Fatalf("expected validation message, got %q", stderr.String())
	}
}

func TestRunScan_ScansRoot(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "acme/vision/model.py", `AutoModel.from_pretrained("acme/vit")`)

	c := config.New()
	cmd, _ := newTestScanCmd(c)
	if err := cmd.Flags().Set(flags.FlagQuiet, "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cmd.Flags().Set(flags.FlagFailOn, "unsafe"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var stdout, stderr bytes.Buffer
	eng := engine.NewEngine()
	eng.Stdout = &stdout
	eng.Stderr = &stderr

	code := runScan(context.Background(), cmd, c, []string{root}, eng, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1 (fail-on unsafe), got %d; stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Unsafe usages (no revision): 1") {
		t.Fatalf("expected summary, got %q", stdout.String())
	}
}

func TestApplyConfigFile_ExplicitFlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hfscanner.yaml")
	if err := os.WriteFile(path, []byte("project_depth: 1\nconcurrency: 2\nfail_on: unsafe\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	c := config.New()
	cmd, _ := newTestScanCmd(c)
	if err := cmd.Flags().Set(flags.FlagConcurrency, "7"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	c.Runtime.ConfigFile = path

	if err := applyConfigFile(cmd, c); err != nil {
		t.Fatalf("applyConfigFile failed: %v", err)
	}
	if c.Targeting.ProjectDepth != 1 {
		t.Fatalf("expected depth from file, got %d", c.Targeting.ProjectDepth)
	}
	if c.Runtime.Concurrency != 7 {
		t.Fatalf("expected explicit --concurrency to win, got %d", c.Runtime.Concurrency)
	}
	if c.Output.FailOn != "unsafe" {
		t.Fatalf("expected fail-on from file, got %q", c.Output.FailOn)
	}
}

func TestApplyConfigFile_FromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hfscanner.yaml")
	if err := os.WriteFile(path, []byte("csv_level: project\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv(config.EnvConfigFile, path)

	c := config.New()
	cmd, _ := newTestScanCmd(c)
	if err := applyConfigFile(cmd, c); err != nil {
		t.Fatalf("applyConfigFile failed: %v", err)
	}
	if c.Output.CSVLevel != config.CSVLevelProject {
		t.Fatalf("expected csv level from env config, got %q", c.Output.CSVLevel)
	}
}

func TestApplyConfigFile_MissingFile(t *testing.T) {
	c := config.New()
	cmd, _ := newTestScanCmd(c)
	c.Runtime.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	if err := applyConfigFile(cmd, c); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("HFSCANNER_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("HFSCANNER_TEST_DOTENV", "")
	os.Unsetenv("HFSCANNER_TEST_DOTENV")
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv failed: %v", err)
	}
	if got := os.Getenv("HFSCANNER_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}

func TestScanHelp_DocumentsOutputAndExitCodes(t *testing.T) {
	for _, want := range []string{"Output:", "Exit codes:", "--csv", "--fail-on", "partially_safe"} {
		if !strings.Contains(scanCmd.Long, want) {
			t.Fatalf("expected scan help to contain %q", want)
		}
	}
	for _, name := range []string{flags.FlagDetailed, flags.FlagCSV, flags.FlagCSVLevel, flags.FlagProjectDepth} {
		if scanCmd.Flags().Lookup(name) == nil {
			t.Fatalf("expected scan to define --%s", name)
		}
	}
	if watchCmd.Flags().Lookup(flags.FlagDebounce) == nil {
		t.Fatalf("expected watch to define --%s", flags.FlagDebounce)
	}
}
