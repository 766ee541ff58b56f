package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/medfill/internal/dataset"
	"github.com/KaramelBytes/medfill/internal/runlog"
)

const catalogCSV = `pk,brandName,chemicalClass,therapeuticClass,actionClass
1,Augmentin,A,X,
2,Azee,A,X,p
3,Crocin,,X,
4,Dolo,,Y,
`

// resetFlags clears values and Changed state left by a previous Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(args ...string) error {
	resetFlags(rootCmd)
	cfg = nil
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execute(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFixture(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestCLI_FillWithReport(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "med_H.csv")
	out := filepath.Join(home, "out", "med_H_filled.csv")
	report := filepath.Join(home, "out", "run.json")
	writeFixture(t, in, catalogCSV)

	runCmd(t, "fill", in, out, "--report", report, "--quiet")

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := `pk,brandName,chemicalClass,therapeuticClass,actionClass
1,Augmentin,A,X,p
2,Azee,A,X,p
3,Crocin,A,X,p
4,Dolo,,Y,
`
	if string(got) != want {
		t.Fatalf("output mismatch:\n got: %q\nwant: %q", got, want)
	}

	r, err := runlog.Load(report)
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if r.Rows != 4 || r.Groups != 2 || r.Input != in || r.Output != out {
		t.Fatalf("unexpected report: %+v", r)
	}
	if r.Filled["chemicalClass"] != 1 || r.Filled["actionClass"] != 2 {
		t.Fatalf("filled counts: %v", r.Filled)
	}
}

func TestCLI_FillUsesConfigPaths(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "data", "catalog.csv")
	out := filepath.Join(home, "data", "catalog_filled.xlsx")
	writeFixture(t, in, catalogCSV)

	runCmd(t, "config", "set", "input_path", in)
	runCmd(t, "config", "set", "output_path", out)
	runCmd(t, "fill", "--quiet")

	tab, err := dataset.Load(out, dataset.LoadOptions{})
	if err != nil {
		t.Fatalf("load xlsx output: %v", err)
	}
	if tab.Len() != 4 {
		t.Fatalf("rows = %d", tab.Len())
	}
	if got := tab.Get(tab.Records[2], "actionClass"); got != "p" {
		t.Fatalf("row 3 actionClass = %q", got)
	}
	if got := tab.Get(tab.Records[3], "chemicalClass"); got != "" {
		t.Fatalf("row 4 chemicalClass = %q", got)
	}
}

func TestCLI_FlagsOverrideConfigFile(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "a.csv")
	out := filepath.Join(home, "b.csv")
	cfgPath := filepath.Join(home, "medfill.yaml")
	writeFixture(t, in, catalogCSV)
	writeFixture(t, cfgPath, "input_path: /does/not/exist.csv\noutput_path: /does/not/out.csv\n")

	runCmd(t, "--config", cfgPath, "fill", "-i", in, "-o", out, "--quiet")
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestCLI_FillErrors(t *testing.T) {
	home := isolate(t)

	err := execute("fill", filepath.Join(home, "absent.csv"), filepath.Join(home, "out.csv"), "--quiet")
	var ioe *dataset.IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("want IOError, got %T: %v", err, err)
	}

	headerOnly := filepath.Join(home, "header.csv")
	out := filepath.Join(home, "out.csv")
	writeFixture(t, headerOnly, "pk,chemicalClass,therapeuticClass,actionClass\n")
	err = execute("fill", headerOnly, out, "--quiet")
	var ee *dataset.EmptyInputError
	if !errors.As(err, &ee) {
		t.Fatalf("want EmptyInputError, got %T: %v", err, err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("output must not be written")
	}

	noGroup := filepath.Join(home, "nogroup.csv")
	writeFixture(t, noGroup, "pk,chemicalClass,actionClass\n1,A,p\n")
	err = execute("fill", noGroup, out, "--quiet")
	var fe *dataset.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("want FormatError, got %T: %v", err, err)
	}
}

func TestCLI_ModesWritesSummary(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "med.csv")
	md := filepath.Join(home, "modes.md")
	writeFixture(t, in, catalogCSV)

	runCmd(t, "modes", in, "-o", md)
	body, err := os.ReadFile(md)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	for _, want := range []string{"[GROUP MODES]", "- X (n=3)", "chemicalClass: A", "actionClass: p", "- Y (n=1)"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("summary missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(string(body), "[FILL]") {
		t.Fatalf("modes must not report fill counts")
	}
}

func TestCLI_ConfigSetRejectsInvalid(t *testing.T) {
	isolate(t)
	if err := execute("config", "set", "log_level", "loud"); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
	if cfg == nil || cfg.LogLevel != "info" {
		t.Fatalf("rejected value leaked into loaded config: %+v", cfg)
	}
	if err := execute("config", "set", "color", "blue"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
	runCmd(t, "config", "set", "log_level", "warn")
	runCmd(t, "config", "show")
	if cfg == nil || cfg.LogLevel != "warn" {
		t.Fatalf("log level not persisted: %+v", cfg)
	}
}

func TestCLI_ModesOutputUnderHome(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "med.csv")
	writeFixture(t, in, catalogCSV)

	runCmd(t, "modes", in, "--values", "-o", "~/reports/modes.md")
	body, err := os.ReadFile(filepath.Join(home, "reports", "modes.md"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(body), "chemicalClass: A (2 of 2 observed, 1 distinct), blank 1\n    - A: 2\n") {
		t.Fatalf("summary missing value listing:\n%s", body)
	}
}

func TestCLI_ReportShowsSavedRun(t *testing.T) {
	home := isolate(t)
	in := filepath.Join(home, "med.csv")
	report := filepath.Join(home, "run.json")
	writeFixture(t, in, catalogCSV)

	if err := execute("report", filepath.Join(home, "missing.json")); err == nil {
		t.Fatalf("expected missing report to fail")
	}
	if err := execute("report"); err == nil {
		t.Fatalf("expected error without a report path")
	}
	runCmd(t, "fill", in, filepath.Join(home, "out.csv"), "--report", report, "--quiet")
	runCmd(t, "report", report)
	runCmd(t, "config", "set", "report_path", report)
	runCmd(t, "report")
}
