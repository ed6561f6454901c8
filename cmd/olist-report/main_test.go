package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olistcli/internal/config"
	"olistcli/internal/shared/testutil"
	"olistcli/pkg/contracts"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, contracts.GetVersionString())
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "--no-such-flag")

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "no-such-flag")
}

func TestRun_Report(t *testing.T) {
	dataDir := testutil.WriteStandardDataset(t)
	outDir := t.TempDir()
	csvPath := filepath.Join(outDir, "analytical.csv")
	xlsxPath := filepath.Join(outDir, "report.xlsx")
	metricsPath := filepath.Join(outDir, "olist.prom")

	code, stdout, stderr := runCLI(t,
		"--data-dir", dataDir,
		"--export-csv", csvPath,
		"--export-xlsx", xlsxPath,
		"--metrics-file", metricsPath,
		"--top", "2",
	)

	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "Olist order analytics")
	assert.Contains(t, stdout, "261.37")
	assert.Contains(t, stdout, "2017-01")
	assert.Contains(t, stderr, "Pipeline completed")

	assert.FileExists(t, csvPath)
	assert.FileExists(t, xlsxPath)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `olist_runs_total{status="ready"} 1`)
	assert.Contains(t, string(prom), "olist_analytical_rows 3")
}

func TestRun_NoData(t *testing.T) {
	dataDir := testutil.WriteStandardDataset(t)
	require.NoError(t, os.Remove(filepath.Join(dataDir, config.ReviewsFile)))

	code, stdout, stderr := runCLI(t, "--data-dir", dataDir)

	assert.Equal(t, exitFailed, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: no data available: ")
	assert.Contains(t, stderr, "(load step)")
	assert.Contains(t, stderr, config.ReviewsFile)
}

func TestRun_NoDataFromBuild(t *testing.T) {
	fixture := testutil.StandardFixture()
	fixture[config.OrdersFile][1][3] = "yesterday"
	dataDir := t.TempDir()
	testutil.WriteFixture(t, dataDir, fixture)

	code, _, stderr := runCLI(t, "--data-dir", dataDir)

	assert.Equal(t, exitFailed, code)
	errLine := lastLine(stderr)
	assert.True(t, strings.HasPrefix(errLine, "error: no data available: [PARSING]"), errLine)
	assert.Equal(t, 1, strings.Count(errLine, "no data available"))
	assert.True(t, strings.HasSuffix(errLine, "(build step)"), errLine)
}

func TestRun_HeaderOnlyReviews(t *testing.T) {
	fixture := testutil.StandardFixture()
	fixture[config.ReviewsFile] = fixture[config.ReviewsFile][:1]
	dataDir := t.TempDir()
	testutil.WriteFixture(t, dataDir, fixture)

	code, stdout, stderr := runCLI(t, "--data-dir", dataDir)

	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "261.37")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return lines[len(lines)-1]
}

func TestRun_InvalidOverride(t *testing.T) {
	code, _, stderr := runCLI(t, "--satisfaction-max-days", "0")

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "config validation failed")
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	fs := newTestFlagSet(t, "--top", "2", "--verbose", "--trace")

	cfg, err := loadConfig(fs, options{top: 2, verbose: true, trace: true})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Report.TopCategories)
	assert.Equal(t, 2, cfg.Report.HighlightCategories)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Telemetry.Tracing)
	assert.Equal(t, config.DefaultDataDir, cfg.Data.Dir)
}

func newTestFlagSet(t *testing.T, args ...string) *flag.FlagSet {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Int("top", 0, "")
	fs.BoolP("verbose", "v", false, "")
	fs.Bool("trace", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}
