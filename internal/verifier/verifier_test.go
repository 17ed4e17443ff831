package verifier

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const referenceCSV = "Date,Description,Debit,Credit,Balance\n" +
	"01/04/2024,grocery store,1250.50,,43749.50\n" +
	"03/04/2024,salary,,50000,93749.50\n"

func withFakeRunCheck(t *testing.T, fn func(ctx context.Context, dir string) ([]byte, error)) {
	t.Helper()
	original := runCheck
	runCheck = fn
	t.Cleanup(func() { runCheck = original })
}

// writeResultCSV mimics the scratch program leaving its parsed table behind.
func writeResultCSV(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, resultFileName), []byte(content), 0o644))
}

func newTestRunner(t *testing.T) (*Runner, *agent.Session) {
	t.Helper()
	base := t.TempDir()

	pdfPath := filepath.Join(base, "sample.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))
	csvPath := filepath.Join(base, "expected.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(referenceCSV), 0o644))

	r := New(filepath.Join(base, "custom_parsers"), filepath.Join(base, ".parsercheck"), 30*time.Second, nil)
	s := agent.NewSession("ICICI", pdfPath, csvPath, 3)
	s.GeneratedCode = "package main\n\nfunc Parse(pdfPath string) (Table, error) {\n\treturn Table{}, nil\n}\n"
	return r, s
}

func TestVerifyWritesArtifactAndPasses(t *testing.T) {
	r, s := newTestRunner(t)

	var sawFiles []string
	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			sawFiles = append(sawFiles, e.Name())
		}
		writeResultCSV(t, dir, referenceCSV)
		return []byte("OK: parsed 2 rows\n"), nil
	})

	result := r.Verify(context.Background(), s)

	assert.True(t, result.Passed)
	assert.False(t, result.Skipped)
	assert.Contains(t, result.Output, "PASS: 2 rows match")

	// The durable artifact is lower-cased from the target name.
	data, err := os.ReadFile(r.ParserPath("ICICI"))
	require.NoError(t, err)
	assert.Equal(t, s.GeneratedCode, string(data))
	assert.True(t, strings.HasSuffix(r.ParserPath("ICICI"), "icici_parser.go"))

	// The scratch module carried all three files while the check ran.
	assert.ElementsMatch(t, []string{"go.mod", "harness.go", "parser.go"}, sawFiles)
}

func TestVerifyResolvesRelativeInputPaths(t *testing.T) {
	// The scratch subprocess runs with the scratch dir as cwd, so paths
	// given relative to the invocation cwd must still reach the real
	// files instead of skipping.
	base := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(base))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	require.NoError(t, os.WriteFile("sample.pdf", []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile("expected.csv", []byte(referenceCSV), 0o644))

	r := New(filepath.Join(base, "custom_parsers"), filepath.Join(base, ".parsercheck"), 30*time.Second, nil)
	s := agent.NewSession("icici", "sample.pdf", "expected.csv", 3)
	s.GeneratedCode = "package main\n"

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		harness, err := os.ReadFile(filepath.Join(dir, "harness.go"))
		require.NoError(t, err)
		assert.Contains(t, string(harness), filepath.Join(base, "sample.pdf"),
			"harness must embed the absolute PDF path")
		writeResultCSV(t, dir, referenceCSV)
		return []byte("OK: parsed 2 rows\n"), nil
	})

	result := r.Verify(context.Background(), s)

	assert.True(t, result.Passed, result.Output)
	assert.False(t, result.Skipped, "existing inputs must never skip")
}

func TestVerifyScratchRemovedRegardlessOfOutcome(t *testing.T) {
	r, s := newTestRunner(t)

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		return []byte("FAIL: Parse returned error: no rows\n"), errors.New("exit status 1")
	})

	result := r.Verify(context.Background(), s)

	assert.False(t, result.Passed)
	_, err := os.Stat(r.scratchDir)
	assert.True(t, os.IsNotExist(err), "scratch directory must be removed after the run")
}

func TestVerifySubprocessFailureCarriesOutput(t *testing.T) {
	r, s := newTestRunner(t)

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		return []byte("./parser.go:4:1: syntax error: unexpected }\n"), errors.New("exit status 1")
	})

	result := r.Verify(context.Background(), s)

	assert.False(t, result.Passed)
	assert.Contains(t, result.Output, "syntax error")
}

func TestVerifyTableMismatchFails(t *testing.T) {
	r, s := newTestRunner(t)

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		writeResultCSV(t, dir, "Date,Description,Debit,Credit,Balance\n"+
			"01/04/2024,grocery store,999,,43749.50\n"+
			"03/04/2024,salary,,50000,93749.50\n")
		return []byte("OK: parsed 2 rows\n"), nil
	})

	result := r.Verify(context.Background(), s)

	assert.False(t, result.Passed)
	assert.Contains(t, result.Output, "value mismatch")
}

func TestVerifyNumericFormattingTolerated(t *testing.T) {
	r, s := newTestRunner(t)

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		writeResultCSV(t, dir, "Date,Description,Debit,Credit,Balance\n"+
			"01/04/2024,grocery store,\"1,250.50\",,43749.5\n"+
			"03/04/2024,salary,,50000.00,93749.50\n")
		return []byte("OK: parsed 2 rows\n"), nil
	})

	result := r.Verify(context.Background(), s)

	assert.True(t, result.Passed, result.Output)
}

func TestVerifyMissingResultTableFails(t *testing.T) {
	r, s := newTestRunner(t)

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		return []byte("OK: parsed 0 rows\n"), nil
	})

	result := r.Verify(context.Background(), s)

	assert.False(t, result.Passed)
	assert.Contains(t, result.Output, "could not read parsed table")
}

func TestVerifySkipsOnMissingPDF(t *testing.T) {
	r, s := newTestRunner(t)
	require.NoError(t, os.Remove(s.SamplePDFPath))

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		t.Fatal("runCheck must not be called when an input file is missing")
		return nil, nil
	})

	result := r.Verify(context.Background(), s)

	// Missing inputs skip rather than fail, and no comparison runs.
	assert.True(t, result.Passed)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Output, "SKIP: PDF file not found")
}

func TestVerifySkipsOnMissingCSV(t *testing.T) {
	r, s := newTestRunner(t)
	require.NoError(t, os.Remove(s.SampleCSVPath))

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		t.Fatal("runCheck must not be called when an input file is missing")
		return nil, nil
	})

	result := r.Verify(context.Background(), s)

	assert.True(t, result.Passed)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Output, "SKIP: CSV file not found")
}

func TestVerifyIgnoresSkipClaimsInOutput(t *testing.T) {
	r, s := newTestRunner(t)

	// A parser printing SKIP: itself must not forge a pass; with both
	// inputs present the table comparison always runs.
	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		return []byte("SKIP: PDF file not found: sample.pdf\n"), nil
	})

	result := r.Verify(context.Background(), s)

	assert.False(t, result.Passed)
	assert.False(t, result.Skipped)
	assert.Contains(t, result.Output, "could not read parsed table")
}

func TestVerifyTimeout(t *testing.T) {
	r, s := newTestRunner(t)
	r.timeout = 20 * time.Millisecond

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	result := r.Verify(context.Background(), s)

	assert.False(t, result.Passed)
	assert.Contains(t, result.Output, "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestVerifyWriteFailureIsFailedVerification(t *testing.T) {
	base := t.TempDir()
	blocked := filepath.Join(base, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	// outputDir sits under a regular file, so the artifact write fails.
	r := New(filepath.Join(blocked, "out"), filepath.Join(base, "scratch"), time.Second, nil)
	s := agent.NewSession("icici", "sample.pdf", "expected.csv", 3)

	withFakeRunCheck(t, func(ctx context.Context, dir string) ([]byte, error) {
		t.Fatal("runCheck must not be called when the artifact write fails")
		return nil, nil
	})

	result := r.Verify(context.Background(), s)

	assert.False(t, result.Passed)
	assert.Contains(t, result.Output, "write parser file")
}

func TestCheckCommandConfiguration(t *testing.T) {
	cmd := newCheckCmd(context.Background(), t.TempDir(), "go", "run", ".")

	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid, "check must run in its own process group")
	assert.NotNil(t, cmd.Cancel, "cancel must kill the whole group")
	assert.Greater(t, cmd.WaitDelay, time.Duration(0))
}

func TestCheckCommandKillsProcessGroupOnTimeout(t *testing.T) {
	// A child that outlives its parent holds the output pipe; the group
	// kill must reach it so the wait does not block past the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := newCheckCmd(ctx, t.TempDir(), "sh", "-c", "sleep 60 & wait")

	start := time.Now()
	_, err := cmd.CombinedOutput()

	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRenderHarnessEmbedsPaths(t *testing.T) {
	src, err := renderHarness(`C:\statements\sample.pdf`)
	require.NoError(t, err)

	// The path is quoted so backslashes survive as a Go literal.
	assert.Contains(t, src, `"C:\\statements\\sample.pdf"`)
	assert.Contains(t, src, "func main()")
	assert.Contains(t, src, "type Table struct")
	assert.Contains(t, src, "func ExtractText(pdfPath string) (string, error)")
	assert.Contains(t, src, "result.csv")
}
