// Package verifier executes generated parser code against the sample pair.
// Generated code is untrusted: it is never loaded in-process, always run as
// a separate OS process under a hard wall-clock timeout.
package verifier

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/agent"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/agenterror"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/fileutils"
	"github.com/jadhavsanket-07/Bank-Statement-Parser-Agent/internal/logging"
)

// DefaultScratchDir is where the transient check program lives during a
// verification. It is removed after every run.
const DefaultScratchDir = ".parsercheck"

const scratchGoMod = "module parsercheck\n\ngo 1.21\n"

// checkWaitDelay bounds how long we wait for output pipes to close after
// the context fires, in case a process escapes the group kill.
const checkWaitDelay = 5 * time.Second

// newCheckCmd prepares a subprocess whose entire process group dies with
// the context. `go run` re-execs the built binary as a child; killing only
// the wrapper would leave that child holding the output pipe and block the
// wait past the timeout.
func newCheckCmd(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = checkWaitDelay
	return cmd
}

// runCheck is a variable so tests can substitute the subprocess invocation.
var runCheck = func(ctx context.Context, dir string) ([]byte, error) {
	return newCheckCmd(ctx, dir, "go", "run", ".").CombinedOutput()
}

// Runner implements agent.Verifier.
type Runner struct {
	outputDir  string
	scratchDir string
	timeout    time.Duration
	log        logging.Logger
}

// New creates a Runner. outputDir receives the durable parser artifact;
// scratchDir (DefaultScratchDir when empty) holds the transient check
// program.
func New(outputDir, scratchDir string, timeout time.Duration, log logging.Logger) *Runner {
	if scratchDir == "" {
		scratchDir = DefaultScratchDir
	}
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &Runner{
		outputDir:  outputDir,
		scratchDir: scratchDir,
		timeout:    timeout,
		log:        log,
	}
}

// ParserPath returns the deterministic artifact path for a target.
func (r *Runner) ParserPath(targetBank string) string {
	return filepath.Join(r.outputDir, strings.ToLower(targetBank)+"_parser.go")
}

// Verify persists the session's generated code, runs the check program
// against the sample pair, and reports the outcome. I/O problems and
// timeouts are reported as failed verifications, never as crashes.
func (r *Runner) Verify(ctx context.Context, s *agent.Session) agent.VerifyResult {
	parserFile := r.ParserPath(s.TargetBank)
	if err := fileutils.WriteFile(parserFile, []byte(s.GeneratedCode), 0o644); err != nil {
		verr := &agenterror.VerificationError{Stage: "write parser file", Err: err}
		return agent.VerifyResult{Output: verr.Error()}
	}
	r.log.Debug("wrote parser artifact",
		logging.Field{Key: logging.FieldFile, Value: parserFile})

	// The scratch subprocess runs with the scratch dir as its working
	// directory, so session paths must be absolute before they are
	// rendered into the check program.
	pdfPath, err := filepath.Abs(s.SamplePDFPath)
	if err != nil {
		verr := &agenterror.VerificationError{Stage: "resolve PDF path", Err: err}
		return agent.VerifyResult{Output: verr.Error()}
	}
	csvPath, err := filepath.Abs(s.SampleCSVPath)
	if err != nil {
		verr := &agenterror.VerificationError{Stage: "resolve CSV path", Err: err}
		return agent.VerifyResult{Output: verr.Error()}
	}

	// Missing inputs skip rather than fail. The verifier decides this
	// itself; subprocess output is untrusted and never short-circuits
	// the comparison.
	if !fileutils.FileExists(pdfPath) {
		return agent.VerifyResult{Passed: true, Skipped: true,
			Output: fmt.Sprintf("SKIP: PDF file not found: %s", s.SamplePDFPath)}
	}
	if !fileutils.FileExists(csvPath) {
		return agent.VerifyResult{Passed: true, Skipped: true,
			Output: fmt.Sprintf("SKIP: CSV file not found: %s", s.SampleCSVPath)}
	}

	if err := r.writeScratch(s.GeneratedCode, pdfPath); err != nil {
		verr := &agenterror.VerificationError{Stage: "write check program", Err: err}
		return agent.VerifyResult{Output: verr.Error()}
	}
	defer func() {
		if err := os.RemoveAll(r.scratchDir); err != nil {
			r.log.WithError(err).Warn("failed to remove scratch directory",
				logging.Field{Key: logging.FieldFile, Value: r.scratchDir})
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	output, err := runCheck(runCtx, r.scratchDir)
	text := strings.TrimSpace(string(output))

	if runCtx.Err() == context.DeadlineExceeded {
		return agent.VerifyResult{
			Output: fmt.Sprintf("verification timed out after %s\n%s", r.timeout, text),
		}
	}

	if err != nil {
		if text == "" {
			text = fmt.Sprintf("check execution failed: %v", err)
		}
		return agent.VerifyResult{Output: text}
	}

	got, lerr := LoadCSVTable(filepath.Join(r.scratchDir, resultFileName))
	if lerr != nil {
		return agent.VerifyResult{Output: fmt.Sprintf("%s\nFAIL: could not read parsed table: %v", text, lerr)}
	}
	want, lerr := LoadCSVTable(csvPath)
	if lerr != nil {
		return agent.VerifyResult{Output: fmt.Sprintf("%s\nFAIL: could not read reference CSV: %v", text, lerr)}
	}
	if cerr := CompareTables(got, want); cerr != nil {
		return agent.VerifyResult{Output: fmt.Sprintf("%s\nFAIL: %v", text, cerr)}
	}

	return agent.VerifyResult{
		Passed: true,
		Output: fmt.Sprintf("%s\nPASS: %d rows match", text, len(want.Rows)),
	}
}

// writeScratch lays the check module out fresh for this attempt. pdfPath
// must already be absolute.
func (r *Runner) writeScratch(code, pdfPath string) error {
	if err := os.RemoveAll(r.scratchDir); err != nil {
		return fmt.Errorf("cleaning scratch directory: %w", err)
	}

	harness, err := renderHarness(pdfPath)
	if err != nil {
		return err
	}

	files := map[string]string{
		"go.mod":     scratchGoMod,
		"harness.go": harness,
		"parser.go":  code,
	}
	for name, content := range files {
		if err := fileutils.WriteFile(filepath.Join(r.scratchDir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
