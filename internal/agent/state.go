// Package agent implements the bounded generate-verify-feedback loop that
// drives parser synthesis.
package agent

import "fmt"

// Status is the terminal outcome of a loop run.
type Status int

const (
	// StatusIterating means the loop has not reached a terminal state.
	StatusIterating Status = iota
	// StatusSucceeded means a generated parser passed verification.
	StatusSucceeded
	// StatusExhausted means the iteration budget ran out without success.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusIterating:
		return "iterating"
	case StatusSucceeded:
		return "succeeded"
	case StatusExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Session is the loop state for one invocation of the tool. It is mutated
// only by the control loop; the synthesizers and the verifier read it.
// Nothing in it outlives the process.
type Session struct {
	TargetBank    string
	SamplePDFPath string
	SampleCSVPath string

	GeneratedCode string
	TestResults   string
	ErrorFeedback string

	Iteration     int
	MaxIterations int
	ParserReady   bool
}

// NewSession creates the state for one run of the loop.
func NewSession(targetBank, pdfPath, csvPath string, maxIterations int) *Session {
	return &Session{
		TargetBank:    targetBank,
		SamplePDFPath: pdfPath,
		SampleCSVPath: csvPath,
		MaxIterations: maxIterations,
	}
}
