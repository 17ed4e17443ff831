// Package agenterror defines the typed errors used across the parser agent.
package agenterror

import "fmt"

// ConfigError represents a fatal configuration problem, such as a missing
// credential or an unsupported provider. It is raised before the first
// iteration and is never recovered by the loop.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Setting, e.Reason)
}

// GenerationError represents a model call failure. The loop recovers it
// locally by treating the response as empty.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// AnalysisError represents a document analysis failure. It is carried inside
// the analysis result rather than propagated, so prompt construction can
// proceed with degraded context.
type AnalysisError struct {
	FilePath string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("document analysis failed for '%s': %v", e.FilePath, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// VerificationError represents a failure to even run a verification attempt
// (I/O problems writing the parser or check files). It is reported as a
// failed verification, not a crash.
type VerificationError struct {
	Stage string
	Err   error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification %s failed: %v", e.Stage, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}
