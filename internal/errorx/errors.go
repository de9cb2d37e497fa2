package errorx

import (
	"errors"
	"fmt"
)

// CodeError is a fatal pipeline error that carries the process exit code the
// CLI should terminate with.
type CodeError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *CodeError) Error() string {
	return e.Msg
}

// Fatal conditions. Each makes the emitted artifacts unsafe for clients.
var (
	ErrFontRootMissing = &CodeError{Code: 1, Msg: "font root directory not found"}
	ErrArtifactMissing = &CodeError{Code: 1, Msg: "required build artifact is missing"}
	ErrParse           = &CodeError{Code: 1, Msg: "failed to parse font data"}
	ErrEmbeddedInput   = &CodeError{Code: 1, Msg: "font data is base64-embedded; chunking requires URL mode"}
	ErrVerification    = &CodeError{Code: 1, Msg: "chunk verification failed"}
	ErrWriteOutput     = &CodeError{Code: 1, Msg: "failed to write output"}
	ErrUnknownTarget   = &CodeError{Code: 2, Msg: "unknown build target"}
)

// Wrap attaches detail to a sentinel so errors.Is still matches it.
func Wrap(kind *CodeError, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// ExitCode maps an error to a process exit code: 0 for nil, the sentinel's
// code when one is wrapped, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 1
}
