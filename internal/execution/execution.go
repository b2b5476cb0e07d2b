package execution

import (
	"context"
	"fmt"
	"io"
	"io/fs"
)

// Request describes one binary invocation on an execution target.
// Stderr is always merged into the captured stream.
type Request struct {
	Path   string    // binary to invoke, resolved via the target's PATH
	Args   []string  // arguments, not shell-interpreted
	Dir    string    // working directory on the target, empty for default
	Stdout io.Writer // optional live copy of the combined output
	UsePTY bool      // request a PTY/TTY when supported
}

// Result describes the outcome of an invocation that actually started.
type Result struct {
	Output   string // combined stdout+stderr
	ExitCode int
}

// Client runs commands and manages files on a local or remote target.
//
// Run returns a non-nil error only when the process could not be
// started (or was cut short by the context); a process that ran and
// exited non-zero is reported through Result.ExitCode with a nil
// error, so callers classify outcomes with ordinary branches.
type Client interface {
	Run(ctx context.Context, req Request) (Result, error)
	// Put writes data to path on the target, creating parent
	// directories as needed.
	Put(ctx context.Context, path string, data []byte, mode fs.FileMode) error
	// Fetch copies a file from the target to the local filesystem.
	Fetch(ctx context.Context, remotePath, localPath string) error
	// Remove deletes a file on the target. A missing file is not an
	// error.
	Remove(ctx context.Context, path string) error
	Close() error
}

// NotFoundError reports that the requested binary does not exist on
// the target.
type NotFoundError struct {
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("executable %q not found: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("executable %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }
