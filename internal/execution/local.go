package execution

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
)

// Local execution client for running the benchmark binary on this host.
type localClient struct{}

// NewLocalClient creates a new local execution client.
func NewLocalClient() Client {
	return &localClient{}
}

func (c *localClient) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Path) == "" {
		return Result{ExitCode: -1}, errors.New("empty binary path")
	}

	cmd := exec.CommandContext(ctx, req.Path, req.Args...)
	cmd.Dir = req.Dir

	if req.UsePTY {
		return runLocalWithPTY(cmd, req)
	}
	return runLocalMerged(cmd, req)
}

func runLocalMerged(cmd *exec.Cmd, req Request) (Result, error) {
	capture := newCaptureBuffer()
	dest := outputWriter(req.Stdout, capture)
	// one shared destination merges stderr into stdout
	cmd.Stdout = dest
	cmd.Stderr = dest

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, classifyStartError(err)
	}

	err := cmd.Wait()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		} else {
			exitCode = -1
		}
	}
	return Result{Output: capture.String(), ExitCode: exitCode}, err
}

func runLocalWithPTY(cmd *exec.Cmd, req Request) (Result, error) {
	capture := newCaptureBuffer()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return Result{ExitCode: -1}, classifyStartError(err)
	}
	defer ptmx.Close()
	if os.Stdout != nil {
		_ = pty.InheritSize(os.Stdout, ptmx)
	}

	dest := outputWriter(req.Stdout, capture)
	copyDone := make(chan struct{})
	go func() {
		_, _ = io.Copy(dest, ptmx)
		close(copyDone)
	}()

	err = cmd.Wait()
	<-copyDone

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		} else {
			exitCode = -1
		}
	}
	return Result{Output: capture.String(), ExitCode: exitCode}, err
}

// classifyStartError maps a missing-binary start failure onto
// NotFoundError so callers can branch on the error kind instead of
// string matching.
func classifyStartError(err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) && (errors.Is(execErr.Err, exec.ErrNotFound) || errors.Is(execErr.Err, fs.ErrNotExist)) {
		return &NotFoundError{Name: execErr.Name, Err: err}
	}
	return err
}

func (c *localClient) Put(_ context.Context, path string, data []byte, mode fs.FileMode) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, mode)
}

// Fetch copies a file locally (just uses cp).
func (c *localClient) Fetch(ctx context.Context, remotePath, localPath string) error {
	if remotePath == localPath {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, "cp", remotePath, localPath)
	return cmd.Run()
}

func (c *localClient) Remove(_ context.Context, path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Close closes the local client (no-op for local execution).
func (c *localClient) Close() error {
	return nil
}
