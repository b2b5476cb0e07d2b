package fio

import (
	"context"
	"errors"
	"io"
	"log"
	"path"

	"fioplug/internal/execution"
)

const (
	// DefaultBinary is the expected fio executable name.
	DefaultBinary = "fio"
	// ConfigFileName is the fixed name of the generated job file,
	// placed under the runner's working directory.
	ConfigFileName = "fio-input-tmp.fio"

	outputFormatFlag = "--output-format=json+"
)

// Runner serializes an Input to a job file, invokes fio against it and
// maps the captured output to an Output record.
//
// File names are deterministic, so two overlapping invocations sharing
// a working directory race on the same paths. Callers wanting
// concurrency must give each runner its own WorkDir.
type Runner struct {
	Binary  string           // fio executable name, DefaultBinary if empty
	WorkDir string           // where the job file and per-job artifacts live
	Client  execution.Client // local or remote execution target
	Logger  *log.Logger      // run progress and fio diagnostics; nil silences
	Stdout  io.Writer        // optional live copy of fio's output
	UsePTY  bool             // run fio under a PTY (interactive progress)
}

// NewRunner returns a Runner targeting the given client with defaults.
func NewRunner(client execution.Client) *Runner {
	return &Runner{Binary: DefaultBinary, Client: client}
}

// ConfigPath returns where the generated job file is written.
func (r *Runner) ConfigPath() string {
	return path.Join(r.WorkDir, ConfigFileName)
}

// ArtifactPath returns the per-job output file fio leaves behind for a
// single-thread, single-file job.
func (r *Runner) ArtifactPath(jobName string) string {
	return path.Join(r.WorkDir, jobName+".0.0")
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// Run performs one synchronous invocation. All failure modes come back
// as the error variant of Output; Run never panics past this boundary.
// When in.Cleanup is set, the job file and every job's artifact are
// removed after the invocation whatever its outcome.
func (r *Runner) Run(ctx context.Context, in Input) Output {
	bin := r.binary()
	cfgPath := r.ConfigPath()

	defer r.maybeCleanup(ctx, in)

	body := RenderJobs(in.Jobs)
	if err := r.Client.Put(ctx, cfgPath, []byte(body), 0o644); err != nil {
		return Errorf("writing fio job file: %v", err)
	}

	r.logf("invoking %s with %d job(s)", bin, len(in.Jobs))
	// the subprocess runs with WorkDir as its cwd, so it gets the bare
	// file name; joined paths would resolve the directory twice when
	// WorkDir is relative
	res, err := r.Client.Run(ctx, execution.Request{
		Path:   bin,
		Args:   []string{ConfigFileName, outputFormatFlag},
		Dir:    r.WorkDir,
		Stdout: r.Stdout,
		UsePTY: r.UsePTY,
	})

	var notFound *execution.NotFoundError
	switch {
	case errors.As(err, &notFound) && notFound.Name == bin:
		return Errorf("missing %s executable, please install %s package", bin, bin)
	case err != nil:
		if res.Output != "" {
			return Errorf("running %s: %v\n%s", bin, err, res.Output)
		}
		return Errorf("running %s: %v", bin, err)
	case res.ExitCode != 0:
		return Errorf("%s failed with return code %d:\n%s", bin, res.ExitCode, Diagnostics(res.Output))
	}

	doc, diag, err := SplitOutput(res.Output)
	if err != nil {
		return Errorf("%s exited cleanly but produced no JSON report:\n%s", bin, diag)
	}
	// fio can complete successfully and still print informational
	// messages; surface them instead of dropping them.
	if diag != "" {
		r.logf("%s messages:\n%s", bin, diag)
	}

	result, err := DecodeResult(doc)
	if err != nil {
		return Errorf("%v", err)
	}
	return Output{Success: result}
}

// Collect fetches each job's artifact from the execution target into
// localDir. Useful after remote runs without cleanup.
func (r *Runner) Collect(ctx context.Context, jobs []Job, localDir string) error {
	var errs error
	for _, job := range jobs {
		remote := r.ArtifactPath(job.Name)
		local := path.Join(localDir, job.Name+".0.0")
		if err := r.Client.Fetch(ctx, remote, local); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (r *Runner) maybeCleanup(ctx context.Context, in Input) {
	if !in.Cleanup {
		return
	}
	// cleanup still runs when the invocation context was cancelled
	ctx = context.WithoutCancel(ctx)

	paths := []string{r.ConfigPath()}
	for _, job := range in.Jobs {
		paths = append(paths, r.ArtifactPath(job.Name))
	}

	var errs error
	for _, p := range paths {
		if err := r.Client.Remove(ctx, p); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		r.logf("cleanup: %v", errs)
	}
}
