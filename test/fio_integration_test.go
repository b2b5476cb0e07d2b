//go:build integration

package test

import (
	"context"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fioplug/internal/execution"
	"fioplug/internal/fio"
)

const testTimeout = 60 * time.Second

func requireFio(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("fio"); err != nil {
		t.Skip("fio not installed, skipping integration test")
	}
}

func smallJob(name string) fio.Job {
	size := "64KiB"
	bs := "4KiB"
	pattern := fio.PatternRead
	engine := fio.EngineSync
	return fio.Job{
		Name: name,
		Params: fio.JobParams{
			Size:      &size,
			Blocksize: &bs,
			ReadWrite: &pattern,
			IoEngine:  &engine,
		},
	}
}

func TestLocalRun(t *testing.T) {
	requireFio(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dir := t.TempDir()
	runner := fio.NewRunner(execution.NewLocalClient())
	runner.WorkDir = dir
	runner.Logger = log.New(os.Stderr, "", log.LstdFlags)

	out := runner.Run(ctx, fio.Input{Jobs: []fio.Job{smallJob("it-seq-read")}, Cleanup: true})
	if out.Error != nil {
		t.Fatalf("run failed: %s", out.Error.Error)
	}

	res := out.Success
	if !strings.HasPrefix(res.FioVersion, "fio-") {
		t.Fatalf("fio version = %q", res.FioVersion)
	}
	if len(res.Jobs) != 1 || res.Jobs[0].JobName != "it-seq-read" {
		t.Fatalf("jobs = %+v", res.Jobs)
	}
	if res.Jobs[0].Read.IoBytes == 0 {
		t.Fatalf("expected read bytes for a read job")
	}
	// json+ percentile data drives the plot command; make sure it is there
	if len(res.Jobs[0].Read.ClatNs.Percentile) == 0 {
		t.Fatalf("expected clat percentiles in json+ output")
	}

	// cleanup removed the generated files
	if _, err := os.Stat(filepath.Join(dir, fio.ConfigFileName)); err == nil {
		t.Fatalf("job file left behind")
	}
	if _, err := os.Stat(filepath.Join(dir, "it-seq-read.0.0")); err == nil {
		t.Fatalf("artifact left behind")
	}
}

func TestLocalRun_NoCleanupKeepsArtifacts(t *testing.T) {
	requireFio(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dir := t.TempDir()
	runner := fio.NewRunner(execution.NewLocalClient())
	runner.WorkDir = dir

	out := runner.Run(ctx, fio.Input{Jobs: []fio.Job{smallJob("it-keep")}})
	if out.Error != nil {
		t.Fatalf("run failed: %s", out.Error.Error)
	}
	if _, err := os.Stat(filepath.Join(dir, "it-keep.0.0")); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}

	collected := t.TempDir()
	if err := runner.Collect(ctx, []fio.Job{smallJob("it-keep")}, collected); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, err := os.Stat(filepath.Join(collected, "it-keep.0.0")); err != nil {
		t.Fatalf("collected artifact missing: %v", err)
	}
}

func TestLocalRun_BadParameterFails(t *testing.T) {
	requireFio(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	// a size below one blocksize makes fio reject the job
	size := "1KiB"
	bs := "4KiB"
	job := fio.Job{Name: "it-bad", Params: fio.JobParams{Size: &size, Blocksize: &bs}}

	runner := fio.NewRunner(execution.NewLocalClient())
	runner.WorkDir = t.TempDir()

	out := runner.Run(ctx, fio.Input{Jobs: []fio.Job{job}, Cleanup: true})
	if out.Error == nil {
		t.Fatalf("expected error output")
	}
	if !strings.Contains(out.Error.Error, "fio failed with return code") {
		t.Fatalf("unexpected error: %s", out.Error.Error)
	}
}
