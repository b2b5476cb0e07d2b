package fio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func strPtr(s string) *string                { return &s }
func intPtr(i int) *int                      { return &i }
func boolPtr(b bool) *bool                   { return &b }
func enginePtr(e IoEngine) *IoEngine         { return &e }
func patternPtr(p IoPattern) *IoPattern      { return &p }
func submitPtr(m IoSubmitMode) *IoSubmitMode { return &m }
func ratePtr(r RateProcess) *RateProcess     { return &r }

func TestRenderJobs_EmptyParams(t *testing.T) {
	got := RenderJobs([]Job{{Name: "bare"}})
	if got != "[bare]\n" {
		t.Fatalf("RenderJobs() = %q, want only the section header", got)
	}
}

func TestRenderJobs_BooleanRendering(t *testing.T) {
	jobs := []Job{{
		Name: "bools",
		Params: JobParams{
			Direct:   boolPtr(true),
			Buffered: boolPtr(false),
		},
	}}

	got := RenderJobs(jobs)
	want := "[bools]\ndirect=1\nbuffered=0\n"
	if got != want {
		t.Fatalf("RenderJobs() = %q, want %q", got, want)
	}
}

func TestRenderJobs_FullSection(t *testing.T) {
	jobs := []Job{{
		Name: "poisson-rate-submit",
		Params: JobParams{
			Size:         strPtr("100KiB"),
			IoEngine:     enginePtr(EngineLibaio),
			IoDepth:      intPtr(32),
			RateIops:     intPtr(50),
			IoSubmitMode: submitPtr(SubmitOffload),
			Buffered:     boolPtr(false),
			RateProcess:  ratePtr(RatePoisson),
		},
	}}

	got := RenderJobs(jobs)
	want := strings.Join([]string{
		"[poisson-rate-submit]",
		"size=100KiB",
		"ioengine=libaio",
		"iodepth=32",
		"rate_iops=50",
		"io_submit_mode=offload",
		"buffered=0",
		"rate_process=poisson",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("RenderJobs() =\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, " = ") {
		t.Fatalf("delimiter must not be padded: %q", got)
	}
}

func TestRenderJobs_PreservesJobOrder(t *testing.T) {
	jobs := []Job{
		{Name: "second", Params: JobParams{ReadWrite: patternPtr(PatternRandRead)}},
		{Name: "first", Params: JobParams{ReadWrite: patternPtr(PatternWrite)}},
	}

	got := RenderJobs(jobs)
	want := "[second]\nreadwrite=randread\n\n[first]\nreadwrite=write\n"
	if got != want {
		t.Fatalf("RenderJobs() = %q, want %q", got, want)
	}
}

func TestWriteJobFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	jobs := []Job{{Name: "w", Params: JobParams{NumJobs: intPtr(2)}}}
	if err := WriteJobFile(path, jobs); err != nil {
		t.Fatalf("WriteJobFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading job file: %v", err)
	}
	if string(data) != "[w]\nnumjobs=2\n" {
		t.Fatalf("job file = %q", string(data))
	}
}
