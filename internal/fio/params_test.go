package fio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseInput_Fixture(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "poisson-rate-submit-input.yaml"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	in, err := ParseInput(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(in.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(in.Jobs))
	}
	job := in.Jobs[0]
	if job.Name != "poisson-rate-submit" {
		t.Fatalf("job name = %q", job.Name)
	}
	if job.Params.Size == nil || *job.Params.Size != "100KiB" {
		t.Fatalf("size not parsed: %+v", job.Params.Size)
	}
	if job.Params.IoDepth == nil || *job.Params.IoDepth != 32 {
		t.Fatalf("iodepth not parsed: %+v", job.Params.IoDepth)
	}
	if job.Params.RateProcess == nil || *job.Params.RateProcess != RatePoisson {
		t.Fatalf("rate_process not parsed: %+v", job.Params.RateProcess)
	}
	if !in.Cleanup {
		t.Fatalf("expected cleanup to be set")
	}
}

func TestParseInput_RejectsUnknownFields(t *testing.T) {
	input := "jobs:\n  - name: j\n    params:\n      iodepth: 4\n      no_such_option: 1\n"
	if _, err := ParseInput([]byte(input)); err == nil {
		t.Fatalf("expected strict decoding to reject unknown field")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      Input
		wantErr string
	}{
		{
			name:    "no jobs",
			in:      Input{},
			wantErr: "jobs must be non-empty",
		},
		{
			name:    "empty job name",
			in:      Input{Jobs: []Job{{Name: "  "}}},
			wantErr: "jobs[0].name must be set",
		},
		{
			name: "short size",
			in: Input{Jobs: []Job{{
				Name:   "j",
				Params: JobParams{Size: strPtr("4")},
			}}},
			wantErr: "jobs[0].params.size must be at least 2 characters",
		},
		{
			name: "bad size grammar",
			in: Input{Jobs: []Job{{
				Name:   "j",
				Params: JobParams{Size: strPtr("lots")},
			}}},
			wantErr: "invalid size value",
		},
		{
			name: "bad runtime grammar",
			in: Input{Jobs: []Job{{
				Name:   "j",
				Params: JobParams{Runtime: strPtr("soon")},
			}}},
			wantErr: "invalid duration",
		},
		{
			name: "bad engine",
			in: Input{Jobs: []Job{{
				Name:   "j",
				Params: JobParams{IoEngine: enginePtr("uring-of-power")},
			}}},
			wantErr: "ioengine must be one of",
		},
		{
			name: "bad pattern",
			in: Input{Jobs: []Job{{
				Name:   "j",
				Params: JobParams{ReadWrite: patternPtr("backwards")},
			}}},
			wantErr: "readwrite must be one of",
		},
		{
			name: "zero iodepth",
			in: Input{Jobs: []Job{{
				Name:   "j",
				Params: JobParams{IoDepth: intPtr(0)},
			}}},
			wantErr: "iodepth must be >= 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidate_AcceptsTypicalValues(t *testing.T) {
	in := Input{Jobs: []Job{{
		Name: "typical",
		Params: JobParams{
			Size:         strPtr("2G"),
			Blocksize:    strPtr("4k,8k"),
			Runtime:      strPtr("15s"),
			StartDelay:   strPtr("1-5"),
			IoEngine:     enginePtr(EnginePsync),
			ReadWrite:    patternPtr(PatternRandRW),
			IoSubmitMode: submitPtr(SubmitInline),
			RateProcess:  ratePtr(RateLinear),
			NumJobs:      intPtr(4),
			IoDepth:      intPtr(64),
			Direct:       boolPtr(true),
		},
	}}}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestIoEngineIsSync(t *testing.T) {
	if !EngineSync.IsSync() || !EnginePsync.IsSync() {
		t.Fatalf("sync engines must report IsSync")
	}
	if EngineLibaio.IsSync() || EngineWindowsAio.IsSync() {
		t.Fatalf("async engines must not report IsSync")
	}
}
