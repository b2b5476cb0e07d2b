package fio

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

// IoPattern is the fio readwrite option.
type IoPattern string

const (
	PatternRead      IoPattern = "read"
	PatternWrite     IoPattern = "write"
	PatternRandRead  IoPattern = "randread"
	PatternRandWrite IoPattern = "randwrite"
	PatternRW        IoPattern = "rw"
	PatternReadWrite IoPattern = "readwrite"
	PatternRandRW    IoPattern = "randrw"
)

// RateProcess controls the distribution of delay between IO submissions.
type RateProcess string

const (
	RateLinear  RateProcess = "linear"
	RatePoisson RateProcess = "poisson"
)

// IoSubmitMode controls how fio submits IO to the IO engine.
type IoSubmitMode string

const (
	SubmitInline  IoSubmitMode = "inline"
	SubmitOffload IoSubmitMode = "offload"
)

// IoEngine defines how a job issues IO to the file.
type IoEngine string

const (
	EngineSync       IoEngine = "sync"
	EnginePsync      IoEngine = "psync"
	EngineLibaio     IoEngine = "libaio"
	EngineWindowsAio IoEngine = "windowsaio"
)

// IsSync reports whether the engine issues IO synchronously.
func (e IoEngine) IsSync() bool {
	return e == EngineSync || e == EnginePsync
}

var ioPatterns = map[IoPattern]struct{}{
	PatternRead: {}, PatternWrite: {}, PatternRandRead: {}, PatternRandWrite: {},
	PatternRW: {}, PatternReadWrite: {}, PatternRandRW: {},
}

var rateProcesses = map[RateProcess]struct{}{
	RateLinear: {}, RatePoisson: {},
}

var ioSubmitModes = map[IoSubmitMode]struct{}{
	SubmitInline: {}, SubmitOffload: {},
}

var ioEngines = map[IoEngine]struct{}{
	EngineSync: {}, EnginePsync: {}, EngineLibaio: {}, EngineWindowsAio: {},
}

// JobParams holds the supported fio job options. A nil field is omitted
// from the generated job file so fio applies its own default.
type JobParams struct {
	Size           *string       `yaml:"size,omitempty" json:"size,omitempty"`
	Blocksize      *string       `yaml:"blocksize,omitempty" json:"blocksize,omitempty"`
	BlocksizeRange *string       `yaml:"blocksize_range,omitempty" json:"blocksize_range,omitempty"`
	Direct         *bool         `yaml:"direct,omitempty" json:"direct,omitempty"`
	NumJobs        *int          `yaml:"numjobs,omitempty" json:"numjobs,omitempty"`
	Runtime        *string       `yaml:"runtime,omitempty" json:"runtime,omitempty"`
	StartDelay     *string       `yaml:"startdelay,omitempty" json:"startdelay,omitempty"`
	IoEngine       *IoEngine     `yaml:"ioengine,omitempty" json:"ioengine,omitempty"`
	IoDepth        *int          `yaml:"iodepth,omitempty" json:"iodepth,omitempty"`
	RateIops       *int          `yaml:"rate_iops,omitempty" json:"rate_iops,omitempty"`
	IoSubmitMode   *IoSubmitMode `yaml:"io_submit_mode,omitempty" json:"io_submit_mode,omitempty"`
	Buffered       *bool         `yaml:"buffered,omitempty" json:"buffered,omitempty"`
	ReadWrite      *IoPattern    `yaml:"readwrite,omitempty" json:"readwrite,omitempty"`
	RateProcess    *RateProcess  `yaml:"rate_process,omitempty" json:"rate_process,omitempty"`
}

// Job is one named benchmark workload definition.
type Job struct {
	Name   string    `yaml:"name" json:"name"`
	Params JobParams `yaml:"params" json:"params"`
}

// Input is the request record consumed by one invocation: a job list
// plus a flag requesting removal of generated files afterwards.
type Input struct {
	Jobs    []Job `yaml:"jobs" json:"jobs"`
	Cleanup bool  `yaml:"cleanup,omitempty" json:"cleanup,omitempty"`
}

// ParseInput decodes an Input from YAML (or JSON, which is a YAML
// subset) using strict decoding, then validates it.
func ParseInput(data []byte) (*Input, error) {
	var in Input
	if err := yaml.UnmarshalWithOptions(data, &in, yaml.Strict()); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

var (
	// size grammar: number with optional binary/decimal unit suffix,
	// percentage, or zone count ("z" in ZBD mode)
	sizeRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?([kKmMgGtTpP](i?[bB])?|%|z)?$`)
	// duration grammar: number with optional time unit suffix; a range
	// ("1-5") is allowed where fio accepts one
	durationRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(us|ms|s|m|h|d)?$`)
	rangeRe    = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(us|ms|s|m|h|d)?(-[0-9]+(\.[0-9]+)?(us|ms|s|m|h|d)?)?$`)
)

// Validate checks per-field constraints. It returns all violations
// joined in one error, in the style of config validation everywhere
// else in this codebase.
func (in *Input) Validate() error {
	var errs []string

	if len(in.Jobs) == 0 {
		errs = append(errs, "jobs must be non-empty")
	}
	for i := range in.Jobs {
		job := &in.Jobs[i]
		if strings.TrimSpace(job.Name) == "" {
			errs = append(errs, fmt.Sprintf("jobs[%d].name must be set", i))
		}
		errs = append(errs, job.Params.validate(fmt.Sprintf("jobs[%d].params", i))...)
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (p *JobParams) validate(prefix string) []string {
	var errs []string

	checkSize := func(field string, v *string) {
		if v == nil {
			return
		}
		if len(*v) < 2 {
			errs = append(errs, fmt.Sprintf("%s.%s must be at least 2 characters", prefix, field))
			return
		}
		// comma-separated per-type values are allowed (reads,writes,trims)
		for part := range strings.SplitSeq(*v, ",") {
			if part != "" && !sizeRe.MatchString(part) && !strings.Contains(part, "-") {
				errs = append(errs, fmt.Sprintf("%s.%s has invalid size value %q", prefix, field, part))
			}
		}
	}

	checkSize("size", p.Size)
	checkSize("blocksize", p.Blocksize)
	checkSize("blocksize_range", p.BlocksizeRange)

	if p.Runtime != nil && !durationRe.MatchString(*p.Runtime) {
		errs = append(errs, fmt.Sprintf("%s.runtime has invalid duration %q", prefix, *p.Runtime))
	}
	if p.StartDelay != nil && !rangeRe.MatchString(*p.StartDelay) {
		errs = append(errs, fmt.Sprintf("%s.startdelay has invalid duration %q", prefix, *p.StartDelay))
	}
	if p.NumJobs != nil && *p.NumJobs < 1 {
		errs = append(errs, fmt.Sprintf("%s.numjobs must be >= 1", prefix))
	}
	if p.IoDepth != nil && *p.IoDepth < 1 {
		errs = append(errs, fmt.Sprintf("%s.iodepth must be >= 1", prefix))
	}
	if p.RateIops != nil && *p.RateIops < 1 {
		errs = append(errs, fmt.Sprintf("%s.rate_iops must be >= 1", prefix))
	}
	if p.IoEngine != nil {
		if _, ok := ioEngines[*p.IoEngine]; !ok {
			errs = append(errs, fmt.Sprintf("%s.ioengine must be one of [sync, psync, libaio, windowsaio]", prefix))
		}
	}
	if p.IoSubmitMode != nil {
		if _, ok := ioSubmitModes[*p.IoSubmitMode]; !ok {
			errs = append(errs, fmt.Sprintf("%s.io_submit_mode must be one of [inline, offload]", prefix))
		}
	}
	if p.ReadWrite != nil {
		if _, ok := ioPatterns[*p.ReadWrite]; !ok {
			errs = append(errs, fmt.Sprintf("%s.readwrite must be one of [read, write, randread, randwrite, rw, readwrite, randrw]", prefix))
		}
	}
	if p.RateProcess != nil {
		if _, ok := rateProcesses[*p.RateProcess]; !ok {
			errs = append(errs, fmt.Sprintf("%s.rate_process must be one of [linear, poisson]", prefix))
		}
	}

	return errs
}
