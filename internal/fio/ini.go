package fio

import (
	"os"
	"strconv"
	"strings"
)

// iniEntry is one key=value line of a job section.
type iniEntry struct {
	key   string
	value string
}

// entries returns the non-nil parameters in declaration order, values
// rendered in their canonical fio form (booleans as 1/0, integers as
// plain decimal digits, enumerations as their literal).
func (p *JobParams) entries() []iniEntry {
	var out []iniEntry
	add := func(key, value string) {
		out = append(out, iniEntry{key: key, value: value})
	}

	if p.Size != nil {
		add("size", *p.Size)
	}
	if p.Blocksize != nil {
		add("blocksize", *p.Blocksize)
	}
	if p.BlocksizeRange != nil {
		add("blocksize_range", *p.BlocksizeRange)
	}
	if p.Direct != nil {
		add("direct", renderBool(*p.Direct))
	}
	if p.NumJobs != nil {
		add("numjobs", strconv.Itoa(*p.NumJobs))
	}
	if p.Runtime != nil {
		add("runtime", *p.Runtime)
	}
	if p.StartDelay != nil {
		add("startdelay", *p.StartDelay)
	}
	if p.IoEngine != nil {
		add("ioengine", string(*p.IoEngine))
	}
	if p.IoDepth != nil {
		add("iodepth", strconv.Itoa(*p.IoDepth))
	}
	if p.RateIops != nil {
		add("rate_iops", strconv.Itoa(*p.RateIops))
	}
	if p.IoSubmitMode != nil {
		add("io_submit_mode", string(*p.IoSubmitMode))
	}
	if p.Buffered != nil {
		add("buffered", renderBool(*p.Buffered))
	}
	if p.ReadWrite != nil {
		add("readwrite", string(*p.ReadWrite))
	}
	if p.RateProcess != nil {
		add("rate_process", string(*p.RateProcess))
	}
	return out
}

func renderBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// RenderJobs produces the INI-style job file body fio expects: one
// section per job in list order, section name = job name, no padding
// around the delimiter. A job with no set parameters renders as a bare
// section header.
func RenderJobs(jobs []Job) string {
	sections := make([]string, 0, len(jobs))
	for i := range jobs {
		var b strings.Builder
		b.WriteString("[" + jobs[i].Name + "]\n")
		for _, e := range jobs[i].Params.entries() {
			b.WriteString(e.key + "=" + e.value + "\n")
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n")
}

// WriteJobFile renders the jobs and writes the body to path.
func WriteJobFile(path string, jobs []Job) error {
	return os.WriteFile(path, []byte(RenderJobs(jobs)), 0o644)
}
