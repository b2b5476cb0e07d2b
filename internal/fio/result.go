package fio

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LatencyStats is one latency record in nanoseconds. Percentile and
// Bins only appear in fio's json+ output format.
type LatencyStats struct {
	Min        int64            `json:"min"`
	Max        int64            `json:"max"`
	Mean       float64          `json:"mean"`
	Stddev     float64          `json:"stddev"`
	N          int64            `json:"N"`
	Percentile map[string]int64 `json:"percentile,omitempty"`
	Bins       map[string]int64 `json:"bins,omitempty"`
}

// AioStats holds the per-pattern statistics fio reports for read,
// write and trim IO.
type AioStats struct {
	IoBytes     int64        `json:"io_bytes"`
	IoKBytes    int64        `json:"io_kbytes"`
	BwBytes     int64        `json:"bw_bytes"`
	Bw          int64        `json:"bw"`
	Iops        float64      `json:"iops"`
	Runtime     int64        `json:"runtime"`
	TotalIos    int64        `json:"total_ios"`
	ShortIos    int64        `json:"short_ios"`
	DropIos     int64        `json:"drop_ios"`
	SlatNs      LatencyStats `json:"slat_ns"`
	ClatNs      LatencyStats `json:"clat_ns"`
	LatNs       LatencyStats `json:"lat_ns"`
	BwMin       int64        `json:"bw_min"`
	BwMax       int64        `json:"bw_max"`
	BwAgg       float64      `json:"bw_agg"`
	BwMean      float64      `json:"bw_mean"`
	BwDev       float64      `json:"bw_dev"`
	BwSamples   int64        `json:"bw_samples"`
	IopsMin     int64        `json:"iops_min"`
	IopsMax     int64        `json:"iops_max"`
	IopsMean    float64      `json:"iops_mean"`
	IopsStddev  float64      `json:"iops_stddev"`
	IopsSamples int64        `json:"iops_samples"`
}

// SyncStats holds the statistics fio reports for synchronous IO.
type SyncStats struct {
	TotalIos int64        `json:"total_ios"`
	LatNs    LatencyStats `json:"lat_ns"`
}

// JobStats is the per-job section of a fio report.
type JobStats struct {
	JobName           string             `json:"jobname"`
	GroupID           int                `json:"groupid"`
	Error             int                `json:"error"`
	Eta               int                `json:"eta"`
	Elapsed           int                `json:"elapsed"`
	JobOptions        map[string]string  `json:"job options"`
	Read              AioStats           `json:"read"`
	Write             AioStats           `json:"write"`
	Trim              AioStats           `json:"trim"`
	Sync              SyncStats          `json:"sync"`
	JobRuntime        int64              `json:"job_runtime"`
	UsrCpu            float64            `json:"usr_cpu"`
	SysCpu            float64            `json:"sys_cpu"`
	Ctx               int64              `json:"ctx"`
	Majf              int64              `json:"majf"`
	Minf              int64              `json:"minf"`
	IoDepthLevel      map[string]float64 `json:"iodepth_level"`
	IoDepthSubmit     map[string]float64 `json:"iodepth_submit"`
	IoDepthComplete   map[string]float64 `json:"iodepth_complete"`
	LatencyNs         map[string]float64 `json:"latency_ns"`
	LatencyUs         map[string]float64 `json:"latency_us"`
	LatencyMs         map[string]float64 `json:"latency_ms"`
	LatencyDepth      int                `json:"latency_depth"`
	LatencyTarget     int64              `json:"latency_target"`
	LatencyPercentile float64            `json:"latency_percentile"`
	LatencyWindow     int64              `json:"latency_window"`
}

// DiskUtil is one entry of the optional per-device utilization list.
// The aggr_* fields only appear when fio aggregates over workers.
type DiskUtil struct {
	Name           string   `json:"name"`
	ReadIos        int64    `json:"read_ios"`
	WriteIos       int64    `json:"write_ios"`
	ReadMerges     int64    `json:"read_merges"`
	WriteMerges    int64    `json:"write_merges"`
	ReadTicks      int64    `json:"read_ticks"`
	WriteTicks     int64    `json:"write_ticks"`
	InQueue        int64    `json:"in_queue"`
	Util           float64  `json:"util"`
	AggrReadIos    *int64   `json:"aggr_read_ios,omitempty"`
	AggrWriteIos   *int64   `json:"aggr_write_ios,omitempty"`
	AggrReadMerges *int64   `json:"aggr_read_merges,omitempty"`
	AggrWriteMerge *int64   `json:"aggr_write_merge,omitempty"`
	AggrReadTicks  *int64   `json:"aggr_read_ticks,omitempty"`
	AggrWriteTicks *int64   `json:"aggr_write_ticks,omitempty"`
	AggrInQueue    *int64   `json:"aggr_in_queue,omitempty"`
	AggrUtil       *float64 `json:"aggr_util,omitempty"`
}

// Result mirrors the top level of a fio json+ report.
type Result struct {
	FioVersion    string            `json:"fio version"`
	Timestamp     int64             `json:"timestamp"`
	TimestampMs   int64             `json:"timestamp_ms"`
	Time          string            `json:"time"`
	Jobs          []JobStats        `json:"jobs"`
	GlobalOptions map[string]string `json:"global options,omitempty"`
	DiskUtil      []DiskUtil        `json:"disk_util,omitempty"`
}

// ErrorDetail carries the single diagnostic string of a failed run.
type ErrorDetail struct {
	Error string `json:"error"`
}

// Output is the discriminated result of one invocation: exactly one of
// Success or Error is set.
type Output struct {
	Success *Result      `json:"success,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// Errorf builds the error variant of an Output.
func Errorf(format string, args ...any) Output {
	return Output{Error: &ErrorDetail{Error: fmt.Sprintf(format, args...)}}
}

// DecodeResult maps a raw JSON report onto the typed Result with
// strict structural validation: unknown fields are errors.
func DecodeResult(doc []byte) (*Result, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	var r Result
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("fio report does not match the expected shape: %w", err)
	}
	return &r, nil
}
