package fio

// FieldMeta is display metadata for one job parameter, consumed by the
// schema command and embedding engines for documentation and UI
// generation. It is maintained next to, not inside, the typed records.
type FieldMeta struct {
	ID          string
	Name        string
	Unit        string
	Description string
}

// ParamMeta lists the job parameters in declaration order.
var ParamMeta = []FieldMeta{
	{
		ID:   "size",
		Name: "Size",
		Unit: "bytes",
		Description: "Total size of file I/O for each thread of this job. Fio runs " +
			"until this many bytes have been transferred, unless limited by other " +
			"options such as runtime. Accepts unit suffixes (e.g. 100KiB, 2G) and " +
			"percentages of the target file or device.",
	},
	{
		ID:   "blocksize",
		Name: "Block Size",
		Unit: "bytes",
		Description: "Block size for I/O units, default 4096. Comma-separated values " +
			"may be given for reads, writes and trims; a value not terminated in a " +
			"comma applies to subsequent types.",
	},
	{
		ID:   "blocksize_range",
		Name: "Block Size Range",
		Unit: "bytes",
		Description: "Range of block sizes for I/O units. Issued I/O units are " +
			"multiples of the minimum size unless unaligned block sizes are enabled. " +
			"Comma-separated ranges may be given per I/O type as for blocksize.",
	},
	{
		ID:   "direct",
		Name: "Direct I/O",
		Description: "Use non-buffered I/O, usually O_DIRECT. Not supported on " +
			"OpenBSD, ZFS on Solaris, or the synchronous Windows engines.",
	},
	{
		ID:   "numjobs",
		Name: "Number of Job Clones",
		Description: "Spawn this many clones of the job as independent threads or " +
			"processes, each reported separately.",
	},
	{
		ID:   "runtime",
		Name: "Job Run Time",
		Unit: "seconds",
		Description: "Limit runtime. The job runs until its configured I/O workload " +
			"completes or this much time has passed, whichever comes first. " +
			"Interpreted as seconds when the unit is omitted.",
	},
	{
		ID:   "startdelay",
		Name: "Job Start Delay",
		Unit: "seconds",
		Description: "Delay the start of the job. A range makes each thread pick a " +
			"random delay within it. Interpreted as seconds when the unit is omitted.",
	},
	{
		ID:          "ioengine",
		Name:        "IO Engine",
		Description: "Defines how the job issues I/O to the file.",
	},
	{
		ID:          "iodepth",
		Name:        "IO Depth",
		Description: "Number of I/O units to keep in flight against the file.",
	},
	{
		ID:          "rate_iops",
		Name:        "IOPS Cap",
		Unit:        "iops",
		Description: "Maximum allowed rate of I/O operations per second.",
	},
	{
		ID:          "io_submit_mode",
		Name:        "IO Submit Mode",
		Description: "Controls how fio submits I/O to the I/O engine.",
	},
	{
		ID:          "buffered",
		Name:        "Buffered",
		Description: "Use buffered I/O if true, direct I/O otherwise.",
	},
	{
		ID:          "readwrite",
		Name:        "Read/Write",
		Description: "Type of I/O pattern.",
	},
	{
		ID:          "rate_process",
		Name:        "Rate Process",
		Description: "Controls the distribution of delay between I/O submissions.",
	},
}
