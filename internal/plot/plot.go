package plot

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fioplug/internal/fio"
)

// Spec selects which latency series of a result to render.
type Spec struct {
	Job    string // job name; empty means the first job
	Kind   string // read, write or trim
	Metric string // slat, clat or lat
	Source string // percentile or bins
	Title  string
}

// Default plot settings
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var DefaultLineColor = color.RGBA{R: 255, A: 255}

// Render draws the selected latency series as a line plot and saves it
// to exportPath (format chosen by extension: .png, .svg, .pdf).
func Render(result *fio.Result, spec Spec, exportPath string) error {
	job, err := findJob(result, spec.Job)
	if err != nil {
		return err
	}
	stats, err := findLatency(job, spec)
	if err != nil {
		return err
	}

	var points plotter.XYs
	var xLabel string
	switch spec.Source {
	case "", "percentile":
		points, err = percentilePoints(stats)
		xLabel = "percentile"
	case "bins":
		points, err = binPoints(stats)
		xLabel = "latency (ns)"
	default:
		return fmt.Errorf("unsupported plot source: %s", spec.Source)
	}
	if err != nil {
		return err
	}

	p := gonumplot.New()
	p.Title.Text = spec.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("%s %s latency", job.JobName, kindOrDefault(spec.Kind))
	}
	p.X.Label.Text = xLabel
	if spec.Source == "bins" {
		p.Y.Label.Text = "samples"
	} else {
		p.Y.Label.Text = "latency (ns)"
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = DefaultLineColor
	p.Add(line)

	if err := os.MkdirAll(filepath.Dir(exportPath), 0o755); err != nil {
		return err
	}
	return p.Save(DefaultWidth, DefaultHeight, exportPath)
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return "read"
	}
	return kind
}

func findJob(result *fio.Result, name string) (*fio.JobStats, error) {
	if len(result.Jobs) == 0 {
		return nil, errors.New("result contains no jobs")
	}
	if name == "" {
		return &result.Jobs[0], nil
	}
	for i := range result.Jobs {
		if result.Jobs[i].JobName == name {
			return &result.Jobs[i], nil
		}
	}
	return nil, fmt.Errorf("job %q not found in result", name)
}

func findLatency(job *fio.JobStats, spec Spec) (*fio.LatencyStats, error) {
	var aio *fio.AioStats
	switch kindOrDefault(spec.Kind) {
	case "read":
		aio = &job.Read
	case "write":
		aio = &job.Write
	case "trim":
		aio = &job.Trim
	default:
		return nil, fmt.Errorf("unsupported IO kind: %s", spec.Kind)
	}

	switch spec.Metric {
	case "slat":
		return &aio.SlatNs, nil
	case "", "clat":
		return &aio.ClatNs, nil
	case "lat":
		return &aio.LatNs, nil
	default:
		return nil, fmt.Errorf("unsupported latency metric: %s", spec.Metric)
	}
}

// percentilePoints turns the percentile map (percentile string ->
// latency ns) into an ordered curve.
func percentilePoints(stats *fio.LatencyStats) (plotter.XYs, error) {
	if len(stats.Percentile) == 0 {
		return nil, errors.New("result has no percentile data (was fio run with --output-format=json+?)")
	}
	return sortedPoints(stats.Percentile)
}

// binPoints turns the json+ bins map (latency ns -> sample count) into
// an ordered curve.
func binPoints(stats *fio.LatencyStats) (plotter.XYs, error) {
	if len(stats.Bins) == 0 {
		return nil, errors.New("result has no histogram bins (was fio run with --output-format=json+?)")
	}
	return sortedPoints(stats.Bins)
}

func sortedPoints(m map[string]int64) (plotter.XYs, error) {
	points := make(plotter.XYs, 0, len(m))
	for k, v := range m {
		x, err := strconv.ParseFloat(strings.TrimPrefix(k, ">="), 64)
		if err != nil {
			continue // skip open-ended keys that are not plain numbers
		}
		points = append(points, plotter.XY{X: x, Y: float64(v)})
	}
	if len(points) == 0 {
		return nil, errors.New("no numeric data points found")
	}
	sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })
	return points, nil
}
