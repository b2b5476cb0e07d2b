package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goforj/godump"
	"github.com/urfave/cli/v3"

	"fioplug/internal/fio"
	"fioplug/internal/plot"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "summarize a saved result record",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "result",
				Aliases: []string{"r"},
				Value:   "fio-result.json",
				Usage:   "path to a saved result record",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "dump the full parsed result",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			out, err := readResult(cmd.String("result"))
			if err != nil {
				return err
			}
			if out.Error != nil {
				fmt.Printf("run failed:\n%s\n", out.Error.Error)
				return nil
			}
			fmt.Print(summarize(out.Success))
			if cmd.Bool("verbose") {
				fmt.Println(godump.DumpStr(out.Success))
			}
			return nil
		},
	}
}

func readResult(path string) (*fio.Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var out fio.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling result file: %w", err)
	}
	if out.Success == nil && out.Error == nil {
		return nil, fmt.Errorf("%s holds neither a success nor an error record", path)
	}
	return &out, nil
}

func summarize(result *fio.Result) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "fio version: %s\n", result.FioVersion)
	fmt.Fprintf(&b, "time: %s\n", result.Time)
	for i := range result.Jobs {
		job := &result.Jobs[i]
		fmt.Fprintf(&b, "job %q (group %d, error %d): elapsed %ds\n", job.JobName, job.GroupID, job.Error, job.Elapsed)
		fmt.Fprintf(&b, "  read:  %.1f iops, %d KiB/s, %d ios\n", job.Read.Iops, job.Read.Bw, job.Read.TotalIos)
		fmt.Fprintf(&b, "  write: %.1f iops, %d KiB/s, %d ios\n", job.Write.Iops, job.Write.Bw, job.Write.TotalIos)
	}
	for _, disk := range result.DiskUtil {
		fmt.Fprintf(&b, "disk %s: %.2f%% util\n", disk.Name, disk.Util)
	}
	return b.String()
}

func plotCommand() *cli.Command {
	return &cli.Command{
		Name:  "plot",
		Usage: "render a latency distribution from a saved result record",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "result",
				Aliases: []string{"r"},
				Value:   "fio-result.json",
				Usage:   "path to a saved result record",
			},
			&cli.StringFlag{
				Name:  "job",
				Usage: "job name (defaults to the first job)",
			},
			&cli.StringFlag{
				Name:  "kind",
				Value: "read",
				Usage: "IO kind: read, write or trim",
			},
			&cli.StringFlag{
				Name:  "metric",
				Value: "clat",
				Usage: "latency metric: slat, clat or lat",
			},
			&cli.StringFlag{
				Name:  "source",
				Value: "percentile",
				Usage: "data source: percentile or bins",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Value:   "latency.png",
				Usage:   "export path (.png, .svg or .pdf)",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "plot title",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			out, err := readResult(cmd.String("result"))
			if err != nil {
				return err
			}
			if out.Error != nil {
				return fmt.Errorf("cannot plot a failed run: %s", out.Error.Error)
			}
			spec := plot.Spec{
				Job:    cmd.String("job"),
				Kind:   cmd.String("kind"),
				Metric: cmd.String("metric"),
				Source: cmd.String("source"),
				Title:  cmd.String("title"),
			}
			if err := plot.Render(out.Success, spec, cmd.String("export")); err != nil {
				return err
			}
			fmt.Printf("plot saved to %s\n", cmd.String("export"))
			return nil
		},
	}
}
