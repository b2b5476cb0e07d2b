package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/urfave/cli/v3"

	"fioplug/internal/execution"
	"fioplug/internal/fio"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "execute the fio jobs described by an input file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"f"},
				Value:   "input.yaml",
				Usage:   "path to the job definition file (YAML or JSON)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "fio-result.json",
				Usage:   "where to write the result record (\"-\" for stdout)",
			},
			&cli.StringFlag{
				Name:  "workdir",
				Usage: "working directory for the job file and per-job artifacts",
			},
			&cli.StringFlag{
				Name:  "binary",
				Value: fio.DefaultBinary,
				Usage: "fio executable to invoke",
			},
			&cli.StringFlag{
				Name:  "host-config",
				Usage: "YAML file describing a remote host; when set, fio runs there over SSH",
			},
			&cli.BoolFlag{
				Name:  "collect",
				Usage: "fetch per-job artifacts back from a remote host after the run",
			},
			&cli.BoolFlag{
				Name:  "tty",
				Usage: "run fio under a PTY and stream its live output",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "write progress logs to this file instead of stdout",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("input"))
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}
	in, err := fio.ParseInput(data)
	if err != nil {
		return fmt.Errorf("parsing input file: %w", err)
	}

	logger, closeLog, err := newLogger(cmd.String("log"))
	if err != nil {
		return err
	}
	defer closeLog()

	client, remote, err := newClient(cmd.String("host-config"))
	if err != nil {
		return err
	}
	defer client.Close()

	runner := fio.NewRunner(client)
	runner.Binary = cmd.String("binary")
	runner.WorkDir = cmd.String("workdir")
	runner.Logger = logger
	runner.UsePTY = cmd.Bool("tty")
	if runner.UsePTY {
		runner.Stdout = os.Stdout
	}

	out := runner.Run(ctx, *in)

	if remote && cmd.Bool("collect") && !in.Cleanup {
		if err := runner.Collect(ctx, in.Jobs, "."); err != nil {
			logger.Printf("WARNING: collecting artifacts: %v", err)
		}
	}

	if err := writeOutput(cmd.String("output"), out); err != nil {
		return err
	}

	if out.Error != nil {
		return errors.New(out.Error.Error)
	}
	logger.Printf("fio run completed: %d job(s), fio version %s", len(out.Success.Jobs), out.Success.FioVersion)
	return nil
}

func newClient(hostConfigPath string) (execution.Client, bool, error) {
	if hostConfigPath == "" {
		return execution.NewLocalClient(), false, nil
	}
	data, err := os.ReadFile(hostConfigPath)
	if err != nil {
		return nil, false, fmt.Errorf("reading host config: %w", err)
	}
	var host execution.Host
	if err := yaml.UnmarshalWithOptions(data, &host, yaml.Strict()); err != nil {
		return nil, false, fmt.Errorf("parsing host config: %w", err)
	}
	client, err := execution.NewSSHClient(host)
	if err != nil {
		return nil, false, err
	}
	return client, true, nil
}

// newLogger builds the run logger: stdout by default, a file when a
// path is given.
func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(os.Stdout, "", log.LstdFlags), func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file: %w", err)
	}
	return log.New(file, "", log.LstdFlags), func() { file.Close() }, nil
}

func writeOutput(path string, out fio.Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving result: %w", err)
	}
	return nil
}
