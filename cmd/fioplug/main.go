package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "fioplug",
		Usage:   "run fio workloads from typed job definitions and collect json+ results",
		Version: version,
		Commands: []*cli.Command{
			runCommand(),
			schemaCommand(),
			paramsCommand(),
			inspectCommand(),
			plotCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
