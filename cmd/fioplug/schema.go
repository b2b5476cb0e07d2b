package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/invopop/jsonschema"
	"github.com/urfave/cli/v3"

	"fioplug/internal/fio"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "print the JSON Schema of the input or output record",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Value: "input",
				Usage: "which record to describe: input or output",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var schema *jsonschema.Schema
			switch cmd.String("type") {
			case "input":
				schema = jsonschema.Reflect(&fio.Input{})
				attachParamMeta(schema)
			case "output":
				schema = jsonschema.Reflect(&fio.Output{})
			default:
				return fmt.Errorf("unknown schema type: %s", cmd.String("type"))
			}

			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

// attachParamMeta copies the display metadata table onto the reflected
// JobParams definition so embedding engines get titled, documented
// properties.
func attachParamMeta(schema *jsonschema.Schema) {
	def, ok := schema.Definitions["JobParams"]
	if !ok || def.Properties == nil {
		return
	}
	for _, meta := range fio.ParamMeta {
		prop, ok := def.Properties.Get(meta.ID)
		if !ok {
			continue
		}
		prop.Title = meta.Name
		prop.Description = meta.Description
	}
}

func paramsCommand() *cli.Command {
	return &cli.Command{
		Name:  "params",
		Usage: "list the supported fio job parameters",
		Action: func(_ context.Context, _ *cli.Command) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tUNIT\tDESCRIPTION")
			for _, meta := range fio.ParamMeta {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meta.ID, meta.Name, meta.Unit, meta.Description)
			}
			return w.Flush()
		},
	}
}
