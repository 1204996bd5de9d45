package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/leafview/internal/geo"
	"github.com/woozymasta/leafview/internal/view"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input  string `short:"i" long:"in" description:"Input file path (JSON or YAML descriptors). Reads from stdin if empty"`
	Output string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Indent bool   `short:"I" long:"indent" description:"Indent JSON output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Read Input
	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	doc, err := view.ParseDocument(inputData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing descriptors: %v\n", err)
		os.Exit(1)
	}

	fc, err := geo.Convert(doc.Geometries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting descriptors: %v\n", err)
		os.Exit(1)
	}

	outputData, err := marshal(fc, opts.Format, opts.Indent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d geometries to %s (format: %s)\n", len(fc.Features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

func marshal(fc geo.Collection, format string, indent bool) ([]byte, error) {
	data, err := fc.JSON()
	if err != nil {
		return nil, err
	}

	if format == "yaml" {
		// features carry orb geometries, so go through the JSON form
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	}

	if indent {
		return json.MarshalIndent(fc, "", "  ")
	}
	return data, nil
}
