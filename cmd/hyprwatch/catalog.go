// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hyprwatch/lib/hyprevent"
)

// catalogEntry is the --json form of one descriptor.
type catalogEntry struct {
	Kind   string         `json:"kind"`
	Fields []catalogField `json:"fields"`
}

type catalogField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func runCatalog(args []string, stdout, stderr io.Writer) error {
	var asJSON bool
	flagSet := pflag.NewFlagSet("hyprwatch catalog", pflag.ContinueOnError)
	flagSet.BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	if err := parseFlags(flagSet, args, stderr, "hyprwatch catalog [--json]"); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return usageError("unexpected argument: %s", flagSet.Arg(0))
	}

	descriptors := hyprevent.Descriptors()
	if asJSON {
		entries := make([]catalogEntry, 0, len(descriptors))
		for _, descriptor := range descriptors {
			entry := catalogEntry{Kind: string(descriptor.Kind), Fields: []catalogField{}}
			for _, field := range descriptor.Fields {
				entry.Fields = append(entry.Fields, catalogField{Name: field.Name, Type: field.Type.String()})
			}
			entries = append(entries, entry)
		}
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	writer := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "KIND\tARITY\tFIELDS")
	for _, descriptor := range descriptors {
		fields := make([]string, 0, len(descriptor.Fields))
		for _, field := range descriptor.Fields {
			fields = append(fields, field.Name+":"+field.Type.String())
		}
		display := strings.Join(fields, ", ")
		if display == "" {
			display = "-"
		}
		fmt.Fprintf(writer, "%s\t%d\t%s\n", descriptor.Kind, descriptor.Arity(), display)
	}
	return writer.Flush()
}
