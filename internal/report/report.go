// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders locus calls as TSV, JSON, YAML or GFF and reads
// the TSV form back.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/zxgsy520/findPUL/pkg/types"
)

// Format names an output encoding.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatGFF  Format = "gff"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatTSV, FormatJSON, FormatYAML, FormatGFF}

// ParseFormat returns the Format named by s, case insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatTSV, FormatJSON, FormatYAML, FormatGFF:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "gff2", "gff3":
		return FormatGFF, nil
	}
	return "", fmt.Errorf("unknown output format %q (want tsv, json, yaml or gff)", s)
}

// Write encodes calls to w in format f.
func Write(w io.Writer, f Format, calls []types.LocusCall) error {
	switch f {
	case FormatTSV:
		return WriteLoci(w, calls)
	case FormatJSON:
		return WriteJSON(w, calls)
	case FormatYAML:
		return WriteYAML(w, calls)
	case FormatGFF:
		return WriteGFF(w, calls)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// WriteJSON writes calls as an indented JSON array.
func WriteJSON(w io.Writer, calls []types.LocusCall) error {
	if calls == nil {
		calls = []types.LocusCall{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(calls); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML writes calls as a YAML sequence.
func WriteYAML(w io.Writer, calls []types.LocusCall) error {
	if calls == nil {
		calls = []types.LocusCall{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(calls); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
