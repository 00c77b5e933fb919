package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type columnKind int

const (
	kindText columnKind = iota
	kindFloat
	kindInt
)

// importColumns are the buildings_table_2 columns a CSV header may name.
var importColumns = map[string]columnKind{
	"building_id":           kindInt,
	"uid":                   kindText,
	"slug":                  kindText,
	"title":                 kindText,
	"title_en":              kindText,
	"thumbnail_url":         kindText,
	"youtube_url":           kindText,
	"location":              kindText,
	"location_en":           kindText,
	"prefectures":           kindText,
	"prefectures_en":        kindText,
	"areas":                 kindText,
	"areas_en":              kindText,
	"building_types":        kindText,
	"building_types_en":     kindText,
	"parent_building_types": kindText,
	"structures":            kindText,
	"parent_structures":     kindText,
	"lat":                   kindFloat,
	"lng":                   kindFloat,
	"completion_years":      kindText,
	"likes":                 kindInt,
}

type csvRecords struct {
	columns []string
	rows    [][]any
	hasID   bool
}

// parseCSV reads a header row naming buildings_table_2 columns followed by data rows.
// Empty cells load as NULL; title is required.
func parseCSV(r io.Reader) (csvRecords, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return csvRecords{}, fmt.Errorf("failed to read header: %w", err)
	}

	out := csvRecords{columns: make([]string, len(header))}
	kinds := make([]columnKind, len(header))
	hasTitle := false
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		kind, ok := importColumns[name]
		if !ok {
			return csvRecords{}, fmt.Errorf("unknown column %q", h)
		}
		out.columns[i] = name
		kinds[i] = kind
		hasTitle = hasTitle || name == "title"
		out.hasID = out.hasID || name == "building_id"
	}
	if !hasTitle {
		return csvRecords{}, fmt.Errorf("header must include a title column")
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return csvRecords{}, fmt.Errorf("failed to read record: %w", err)
		}
		if len(record) != len(header) {
			return csvRecords{}, fmt.Errorf("line %d: invalid record length: %d, expected %d columns", line, len(record), len(header))
		}

		row := make([]any, len(record))
		for i, cell := range record {
			v, err := parseCell(strings.TrimSpace(cell), kinds[i])
			if err != nil {
				return csvRecords{}, fmt.Errorf("line %d: invalid %s: %w", line, out.columns[i], err)
			}
			if out.columns[i] == "title" && v == nil {
				return csvRecords{}, fmt.Errorf("line %d: title is required", line)
			}
			row[i] = v
		}
		out.rows = append(out.rows, row)
	}

	return out, nil
}

func parseCell(s string, kind columnKind) (any, error) {
	if s == "" {
		return nil, nil
	}

	switch kind {
	case kindFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%q is not a finite number", s)
		}
		return v, nil
	case kindInt:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return s, nil
	}
}
