package workload

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/procsim/procsim/sim"
)

// ResultsHeader captures the run settings stored next to exported results.
type ResultsHeader struct {
	Version        int    `yaml:"results_version"`
	TraceFile      string `yaml:"trace_file,omitempty"`
	Scheduler      string `yaml:"scheduler"`
	MemoryStrategy string `yaml:"memory_strategy"`
	Quantum        int64  `yaml:"quantum"`
	MemorySize     int    `yaml:"memory_size,omitempty"`
	RealProcesses  bool   `yaml:"real_processes,omitempty"`

	Makespan        int64 `yaml:"makespan"`
	PeakMemoryUsage int   `yaml:"peak_memory_usage"`
}

// Results combines header and per-process rows for a complete run.
type Results struct {
	Header  ResultsHeader
	Records []sim.CompletionRecord
}

// ResultsVersion is written into every exported header.
const ResultsVersion = 1

// CSV column headers for the results data file.
var resultsColumns = []string{
	"process_name", "arrival_time", "service_time", "completion_time", "turnaround", "overhead",
}

// ExportResults writes the run header (YAML) and one CSV row per completed
// process to separate files. Rows keep completion order.
func ExportResults(header *ResultsHeader, records []sim.CompletionRecord, headerPath, dataPath string) error {
	headerData, err := yaml.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling results header: %w", err)
	}
	if err := os.WriteFile(headerPath, headerData, 0644); err != nil {
		return fmt.Errorf("writing results header: %w", err)
	}

	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("creating results data file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(resultsColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Name,
			strconv.FormatInt(r.ArrivalTime, 10),
			strconv.FormatInt(r.ServiceTime, 10),
			strconv.FormatInt(r.CompletionTime, 10),
			strconv.FormatInt(r.Turnaround, 10),
			strconv.FormatFloat(r.Overhead, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", r.Name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing results data: %w", err)
	}
	return nil
}

// LoadResults reads a results header (YAML, strict) and data (CSV).
func LoadResults(headerPath, dataPath string) (*Results, error) {
	headerData, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, fmt.Errorf("reading results header: %w", err)
	}
	var header ResultsHeader
	decoder := yaml.NewDecoder(bytes.NewReader(headerData))
	decoder.KnownFields(true)
	if err := decoder.Decode(&header); err != nil {
		return nil, fmt.Errorf("parsing results header: %w", err)
	}

	file, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening results data: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(resultsColumns)

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var records []sim.CompletionRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		r, err := parseResultsRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return &Results{Header: header, Records: records}, nil
}

func parseResultsRow(row []string) (sim.CompletionRecord, error) {
	r := sim.CompletionRecord{Name: row[0]}
	ints := []struct {
		column string
		dst    *int64
		raw    string
	}{
		{"arrival_time", &r.ArrivalTime, row[1]},
		{"service_time", &r.ServiceTime, row[2]},
		{"completion_time", &r.CompletionTime, row[3]},
		{"turnaround", &r.Turnaround, row[4]},
	}
	for _, f := range ints {
		v, err := strconv.ParseInt(f.raw, 10, 64)
		if err != nil {
			return r, fmt.Errorf("results row %s: invalid %s %q: %w", r.Name, f.column, f.raw, err)
		}
		*f.dst = v
	}
	overhead, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return r, fmt.Errorf("results row %s: invalid overhead %q: %w", r.Name, row[5], err)
	}
	r.Overhead = overhead
	return r, nil
}
