package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/procsim/procsim/sim"
)

// traceFields is the number of whitespace-separated fields per trace line:
// arrival_time name service_time memory_requirement
const traceFields = 4

// LoadTrace opens and parses a trace file.
func LoadTrace(path string) ([]*sim.Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseTrace(f)
}

// ParseTrace reads one process per line, in file order. Blank lines are skipped.
// Names must be unique and arrival times non-decreasing.
func ParseTrace(r io.Reader) ([]*sim.Process, error) {
	var procs []*sim.Process
	seen := make(map[string]int)
	var lastArrival int64

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, err := parseTraceLine(line)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", lineNo, err)
		}
		if prev, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("trace line %d: duplicate process name %q (first on line %d)", lineNo, p.Name, prev)
		}
		if p.ArrivalTime < lastArrival {
			return nil, fmt.Errorf("trace line %d: arrival time %d is earlier than the previous %d", lineNo, p.ArrivalTime, lastArrival)
		}
		seen[p.Name] = lineNo
		lastArrival = p.ArrivalTime
		procs = append(procs, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return procs, nil
}

func parseTraceLine(line string) (*sim.Process, error) {
	fields := strings.Fields(line)
	if len(fields) != traceFields {
		return nil, fmt.Errorf("expected %d fields, got %d", traceFields, len(fields))
	}
	arrival, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing arrival time %q: %w", fields[0], err)
	}
	if arrival < 0 {
		return nil, fmt.Errorf("arrival time must be non-negative, got %d", arrival)
	}
	name := fields[1]
	if len(name) > sim.MaxNameLength {
		return nil, fmt.Errorf("process name %q longer than %d characters", name, sim.MaxNameLength)
	}
	service, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing service time %q: %w", fields[2], err)
	}
	if service <= 0 {
		return nil, fmt.Errorf("service time must be positive, got %d", service)
	}
	memory, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("parsing memory requirement %q: %w", fields[3], err)
	}
	if memory < 0 {
		return nil, fmt.Errorf("memory requirement must be non-negative, got %d", memory)
	}
	return sim.NewProcess(name, arrival, service, memory), nil
}
