// Package evidence keeps an append-only JSON Lines record of every plan the
// tool generates, so a run can later be traced back to its profile.
package evidence

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Outcome is the high-level result recorded for a run.
type Outcome string

const (
	OutcomePlanGenerated         Outcome = "plan-generated"
	OutcomePlanAndInterpretation Outcome = "plan-and-interpretation-generated"
	OutcomeIssuesDetected        Outcome = "issues-detected"
)

// TimestampLayout is the UTC, second-precision format used for Event.TS.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Event is one line of the evidence log.
type Event struct {
	TS             string   `json:"ts"`
	Service        string   `json:"service"`
	Profile        string   `json:"profile"`
	Scenarios      []string `json:"scenarios"`
	Interpretation bool     `json:"interpretation"`
	Outcome        Outcome  `json:"outcome"`
}

// NewEvent builds an event stamped with the current UTC time.
func NewEvent(service, profilePath string, scenarios []string, interpretation bool, outcome Outcome) Event {
	return newEventAt(time.Now(), service, profilePath, scenarios, interpretation, outcome)
}

func newEventAt(now time.Time, service, profilePath string, scenarios []string, interpretation bool, outcome Outcome) Event {
	if scenarios == nil {
		scenarios = []string{}
	}
	if outcome == "" {
		outcome = OutcomePlanGenerated
	}
	return Event{
		TS:             now.UTC().Format(TimestampLayout),
		Service:        service,
		Profile:        profilePath,
		Scenarios:      scenarios,
		Interpretation: interpretation,
		Outcome:        outcome,
	}
}

// Append writes event as a single line at the end of the log, creating the
// file and its parent directories when missing. Existing lines are never
// modified.
func Append(path string, event Event) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("evidence: create log directory: %w", err)
		}
	}

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("evidence: encode event: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("evidence: open log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("evidence: write event: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("evidence: close log: %w", err)
	}
	return nil
}

// Read returns every well-formed event in file order. Blank and malformed
// lines are skipped; a missing log reads as empty.
func Read(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("evidence: read log: %w", err)
	}

	events := make([]Event, 0)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		if ev.Scenarios == nil {
			ev.Scenarios = []string{}
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("evidence: scan log: %w", err)
	}
	return events, nil
}

// Filter returns the events for one service. An empty service matches all.
func Filter(events []Event, service string) []Event {
	if service == "" {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Service == service {
			out = append(out, ev)
		}
	}
	return out
}
