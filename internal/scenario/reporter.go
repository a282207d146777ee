package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Reporter formats scenario results.
type Reporter interface {
	// Report writes one scenario result.
	Report(result *Result)

	// Summary writes totals over all reported results.
	Summary()
}

// TextReporter writes human-readable results.
type TextReporter struct {
	writer  io.Writer
	verbose bool

	passed int
	failed int
}

// NewTextReporter creates a text reporter. Verbose output lists every step.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	return &TextReporter{writer: w, verbose: verbose}
}

// Report writes one result.
func (r *TextReporter) Report(result *Result) {
	status := "PASS"
	if result.Passed {
		r.passed++
	} else {
		status = "FAIL"
		r.failed++
	}

	fmt.Fprintf(r.writer, "[%s] %s (%s)\n",
		status, result.Scenario.Name, result.Duration.Round(time.Microsecond))
	if !result.Passed && result.Error != nil {
		fmt.Fprintf(r.writer, "       Error: %v\n", result.Error)
	}

	if !r.verbose {
		return
	}
	for _, sr := range result.Steps {
		stepStatus := "PASS"
		if !sr.Passed {
			stepStatus = "FAIL"
		}
		fmt.Fprintf(r.writer, "    [%s] Step %d: %s\n", stepStatus, sr.Index+1, sr.Step.Action)
		if sr.Step.Description != "" {
			fmt.Fprintf(r.writer, "           %s\n", sr.Step.Description)
		}
		for _, c := range sr.Checks {
			checkStatus := "OK"
			if !c.Passed {
				checkStatus = "FAILED"
			}
			fmt.Fprintf(r.writer, "           [%s] %s: %v\n", checkStatus, c.Key, c.Actual)
		}
	}
}

// Summary writes pass and fail totals.
func (r *TextReporter) Summary() {
	fmt.Fprintf(r.writer, "\n--- Summary ---\n")
	fmt.Fprintf(r.writer, "Total:   %d\n", r.passed+r.failed)
	fmt.Fprintf(r.writer, "Passed:  %d\n", r.passed)
	fmt.Fprintf(r.writer, "Failed:  %d\n", r.failed)
}

// JSONReporter writes one JSON object per result.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a JSON reporter.
func NewJSONReporter(w io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{writer: w, pretty: pretty}
}

// JSONResult is the JSON representation of a scenario result.
type JSONResult struct {
	Name     string     `json:"name"`
	File     string     `json:"file,omitempty"`
	RunID    string     `json:"run_id"`
	Status   string     `json:"status"`
	Duration string     `json:"duration"`
	Error    string     `json:"error,omitempty"`
	Steps    []JSONStep `json:"steps,omitempty"`
}

// JSONStep is the JSON representation of a step result.
type JSONStep struct {
	Index  int         `json:"index"`
	Action string      `json:"action"`
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Checks []JSONCheck `json:"checks,omitempty"`
}

// JSONCheck is the JSON representation of a check.
type JSONCheck struct {
	Key      string `json:"key"`
	Passed   bool   `json:"passed"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
}

// Report writes one result.
func (r *JSONReporter) Report(result *Result) {
	jr := JSONResult{
		Name:     result.Scenario.Name,
		File:     result.Scenario.File,
		RunID:    result.RunID,
		Status:   statusName(result.Passed),
		Duration: result.Duration.String(),
	}
	if result.Error != nil {
		jr.Error = result.Error.Error()
	}
	for _, sr := range result.Steps {
		js := JSONStep{
			Index:  sr.Index,
			Action: sr.Step.Action,
			Status: statusName(sr.Passed),
		}
		if sr.Error != nil {
			js.Error = sr.Error.Error()
		}
		for _, c := range sr.Checks {
			js.Checks = append(js.Checks, JSONCheck{
				Key:      c.Key,
				Passed:   c.Passed,
				Expected: c.Expected,
				Actual:   c.Actual,
			})
		}
		jr.Steps = append(jr.Steps, js)
	}
	r.writeJSON(jr)
}

// Summary does nothing; every result is self-contained.
func (r *JSONReporter) Summary() {}

func (r *JSONReporter) writeJSON(v any) {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		fmt.Fprintf(r.writer, `{"error": "failed to marshal: %s"}`, err)
		return
	}

	fmt.Fprintln(r.writer, string(data))
}

func statusName(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
