// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

// Format types for output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// Data represents data formatted for table output.
type Data struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format renders reports, run lists and Data as tables. Anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case []Data:
		for _, d := range v {
			if err := f.formatTable(w, d); err != nil {
				return err
			}
		}
		return nil
	case *models.Report:
		return f.Format(w, ReportTables(v))
	case []models.Summary:
		return f.formatTable(w, RunsTable(v))
	default:
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	if data.Title != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", data.Title); err != nil {
			return err
		}
	}

	table := tablewriter.NewTable(w)
	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	return table.Render()
}

// ReportTables lays out the duplicate pairs and alerts of a report. Insights
// are left to the terminal dashboard.
func ReportTables(report *models.Report) []Data {
	dupes := Data{Title: "Duplicates", Headers: []string{"Left", "Right", "Score"}}
	for _, p := range report.Duplicates {
		dupes.Rows = append(dupes.Rows, []string{strconv.Itoa(p.Left), strconv.Itoa(p.Right), strconv.Itoa(p.Score)})
	}

	alerts := Data{Title: "Alerts", Headers: []string{"Recipient", "Subject", "Message"}}
	for _, a := range report.Alerts {
		alerts.Rows = append(alerts.Rows, []string{a.Recipient, a.Subject, a.Message})
	}

	return []Data{dupes, alerts}
}

// RunsTable lays out persisted run summaries.
func RunsTable(runs []models.Summary) Data {
	data := Data{Headers: []string{"ID", "Source", "Records", "Health", "Started"}}
	for _, r := range runs {
		data.Rows = append(data.Rows, []string{
			r.ID,
			r.Source,
			strconv.Itoa(r.RecordCount),
			strconv.Itoa(r.HealthScore),
			r.StartedAt.Local().Format(time.DateTime),
		})
	}
	return data
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// DetectFormat returns the explicit format, else table on a terminal and JSON for pipes.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	if IsTerminal() {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
	}
}
