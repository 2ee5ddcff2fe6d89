// Package report renders a finished run for people (a summary table) and
// for machines (a JSON or YAML document).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/backmassage/linebatch/internal/config"
	"github.com/backmassage/linebatch/internal/pipeline"
)

// Table renders one row per analyzed video followed by one row per video
// excluded during configuration.
func Table(s *pipeline.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Video", "Status", "Total", "Detail"})

	if s.Results != nil {
		for _, video := range s.Results.Videos() {
			o, _ := s.Results.Get(video)
			if msg, failed := o.Failure(); failed {
				tw.AppendRow(table.Row{video, "error", "", msg})
				continue
			}
			rec, _ := o.Record()
			total := "unknown"
			if v, ok := rec.Total(); ok && v != nil {
				total = fmt.Sprint(v)
			}
			tw.AppendRow(table.Row{video, "ok", total, extraFields(rec.Plain())})
		}
	}
	for _, e := range s.Excluded {
		tw.AppendRow(table.Row{e.Video, "excluded", "", fmt.Sprintf("%s: %s", e.Reason, e.Err)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 60},
	})
	return tw.Render()
}

// extraFields lists the record's scalar fields other than the total, sorted
// by key.
func extraFields(rec map[string]interface{}) string {
	keys := make([]string, 0, len(rec))
	for k, v := range rec {
		if k == "total" {
			continue
		}
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, rec[k])
	}
	return strings.Join(parts, " ")
}

// Write encodes s to w in the given format.
func Write(w io.Writer, format config.ReportFormat, s *pipeline.Summary) error {
	switch format {
	case config.ReportJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case config.ReportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile writes the report to path, replacing any existing file.
func WriteFile(path string, format config.ReportFormat, s *pipeline.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(f, format, s); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
