package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/backmassage/linebatch/internal/analyzer"
	"github.com/backmassage/linebatch/internal/capture"
	"github.com/backmassage/linebatch/internal/config"
	"github.com/backmassage/linebatch/internal/configurator"
	"github.com/backmassage/linebatch/internal/lines"
	"github.com/backmassage/linebatch/internal/pipeline"
)

type stubSource struct{ failOpen string }

func (s stubSource) Open(_ context.Context, path string) (capture.Capture, error) {
	if filepath.Base(path) == s.failOpen {
		return nil, errors.New("moov atom not found")
	}
	return stubCapture{}, nil
}

type stubCapture struct{}

func (stubCapture) ReadFrame(context.Context) (capture.Frame, error) {
	return capture.Frame{Width: 320, Height: 240}, nil
}

func (stubCapture) Close() error { return nil }

// runSummary produces a real summary: a.mp4 succeeds, b.mp4 fails in the
// analyzer and c.mp4 cannot be opened.
func runSummary(t *testing.T) *pipeline.Summary {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	conf := configurator.Func(func(context.Context, string, capture.Frame) (lines.Set, error) {
		return lines.Set{{Label: "gate", A: lines.Point{X: 0, Y: 10}, B: lines.Point{X: 100, Y: 10}}}, nil
	})
	an := analyzer.Func(func(_ context.Context, req analyzer.Request) (analyzer.Record, error) {
		if req.Video == "b.mp4" {
			return nil, errors.New("decode error")
		}
		return analyzer.Record{"total": json.Number("9"), "fps": json.Number("29.97")}, nil
	})

	p := pipeline.New(stubSource{failOpen: "c.mp4"}, conf, an, nil)
	s, err := p.RunAutomation(context.Background(), dir, "")
	require.NoError(t, err)
	return s
}

func TestTable(t *testing.T) {
	out := Table(runSummary(t))

	assert.Contains(t, out, "VIDEO")
	assert.Contains(t, out, "a.mp4")
	assert.Contains(t, out, "fps=29.97")
	assert.Contains(t, out, "decode error")
	assert.Contains(t, out, "excluded")
	assert.Contains(t, out, "open: moov atom not found")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, config.ReportJSON, runSummary(t)))

	var doc struct {
		RunID   string                            `json:"run_id"`
		Stats   pipeline.RunStats                 `json:"stats"`
		Results map[string]map[string]interface{} `json:"results"`
		Excl    []pipeline.Exclusion              `json:"excluded"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, pipeline.RunStats{Cataloged: 3, Configured: 2, Excluded: 1, Succeeded: 1, Failed: 1}, doc.Stats)
	assert.Equal(t, float64(9), doc.Results["a.mp4"]["total"])
	assert.Equal(t, "decode error", doc.Results["b.mp4"]["error"])
	require.Len(t, doc.Excl, 1)
	assert.Equal(t, pipeline.ExcludedOpen, doc.Excl[0].Reason)

	// Results keep configuration order.
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"a.mp4"`)), bytes.Index(buf.Bytes(), []byte(`"b.mp4"`)))
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, config.ReportYAML, runSummary(t)))

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	results, ok := doc["results"].(map[string]interface{})
	require.True(t, ok)
	a, ok := results["a.mp4"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 9, a["total"])
	assert.Equal(t, 29.97, a["fps"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, config.ReportFormat("xml"), runSummary(t))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteFile(path, config.ReportJSON, runSummary(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
