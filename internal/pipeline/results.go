package pipeline

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/backmassage/linebatch/internal/analyzer"
	"github.com/backmassage/linebatch/internal/lines"
)

// ExclusionReason says why a cataloged video never got a configuration.
type ExclusionReason string

const (
	ExcludedOpen  ExclusionReason = "open"  // The capture source could not open the file.
	ExcludedFrame ExclusionReason = "frame" // The file opened but the first frame could not be read.
)

// Exclusion records a video dropped during the configuration phase.
type Exclusion struct {
	Video  string          `json:"video" yaml:"video"`
	Reason ExclusionReason `json:"reason" yaml:"reason"`
	Err    string          `json:"error" yaml:"error"`
}

// Configurations maps each successfully configured video to its lines,
// preserving the order in which videos were configured.
type Configurations struct {
	videos   []string
	lines    map[string]lines.Set
	excluded []Exclusion
}

func newConfigurations() *Configurations {
	return &Configurations{lines: make(map[string]lines.Set)}
}

func (c *Configurations) set(video string, set lines.Set) {
	if _, ok := c.lines[video]; !ok {
		c.videos = append(c.videos, video)
	}
	c.lines[video] = set
}

func (c *Configurations) exclude(e Exclusion) {
	c.excluded = append(c.excluded, e)
}

// Len returns the number of configured videos.
func (c *Configurations) Len() int { return len(c.videos) }

// Videos returns the configured videos in configuration order.
func (c *Configurations) Videos() []string {
	return append([]string(nil), c.videos...)
}

// Lines returns the lines configured for video.
func (c *Configurations) Lines(video string) (lines.Set, bool) {
	set, ok := c.lines[video]
	return set, ok
}

// Excluded returns the videos dropped during configuration, in catalog order.
func (c *Configurations) Excluded() []Exclusion {
	return append([]Exclusion{}, c.excluded...)
}

// Outcome is the result of analyzing one video: either a record or an error
// message, never both.
type Outcome struct {
	record analyzer.Record
	err    string
	failed bool
}

// Succeeded wraps an analyzer record. A nil record becomes an empty one.
func Succeeded(rec analyzer.Record) Outcome {
	if rec == nil {
		rec = analyzer.Record{}
	}
	return Outcome{record: rec}
}

// Failed wraps an analysis error.
func Failed(err error) Outcome {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Outcome{err: msg, failed: true}
}

// OK reports whether the analysis produced a record.
func (o Outcome) OK() bool { return !o.failed }

// Record returns the analyzer record when the analysis succeeded.
func (o Outcome) Record() (analyzer.Record, bool) { return o.record, !o.failed }

// Failure returns the error message when the analysis failed.
func (o Outcome) Failure() (string, bool) { return o.err, o.failed }

// Value returns what gets serialized: the record itself, or {"error": msg}.
func (o Outcome) Value() map[string]interface{} {
	if o.failed {
		return map[string]interface{}{"error": o.err}
	}
	return o.record.Plain()
}

// MarshalJSON writes the record, or {"error": msg} for a failure.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.failed {
		return json.Marshal(map[string]string{"error": o.err})
	}
	return json.Marshal(o.record)
}

// MarshalYAML writes the same shape as MarshalJSON.
func (o Outcome) MarshalYAML() (interface{}, error) {
	return o.Value(), nil
}

// Results maps each configured video to its outcome, in analysis order.
type Results struct {
	videos   []string
	outcomes map[string]Outcome
}

func newResults() *Results {
	return &Results{outcomes: make(map[string]Outcome)}
}

func (r *Results) set(video string, o Outcome) {
	if _, ok := r.outcomes[video]; !ok {
		r.videos = append(r.videos, video)
	}
	r.outcomes[video] = o
}

// Len returns the number of outcomes.
func (r *Results) Len() int { return len(r.videos) }

// Videos returns the analyzed videos in order.
func (r *Results) Videos() []string {
	return append([]string(nil), r.videos...)
}

// Get returns the outcome for video.
func (r *Results) Get(video string) (Outcome, bool) {
	o, ok := r.outcomes[video]
	return o, ok
}

// MarshalJSON writes the results as an object keyed by video, in order.
func (r *Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, video := range r.videos {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(video)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.outcomes[video])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the results as an ordered mapping keyed by video.
func (r *Results) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, video := range r.videos {
		var val yaml.Node
		if err := val.Encode(r.outcomes[video].Value()); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: video},
			&val,
		)
	}
	return node, nil
}
