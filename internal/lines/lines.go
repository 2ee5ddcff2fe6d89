// Package lines defines counting lines: labelled segments placed on a video
// frame. The pipeline treats a [Set] as opaque; the configurator produces it
// and the analyzer consumes it.
package lines

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Point is a pixel coordinate with the origin at the top-left of the frame.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Line is one counting line.
type Line struct {
	Label string `json:"label" yaml:"label"`
	A     Point  `json:"a" yaml:"a"`
	B     Point  `json:"b" yaml:"b"`
}

// Set is the ordered list of lines configured for one video. An empty,
// non-nil Set is a valid configuration.
type Set []Line

// ErrDegenerate is returned for a line whose endpoints coincide.
var ErrDegenerate = errors.New("line endpoints are identical")

// Parse reads one line in the form "x1,y1 x2,y2 [label]". When label is
// omitted, defaultLabel is used.
func Parse(s, defaultLabel string) (Line, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Line{}, fmt.Errorf("want \"x1,y1 x2,y2 [label]\", got %q", s)
	}
	a, err := parsePoint(fields[0])
	if err != nil {
		return Line{}, err
	}
	b, err := parsePoint(fields[1])
	if err != nil {
		return Line{}, err
	}
	if a == b {
		return Line{}, ErrDegenerate
	}
	label := defaultLabel
	if len(fields) > 2 {
		label = strings.Join(fields[2:], " ")
	}
	return Line{Label: label, A: a, B: b}, nil
}

func parsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Point{}, fmt.Errorf("point %q: x must be a whole number", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Point{}, fmt.Errorf("point %q: y must be a whole number", s)
	}
	return Point{X: x, Y: y}, nil
}

// Within reports an error when either endpoint lies outside a width×height frame.
func (l Line) Within(width, height int) error {
	for _, p := range []Point{l.A, l.B} {
		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			return fmt.Errorf("point %d,%d is outside the %dx%d frame", p.X, p.Y, width, height)
		}
	}
	return nil
}

func (l Line) String() string {
	return fmt.Sprintf("%s: %d,%d -> %d,%d", l.Label, l.A.X, l.A.Y, l.B.X, l.B.Y)
}
