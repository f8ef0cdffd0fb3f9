package segments

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

// Definition describes one accordion segment of the demo.
type Definition struct {
	Title      string   `yaml:"title"`
	Color      string   `yaml:"color,omitempty"`      // header background, "#rrggbb"
	Background string   `yaml:"background,omitempty"` // content background, "#rrggbb"
	Body       string   `yaml:"body,omitempty"`
	Items      []string `yaml:"items,omitempty"` // rendered as a list instead of Body
}

// File is the on-disk layout of a segments file.
type File struct {
	Segments []Definition `yaml:"segments"`
}

var capitals = []string{
	"Athens", "Berlin", "London",
	"Helsinki", "Copenhagen", "Warsaw",
	"Stockholm", "Oslo", "Prague",
	"Budapest", "Paris", "Moscow",
	"Kiev", "Bratislava", "Rome",
}

// Defaults returns the built-in three segment demo.
func Defaults() []Definition {
	return []Definition{
		{Title: "Header 0", Color: "#8b0000", Body: "Content 0"},
		{Title: "Header 1", Color: "#006400", Background: "#90ee90", Body: "Content 1"},
		{Title: "Header 2", Color: "#00008b", Background: "#add8e6", Items: append([]string(nil), capitals...)},
	}
}

// Load reads segment definitions from a YAML file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segments file: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes and validates segment definitions.
func Parse(data []byte) ([]Definition, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse segments: %w", err)
	}
	for i, def := range f.Segments {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return f.Segments, nil
}

// Encode renders definitions in the segments file format.
func Encode(defs []Definition) ([]byte, error) {
	data, err := yaml.Marshal(File{Segments: defs})
	if err != nil {
		return nil, fmt.Errorf("encode segments: %w", err)
	}
	return data, nil
}

// Validate checks that colors parse.
func (d Definition) Validate() error {
	if _, err := parseColor(d.Color); err != nil {
		return apperrors.ValidationError{Field: "color", Message: err.Error()}
	}
	if _, err := parseColor(d.Background); err != nil {
		return apperrors.ValidationError{Field: "background", Message: err.Error()}
	}
	return nil
}

// parseColor parses "#rrggbb" or "#rrggbbaa". An empty string is nil.
func parseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
