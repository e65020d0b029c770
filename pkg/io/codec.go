package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/matzehuels/bartree/pkg/errors"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatMIDI Format = "midi"
)

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".mid", ".midi":
		return FormatMIDI, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown file type %q", filepath.Ext(path))
}

// ReadJSON decodes a score from r.
func ReadJSON(r io.Reader) (*Score, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
	}
	normalizeNumbers(&doc)
	return fromDocument(doc)
}

// WriteJSON encodes s as indented JSON.
func WriteJSON(w io.Writer, s *Score) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadYAML decodes a score from r.
func ReadYAML(r io.Reader) (*Score, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
	}
	return fromDocument(doc)
}

// WriteYAML encodes s as YAML.
func WriteYAML(w io.Writer, s *Score) error {
	data, err := yaml.Marshal(toDocument(s))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Read decodes r in the given format.
func Read(r io.Reader, f Format) (*Score, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatMIDI:
		return ReadMIDI(r, MIDIOptions{})
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot read format %q", f)
}

// Write encodes s in the given format. MIDI output is not supported.
func Write(w io.Writer, s *Score, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "cannot write format %q", f)
}

// Import reads the score file at path, choosing the format by extension.
func Import(path string) (*Score, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s, err := Read(bytes.NewReader(data), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Export writes s to path, choosing the format by extension.
func Export(s *Score, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, s, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

// normalizeNumbers turns json.Number payloads into int64 or float64 so JSON
// and YAML documents carry the same Go values.
func normalizeNumbers(doc *document) {
	fix := func(es []entry) {
		for i := range es {
			es[i].Duration = number(es[i].Duration)
			es[i].Pitch = number(es[i].Pitch)
			for j := range es[i].Groups {
				es[i].Groups[j].Ratio = number(es[i].Groups[j].Ratio)
				es[i].Groups[j].Span = number(es[i].Groups[j].Span)
			}
		}
	}
	fix(doc.Events)
	for i := range doc.Bars {
		fix(doc.Bars[i].Entries)
	}
}

func number(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
