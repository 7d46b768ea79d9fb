package tinuetree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json" and "yaml". An empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Marshal encodes v, typically a []TinueMoveOptions or a line of moves. JSON
// output is compact, one value per line.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatJSON, "":
		// PTN spreads use < and >, which must come out unescaped.
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	}
	return nil, fmt.Errorf("unknown output format %q", f)
}

// Encode writes v to w in the given format.
func Encode(w io.Writer, v any, f Format) error {
	bts, err := Marshal(v, f)
	if err != nil {
		return err
	}
	if f != FormatYAML {
		bts = append(bts, '\n')
	}
	_, err = w.Write(bts)
	return err
}
