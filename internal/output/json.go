package output

import (
	"bytes"
	"encoding/json"
	"io"
)

const indent = "    "

func marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// PrettyJSON renders v with a four space indent.
func PrettyJSON(v any) ([]byte, error) {
	b, err := marshal(v)
	if err != nil {
		return nil, err
	}
	out := &bytes.Buffer{}
	if err := json.Indent(out, b, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// CompactJSON renders v on a single line using ", " and ": " as
// separators, e.g. {"name": "one", "tags": ["a", "b"]}.
func CompactJSON(v any) ([]byte, error) {
	b, err := marshal(v)
	if err != nil {
		return nil, err
	}
	return spaceSeparators(b), nil
}

// spaceSeparators expects compact JSON as produced by encoding/json.
func spaceSeparators(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/4)
	inString, escaped := false, false
	for _, c := range b {
		out = append(out, c)
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ',', ':':
			out = append(out, ' ')
		}
	}
	return out
}

// WritePretty writes PrettyJSON(v) and a newline.
func WritePretty(w io.Writer, v any) error {
	b, err := PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// WriteCompact writes CompactJSON(v) and a newline.
func WriteCompact(w io.Writer, v any) error {
	b, err := CompactJSON(v)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
