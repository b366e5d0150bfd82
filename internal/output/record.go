package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNotAnObject   = errors.New("json value is not an object")
	ErrTrailingData  = errors.New("unexpected data after json value")
	ErrMalformedJSON = errors.New("malformed json")
)

// Record is a JSON object that keeps its keys in insertion order.
// Values are strings, json.Number or Go numbers, bools, nil, nested
// Records or []any.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord builds a Record from alternating key/value pairs.
func NewRecord(kv ...any) Record {
	r := Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return r
}

// Set adds or replaces key. A replaced key keeps its original position.
func (r *Record) Set(key string, value any) *Record {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

func (r Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String returns the value under key when it is a string, "" otherwise.
func (r Record) String(key string) string {
	s, _ := r.values[key].(string)
	return s
}

func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r Record) Len() int {
	return len(r.keys)
}

// MarshalJSON writes the keys in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %s, %w", k, err, ErrMalformedJSON)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseRecord decodes a single JSON object keeping the key order of the
// source text. Numbers are kept as json.Number so they render unchanged.
func ParseRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return Record{}, fmt.Errorf("%s, %w", err, ErrMalformedJSON)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Record{}, ErrNotAnObject
	}
	r, err := decodeObject(dec)
	if err != nil {
		return Record{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Record{}, ErrTrailingData
	}
	return r, nil
}

func decodeObject(dec *json.Decoder) (Record, error) {
	r := Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, fmt.Errorf("%s, %w", err, ErrMalformedJSON)
		}
		key, ok := tok.(string)
		if !ok {
			return Record{}, fmt.Errorf("object key %v, %w", tok, ErrMalformedJSON)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Record{}, err
		}
		r.Set(key, v)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return Record{}, fmt.Errorf("%s, %w", err, ErrMalformedJSON)
	}
	return r, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%s, %w", err, ErrMalformedJSON)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return decodeObject(dec)
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("%s, %w", err, ErrMalformedJSON)
		}
		return list, nil
	}
	return nil, fmt.Errorf("unexpected %v, %w", d, ErrMalformedJSON)
}
