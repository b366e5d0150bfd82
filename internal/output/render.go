package output

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

var ErrConflictingModes = errors.New("--array and --nl cannot be used together")

// Mode selects how a sequence of records is written.
type Mode int

const (
	// Default writes one pretty printed object per record.
	Default Mode = iota
	// Array writes a single pretty printed array holding every record.
	Array
	// NewlineDelimited writes one single-line object per record.
	NewlineDelimited
)

func (m Mode) String() string {
	switch m {
	case Array:
		return "array"
	case NewlineDelimited:
		return "nl"
	default:
		return "default"
	}
}

// ModeFromFlags maps the --array and --nl flags onto a Mode.
func ModeFromFlags(array, nl bool) (Mode, error) {
	switch {
	case array && nl:
		return Default, ErrConflictingModes
	case array:
		return Array, nil
	case nl:
		return NewlineDelimited, nil
	}
	return Default, nil
}

// Render writes records to w in the given mode. Default and
// NewlineDelimited stream each record as it arrives, Array buffers the
// whole sequence first. The first error yielded by records stops rendering
// and is returned as is.
func Render(w io.Writer, records iter.Seq2[Record, error], mode Mode) error {
	if mode == Array {
		all := []Record{}
		for r, err := range records {
			if err != nil {
				return err
			}
			all = append(all, r)
		}
		return WritePretty(w, all)
	}

	write := WritePretty
	if mode == NewlineDelimited {
		write = WriteCompact
	}
	for r, err := range records {
		if err != nil {
			return err
		}
		if err := write(w, r); err != nil {
			return fmt.Errorf("writing %s record: %w", mode, err)
		}
	}
	return nil
}

// Slice adapts already materialised records to the sequence Render expects.
func Slice(records []Record) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}
