package pf

import (
	"encoding/json"
	"errors"
	"io"
	"iter"
)

// Decode returns an iterator over the JSON values read from r. Values may be
// concatenated or separated by whitespace. Numbers decode as json.Number so
// they serialize back unchanged. Iteration stops after the first error.
func Decode(r io.Reader) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		dec := json.NewDecoder(r)
		dec.UseNumber()
		for {
			var v any
			err := dec.Decode(&v)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Collect reads every JSON value from r.
func Collect(r io.Reader) ([]any, error) {
	var values []any
	for v, err := range Decode(r) {
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}
	return values, nil
}
