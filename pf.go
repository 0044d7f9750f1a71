package pf

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnknownMarshaller = errors.New("unknown marshaller")
	ErrUnknownReplacer   = errors.New("unknown replacer")
	ErrInvalidOption     = errors.New("invalid option")
)

// ContextKey is the Options key under which a host passes its extension
// context to a marshaller factory.
const ContextKey = "context"

// Options holds the parsed command line arguments a host hands to a
// marshaller factory. Flags are usually present under both their short and
// long names.
type Options map[string]any

// first returns the first truthy value stored under one of keys.
func (o Options) first(keys ...string) any {
	for _, k := range keys {
		if v, ok := o[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

// Result is the outcome of a marshal call. Str holds one serialized line per
// successful input and Err one entry per failed input, both in input order.
type Result struct {
	Err string
	Str string
}

// Failed reports whether any input failed to marshal.
func (r Result) Failed() bool { return r.Err != "" }

// MarshalFunc serializes a sequence of values.
type MarshalFunc func(values []any) Result

// Factory configures a MarshalFunc. It is called once per invocation with
// the host's verbosity level, early-fail mode and parsed arguments.
type Factory func(verbose int, failEarly bool, argv Options) (MarshalFunc, error)

// Descriptor describes a marshaller to a host: its name, the help text for
// its options and the factory that configures it.
type Descriptor struct {
	Name string
	Desc string
	Func Factory
}

var marshallers = []Descriptor{JSONStringify}

// Marshallers returns all registered marshaller descriptors.
func Marshallers() []Descriptor {
	out := make([]Descriptor, len(marshallers))
	copy(out, marshallers)
	return out
}

// Lookup returns the descriptor registered under name.
func Lookup(name string) (Descriptor, error) {
	for _, d := range marshallers {
		if d.Name == name {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownMarshaller, name)
}
