// Package pf provides pluggable marshallers that turn in-memory values into
// newline-delimited text for a command line host.
//
// A marshaller is published as a [Descriptor]: a name, the help text for its
// options and a [Factory]. A host calls the factory once per invocation with
// its verbosity level, early-fail mode and parsed arguments, then calls the
// returned [MarshalFunc] with the collected input values:
//
//	d, err := pf.Lookup("jsonStringify")
//	marshal, err := d.Func(verbose, failEarly, pf.Options{"spaces": 2})
//	res := marshal(values)
//	os.Stdout.WriteString(res.Str)
//
// # Results
//
// [Result.Str] holds one line per value that serialized, [Result.Err] one
// entry per value that did not, both in input order. A failing value never
// stops the others unless early-fail is set: then the accumulated errors are
// written to stderr and the process exits with status 1.
//
// # JSONStringify
//
// [JSONStringify] serializes with encoding/json. It reads two options, each
// under a short and a long key (the first truthy one wins):
//
//   - S, spaces: indentation width, clamped to 10; 0 prints a single line
//   - R, replacer: a [Replacer] selected by name
//
// # Replacers
//
// Replacer expressions are resolved through a lookup table and never run as
// code. Recognized forms are the built-in names "omitNull" and "omitEmpty", a
// JSON array of keys such as ["id","name"] (an [AllowList]), and any name
// bound to a key list in the host context passed under [ContextKey].
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrUnknownMarshaller]: no descriptor with that name
//   - [ErrUnknownReplacer]: replacer expression names nothing known
//   - [ErrInvalidOption]: an option has an unusable type or form
package pf
