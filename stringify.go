package pf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// maxIndent caps the indentation width, matching JSON.stringify.
const maxIndent = 10

// Process hooks used by the early-fail path. Tests replace them.
var (
	stderr io.Writer = os.Stderr
	osExit           = os.Exit
)

var stringifyFlags = []flagHelp{
	{
		Short: "S",
		Long:  "spaces",
		Text:  "The number of spaces used to format JSON. If it is set to 0 (default), the JSON is printed in a single line.",
		Type:  "number",
	},
	{
		Short: "R",
		Long:  "replacer",
		Text:  "Determines which JSON fields are kept. If it is not set (default), all fields remain. Accepts omitNull, omitEmpty, a JSON array of keys, or the name of a key list from the context of ~/.pfrc.",
		Type:  "string",
	},
}

// JSONStringify serializes every value to JSON, one value per line.
var JSONStringify = Descriptor{
	Name: "jsonStringify",
	Desc: "uses encoding/json and has the following additional options:\n\n" + helpText(stringifyFlags),
	Func: configureStringify,
}

type stringifier struct {
	indent    string
	replacer  Replacer
	verbose   int
	failEarly bool
}

func configureStringify(verbose int, failEarly bool, argv Options) (MarshalFunc, error) {
	indent, err := resolveIndent(argv.first("S", "spaces"))
	if err != nil {
		return nil, err
	}
	replacer, err := resolveReplacer(argv.first("R", "replacer"), argv[ContextKey])
	if err != nil {
		return nil, err
	}
	s := &stringifier{
		indent:    indent,
		replacer:  replacer,
		verbose:   verbose,
		failEarly: failEarly,
	}
	return s.marshal, nil
}

func (s *stringifier) marshal(values []any) Result {
	var errs, out strings.Builder
	for _, v := range values {
		line, err := encodeJSON(v, s.indent, s.replacer)
		if err == nil {
			out.Write(line)
			continue
		}
		errs.WriteString(err.Error())
		if s.verbose > 1 {
			errs.WriteString(describeValue(v))
		}
		errs.WriteByte('\n')
		if s.failEarly {
			_, _ = io.WriteString(stderr, errs.String())
			osExit(1)
			break
		}
	}
	return Result{Err: errs.String(), Str: out.String()}
}

// encodeJSON renders v followed by a newline. A non-nil replacer filters
// a normalized copy of v.
func encodeJSON(v any, indent string, r Replacer) ([]byte, error) {
	if r != nil {
		tree, err := normalize(v)
		if err != nil {
			return nil, err
		}
		v = applyReplacer(r, tree)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize converts v into the generic tree encoding/json would decode from
// its serialization. Numbers stay json.Number so they print unchanged.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// describeValue renders the verbose context for a failed value. The value
// already failed once, so a second failure is reported instead of raised.
func describeValue(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf(" while marshalling: value not representable (%v)", err)
	}
	return " while marshalling:\n" + strings.TrimSuffix(buf.String(), "\n")
}

func resolveIndent(v any) (string, error) {
	switch n := v.(type) {
	case nil:
		return "", nil
	case int:
		return spaces(float64(n)), nil
	case int64:
		return spaces(float64(n)), nil
	case float64:
		return spaces(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return "", fmt.Errorf("%w: spaces %q", ErrInvalidOption, n)
		}
		return spaces(f), nil
	case string:
		// Only plain integers count as widths; "NaN" or "1e1" are indents.
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return spaces(float64(i)), nil
		}
		if r := []rune(n); len(r) > maxIndent {
			n = string(r[:maxIndent])
		}
		return n, nil
	default:
		return "", fmt.Errorf("%w: spaces of type %T", ErrInvalidOption, v)
	}
}

func spaces(f float64) string {
	if math.IsNaN(f) || f < 1 {
		return ""
	}
	return strings.Repeat(" ", int(math.Min(math.Floor(f), maxIndent)))
}
