package pf

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Replacer controls which parts of a value survive serialization. It is
// applied to every object member and array element below the root.
type Replacer interface {
	// Member returns the value to emit for an object member. Returning
	// false drops the member.
	Member(key string, value any) (any, bool)
	// Element returns the value to emit for an array element. Returning
	// false emits null in its place.
	Element(index int, value any) (any, bool)
}

// ReplacerFunc adapts a function to Replacer. Array elements are passed with
// their index formatted as the key.
type ReplacerFunc func(key string, value any) (any, bool)

// Member calls f(key, value).
func (f ReplacerFunc) Member(key string, value any) (any, bool) { return f(key, value) }

// Element calls f with the decimal index as key.
func (f ReplacerFunc) Element(index int, value any) (any, bool) {
	return f(strconv.Itoa(index), value)
}

// AllowList keeps only object members whose key is listed, at every depth.
// Array elements are left alone.
type AllowList []string

// Member reports whether key is in the list.
func (a AllowList) Member(key string, value any) (any, bool) {
	return value, slices.Contains(a, key)
}

// Element keeps every element.
func (a AllowList) Element(_ int, value any) (any, bool) { return value, true }

// Built-in replacers selectable by name.
var (
	OmitNull = ReplacerFunc(func(_ string, v any) (any, bool) {
		return v, v != nil
	})
	OmitEmpty = ReplacerFunc(func(_ string, v any) (any, bool) {
		return v, !isEmpty(v)
	})
)

var builtinReplacers = map[string]Replacer{
	"omitNull":  OmitNull,
	"omitEmpty": OmitEmpty,
}

// ParseReplacer resolves a replacer expression without a host context.
func ParseReplacer(expr string) (Replacer, error) {
	return resolveReplacer(expr, nil)
}

type lookuper interface {
	Lookup(name string) (any, bool)
}

// resolveReplacer turns an option value into a Replacer. Strings are looked
// up, never evaluated: built-in names first, then JSON key arrays, then
// names bound in the host context.
func resolveReplacer(v any, context any) (Replacer, error) {
	switch r := v.(type) {
	case nil:
		return nil, nil
	case Replacer:
		return r, nil
	case []string:
		return AllowList(r), nil
	case []any:
		return allowListOf(r)
	case string:
		return replacerByName(r, context)
	default:
		return nil, fmt.Errorf("%w: replacer of type %T", ErrInvalidOption, v)
	}
}

func replacerByName(expr string, context any) (Replacer, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "", "null", "undefined", "false", "0":
		return nil, nil
	}
	if r, ok := builtinReplacers[expr]; ok {
		return r, nil
	}
	if strings.HasPrefix(expr, "[") {
		var keys []any
		if err := json.Unmarshal([]byte(expr), &keys); err != nil {
			return nil, fmt.Errorf("%w: replacer key list: %w", ErrInvalidOption, err)
		}
		return allowListOf(keys)
	}
	// Scalar and object literals select nothing to filter by.
	if json.Valid([]byte(expr)) {
		return nil, nil
	}
	if bound, ok := lookupContext(context, expr); ok {
		switch b := bound.(type) {
		case Replacer:
			return b, nil
		case []string:
			return AllowList(b), nil
		case []any:
			return allowListOf(b)
		}
		return nil, fmt.Errorf("%w: %q is bound to %T, not a key list", ErrUnknownReplacer, expr, bound)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownReplacer, expr)
}

func lookupContext(context any, name string) (any, bool) {
	switch c := context.(type) {
	case lookuper:
		return c.Lookup(name)
	case map[string]any:
		v, ok := c[name]
		return v, ok
	}
	return nil, false
}

// allowListOf builds an AllowList from strings and numbers; numbers become
// their decimal form, as property names do.
func allowListOf(keys []any) (Replacer, error) {
	out := make(AllowList, 0, len(keys))
	for _, k := range keys {
		switch key := k.(type) {
		case string:
			out = append(out, key)
		case float64:
			out = append(out, strconv.FormatFloat(key, 'f', -1, 64))
		case int:
			out = append(out, strconv.Itoa(key))
		case json.Number:
			out = append(out, key.String())
		default:
			return nil, fmt.Errorf("%w: replacer key %v of type %T", ErrInvalidOption, k, k)
		}
	}
	return out, nil
}

// applyReplacer walks a normalized tree bottom-up through r. The root is
// never passed to r.
func applyReplacer(r Replacer, v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, member := range t {
			nv, keep := r.Member(k, member)
			if !keep {
				continue
			}
			out[k] = applyReplacer(r, nv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			nv, keep := r.Element(i, el)
			if !keep {
				continue
			}
			out[i] = applyReplacer(r, nv)
		}
		return out
	default:
		return v
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// truthy mirrors JavaScript truthiness for option values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	}
	return true
}
