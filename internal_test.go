package pf

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exitCode int

// stubProcess swaps the early-fail hooks. Tests using it must not run in
// parallel.
func stubProcess(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origStderr, origExit := stderr, osExit
	stderr = &buf
	osExit = func(code int) { panic(exitCode(code)) }
	t.Cleanup(func() { stderr, osExit = origStderr, origExit })
	return &buf
}

// countingValue records that the encoder reached it.
type countingValue struct{ n *int }

func (c countingValue) MarshalJSON() ([]byte, error) {
	*c.n++
	return []byte(`"counted"`), nil
}

func TestFailEarlyExits(t *testing.T) {
	errOut := stubProcess(t)
	marshal, err := configureStringify(0, true, nil)
	require.NoError(t, err)

	var reached int
	code := func() (code exitCode) {
		defer func() {
			if r := recover(); r != nil {
				code = r.(exitCode)
			}
		}()
		marshal([]any{"first", math.NaN(), countingValue{&reached}})
		return -1
	}()

	assert.Equal(t, exitCode(1), code)
	assert.Zero(t, reached)
	assert.Equal(t, "json: unsupported value: NaN\n", errOut.String())
}

func TestFailEarlyWithoutFailure(t *testing.T) {
	errOut := stubProcess(t)
	marshal, err := configureStringify(0, true, nil)
	require.NoError(t, err)

	var reached int
	res := marshal([]any{"first", countingValue{&reached}})
	assert.Equal(t, "\"first\"\n\"counted\"\n", res.Str)
	assert.Equal(t, 1, reached)
	assert.Zero(t, errOut.Len())
}

func TestFailEarlyReturnsWhenExitReturns(t *testing.T) {
	errOut := stubProcess(t)
	osExit = func(int) {}
	marshal, err := configureStringify(0, true, nil)
	require.NoError(t, err)

	var reached int
	res := marshal([]any{math.Inf(-1), countingValue{&reached}})
	assert.Equal(t, "json: unsupported value: -Inf\n", res.Err)
	assert.Empty(t, res.Str)
	assert.Zero(t, reached)
	assert.Equal(t, res.Err, errOut.String())
}

func TestResolveIndent(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   any
		want string
	}{
		"nil":          {in: nil, want: ""},
		"int":          {in: 3, want: "   "},
		"int64":        {in: int64(2), want: "  "},
		"nan":          {in: math.NaN(), want: ""},
		"inf":          {in: math.Inf(1), want: strings.Repeat(" ", 10)},
		"json number":  {in: json.Number("1"), want: " "},
		"padded":       {in: " 2 ", want: "  "},
		"long literal": {in: "abcdefghijklmno", want: "abcdefghij"},
		"multi-byte":   {in: "€€€€€€€€€€€€", want: "€€€€€€€€€€"},
		"short euro":   {in: "€€€€", want: "€€€€"},
		"nan literal":  {in: "NaN", want: "NaN"},
		"inf literal":  {in: "Infinity", want: "Infinity"},
		"exponent":     {in: "1e1", want: "1e1"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveIndent(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStringifyMultiByteIndent(t *testing.T) {
	t.Parallel()
	marshal, err := configureStringify(0, false, Options{"spaces": "€€€€€€€€€€€€"})
	require.NoError(t, err)
	res := marshal([]any{map[string]any{"a": 1}})
	assert.True(t, utf8.ValidString(res.Str))
	assert.Equal(t, "{\n€€€€€€€€€€\"a\": 1\n}\n", res.Str)
}

func TestTruthy(t *testing.T) {
	t.Parallel()
	for _, v := range []any{nil, false, "", 0, int64(0), 0.0, math.NaN(), json.Number("0")} {
		assert.False(t, truthy(v), "%#v", v)
	}
	for _, v := range []any{true, "0", 1, -1.5, json.Number("2"), []string{}, map[string]any{}} {
		assert.True(t, truthy(v), "%#v", v)
	}
}

func TestWrapWords(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"aa bb", "cc"}, wrapWords("aa bb cc", 5))
	assert.Equal(t, []string{"toolongword", "x"}, wrapWords("toolongword x", 4))
	assert.Equal(t, []string{""}, wrapWords("", 10))
	// Full-width characters count as two columns.
	assert.Equal(t, []string{"你好", "世界"}, wrapWords("你好 世界", 6))
}

func TestHelpTextAlignsTag(t *testing.T) {
	t.Parallel()
	out := helpText([]flagHelp{
		{Short: "S", Long: "spaces", Text: "short text", Type: "number"},
		{Short: "X", Long: "wide", Text: strings.Repeat("word ", 15) + "end", Type: "string"},
	})
	blocks := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	require.Len(t, blocks, 2)

	first := strings.Split(blocks[0], "\n")
	assert.Equal(t, "-S, --spaces", first[0])
	require.Len(t, first, 2)
	assert.True(t, strings.HasPrefix(first[1], "short text "))
	assert.True(t, strings.HasSuffix(first[1], "[number]"))
	assert.Equal(t, helpWidth, runewidth.StringWidth(first[1]))

	for _, line := range strings.Split(blocks[1], "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), helpWidth)
	}
	assert.True(t, strings.HasSuffix(blocks[1], "[string]"))
}

func TestHelpTextTagOnOwnLine(t *testing.T) {
	t.Parallel()
	// The description fills the line, so the tag moves below it.
	text := strings.Repeat("x", helpWidth-2)
	out := helpText([]flagHelp{{Short: "A", Long: "aa", Text: text, Type: "number"}})
	lines := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, text, lines[1])
	assert.Equal(t, strings.Repeat(" ", helpWidth-len("[number]"))+"[number]", lines[2])
}
