// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package syntax_test

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.avrokit.dev/avrokit/encoding/avsc"
	"go.avrokit.dev/avrokit/internal/testutil"
	"go.avrokit.dev/avrokit/schema"
	"go.avrokit.dev/avrokit/syntax"
)

func errorCode(t *testing.T, err error) uint32 {
	t.Helper()
	require.Error(t, err)
	parseErr, ok := err.(*syntax.Error)
	require.Truef(t, ok, "expected *syntax.Error, got %T: %v", err, err)
	return parseErr.Code()
}

func expectParseError(t *testing.T, err error, name string) {
	t.Helper()
	want, ok := syntaxErrors[name]
	require.Truef(t, ok, "unknown parse error name %q", name)
	require.Error(t, err)
	parseErr, ok := err.(*syntax.Error)
	require.Truef(t, ok, "expected *syntax.Error, got %T: %v", err, err)
	testutil.ExpectDiagnostic(t, want, parseErr.Code(), parseErr.Message())
}

func marshalField(t *testing.T, field *schema.Field) string {
	t.Helper()
	record, err := schema.NewRecord(schema.Name{Name: "R"}, field)
	require.NoError(t, err)
	doc, err := avsc.Marshal(record)
	require.NoError(t, err)
	return string(doc)
}

func TestParseType(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		src  string
		want string
	}{
		{"int", `"int"`},
		{"long", `"long"`},
		{"float", `"float"`},
		{"double", `"double"`},
		{"boolean", `"boolean"`},
		{"null", `"null"`},
		{"bytes", `"bytes"`},
		{"string", `"string"`},
		{"uuid", `{"type":"string","logicalType":"uuid"}`},
		{"date", `{"type":"int","logicalType":"date"}`},
		{"time_ms", `{"type":"int","logicalType":"time-millis"}`},
		{"timestamp_ms", `{"type":"long","logicalType":"timestamp-millis"}`},
		{"decimal(4, 2)", `{"type":"bytes","logicalType":"decimal","scale":2,"precision":4}`},
		{"array<int>", `{"type":"array","items":"int"}`},
		{"map<array<string>>", `{"type":"map","values":{"type":"array","items":"string"}}`},
		{"union { null, int }", `["null","int"]`},
		{"union{null,map<long>}", `["null",{"type":"map","values":"long"}]`},
		{"Thing", `"Thing"`},
		{"org.example.Thing", `"org.example.Thing"`},
		{"/* lead */ int", `"int"`},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			result, err := opts.ParseType([]byte(test.src))
			require.NoError(t, err)
			got, err := avsc.Marshal(result.Value)
			require.NoError(t, err)
			assert.Equal(t, test.want, string(got))
			assert.Empty(t, result.Rest)
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		src  string
		want string
	}{
		{"", "expected_type"},
		{";", "expected_type"},
		{"array<>", "expected_type"},
		{"array<int", "expected_sigil_gt"},
		{"map int", "expected_sigil_lt"},
		{"union {}", "invalid_union"},
		{"union { int, long, int }", "invalid_union"},
		{"union { null, union { int } }", "invalid_union"},
		{"decimal(0, 0)", "invalid_decimal"},
		{"decimal(2 2)", "expected_sigil_comma"},
		{"decimal(-1, 0)", "invalid_size"},
		{"decimal(1.5, 0)", "invalid_size"},
		{"org..Thing", "expected_ident"},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			_, err := opts.ParseType([]byte(test.src))
			expectParseError(t, err, test.want)
		})
	}
}

func TestParseTypeRest(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	result, err := opts.ParseType([]byte("map<int> rest of input"))
	require.NoError(t, err)
	assert.Equal(t, " rest of input", string(result.Rest))

	result, err = opts.ParseType([]byte("union { null, string }, more"))
	require.NoError(t, err)
	assert.Equal(t, ", more", string(result.Rest))
}

func TestParseUnionVariants(t *testing.T) {
	t.Parallel()

	result, err := syntax.NewParseOptions().ParseType([]byte("union { null, string, Thing, Other }"))
	require.NoError(t, err)
	union, ok := result.Value.(*schema.Union)
	require.True(t, ok)

	want := []schema.Schema{
		schema.Null,
		schema.String,
		&schema.Ref{Name: schema.Name{Name: "Thing"}},
		&schema.Ref{Name: schema.Name{Name: "Other"}},
	}
	if diff := cmp.Diff(want, union.Variants()); diff != "" {
		t.Errorf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestParseField(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"int",
			"int x;",
			`{"name":"x","type":"int"}`,
		},
		{
			"int_default",
			"int x = 42;",
			`{"name":"x","type":"int","default":42}`,
		},
		{
			"long_default",
			"long x = -9223372036854775808;",
			`{"name":"x","type":"long","default":-9223372036854775808}`,
		},
		{
			"string_default",
			`string s = "hello \"world\"";`,
			`{"name":"s","type":"string","default":"hello \"world\""}`,
		},
		{
			"boolean_default",
			"boolean b = false;",
			`{"name":"b","type":"boolean","default":false}`,
		},
		{
			"null_default",
			"null n = null;",
			`{"name":"n","type":"null","default":null}`,
		},
		{
			"bytes_default",
			`bytes b = "ÿ";`,
			`{"name":"b","type":"bytes","default":[195,191]}`,
		},
		{
			"double_default",
			"double d = 1.7976931348623157e308;",
			`{"name":"d","type":"double","default":1.7976931348623157e+308}`,
		},
		{
			"date_default",
			"date d = 19000;",
			`{"name":"d","type":{"type":"int","logicalType":"date"},"default":19000}`,
		},
		{
			"array_default",
			`array<string> a = ["x", "y"];`,
			`{"name":"a","type":{"type":"array","items":"string"},"default":["x","y"]}`,
		},
		{
			"empty_array_default",
			`array<string> a = [];`,
			`{"name":"a","type":{"type":"array","items":"string"},"default":[]}`,
		},
		{
			"empty_map_default",
			`map<int> m = {};`,
			`{"name":"m","type":{"type":"map","values":"int"},"default":{}}`,
		},
		{
			"union_default",
			`union { string, null } u = "first";`,
			`{"name":"u","type":["string","null"],"default":"first"}`,
		},
		{
			"decimal_default",
			`decimal(4, 2) d = "\u0001";`,
			`{"name":"d","type":{"type":"bytes","logicalType":"decimal","scale":2,"precision":4},"default":[1]}`,
		},
		{
			"order",
			`int @order("ignore") x;`,
			`{"name":"x","type":"int","order":"ignore"}`,
		},
		{
			"ascending_order_omitted",
			`int @order("ascending") x;`,
			`{"name":"x","type":"int"}`,
		},
		{
			"aliases_before_order",
			`int @aliases(["y", "z"]) @order("descending") x;`,
			`{"name":"x","type":"int","aliases":["y","z"],"order":"descending"}`,
		},
		{
			"doc",
			"/** The x coordinate. */ int x;",
			`{"name":"x","type":"int","doc":"The x coordinate."}`,
		},
		{
			"doc_nearest_wins",
			"/** first */ /** second */ int x;",
			`{"name":"x","type":"int","doc":"second"}`,
		},
		{
			"plain_comment_is_not_doc",
			"/* not a doc */ int x;",
			`{"name":"x","type":"int"}`,
		},
		{
			"logical_type_timestamp_micros",
			`@logicalType("timestamp-micros") long ts;`,
			`{"name":"ts","type":{"type":"long","logicalType":"timestamp-micros"}}`,
		},
		{
			"logical_type_duration",
			`@logicalType("duration") fixed_12 span;`,
			`{"name":"span","type":{"type":{"type":"fixed","name":"duration","size":12},"logicalType":"duration"}}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := opts.ParseField([]byte(test.src))
			require.NoError(t, err)
			assert.Equal(t, `{"type":"record","name":"R","fields":[`+test.want+`]}`, marshalField(t, result.Value))
		})
	}
}

func TestParseFieldNames(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	for _, name := range []string{"my_name", "numbers3_", "_n20umbers3_", "A"} {
		t.Run(name, func(t *testing.T) {
			result, err := opts.ParseField([]byte("string " + name + ";"))
			require.NoError(t, err)
			assert.Equal(t, name, result.Value.Name)
		})
	}

	for _, test := range []struct {
		name string
		want string
	}{
		{"1var_name", "num_lit_invalid"},
		{"-1var_name", "num_lit_invalid"},
		{"$0_1var_name", "unexpected_character"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := opts.ParseField([]byte("string " + test.name + ";"))
			expectParseError(t, err, test.want)
		})
	}
}

func TestParseFieldErrors(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing_semicolon", "int x", "expected_sigil_semicolon"},
		{"missing_name", "int;", "expected_ident"},
		{"namespace_on_field", `@namespace("a") int x;`, "annotation_not_allowed"},
		{"unknown_annotation", `int @java_class("x") x;`, "annotation_not_allowed"},
		{"logical_type_after_type", `int @logicalType("time-micros") x;`, "annotation_not_allowed"},
		{"duplicate_order", `int @order("ignore") @order("ignore") x;`, "duplicate_annotation"},
		{"invalid_order", `int @order("sideways") x;`, "invalid_order"},
		{"invalid_alias", `int @aliases(["1x"]) x;`, "invalid_alias"},
		{"empty_aliases", `int @aliases([]) x;`, "expected_text_lit"},
		{"unsupported_logical_type", `@logicalType("local-timestamp-millis") long x;`, "unsupported_logical_type"},
		{"duration_default", `@logicalType("duration") fixed_12 d = "abc";`, "duration_default"},
		{"named_default", `Thing t = {};`, "named_default"},
		{"wrong_default_kind", `boolean b = 1;`, "expected_default"},
		{"string_for_int", `int age = "false";`, "expected_default"},
		{"int_overflow", `int x = 2147483648;`, "default_out_of_range"},
		{"int_underflow", `int x = -2147483649;`, "default_out_of_range"},
		{"long_overflow", `long x = 9223372036854775808;`, "default_out_of_range"},
		{"int_fraction", `int x = 1.5;`, "invalid_default"},
		{"float_overflow", `float f = 3.50282347e40;`, "default_out_of_range"},
		{"double_overflow", `double d = 1e309;`, "default_out_of_range"},
		{"invalid_uuid", `uuid u = "not-a-uuid";`, "invalid_uuid"},
		{"duplicate_map_key", `map<int> m = {"a": 1, "a": 2};`, "duplicate_map_key"},
		{"array_element_kind", `array<int> a = [1, "2"];`, "expected_default"},
		{"unterminated_array", `array<int> a = [1, 2;`, "expected_sigil_close_square"},
		{"map_key_not_text", `map<int> m = {a: 1};`, "expected_text_lit"},
		{"bad_escape", `string s = "\q";`, "text_lit_invalid"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := opts.ParseField([]byte(test.src))
			expectParseError(t, err, test.want)
		})
	}
}

func TestParseDefault(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	mustUnion := func(variants ...schema.Schema) *schema.Union {
		union, err := schema.NewUnion(variants...)
		require.NoError(t, err)
		return union
	}

	tests := []struct {
		name  string
		typ   schema.Schema
		src   string
		value any
	}{
		{"null", schema.Null, "null", nil},
		{"true", schema.Boolean, "true", true},
		{"int_max", schema.Int, "2147483647", int32(math.MaxInt32)},
		{"int_min", schema.Int, "-2147483648", int32(math.MinInt32)},
		{"long_max", schema.Long, "9223372036854775807", int64(math.MaxInt64)},
		{"timestamp", schema.TimestampMillis, "1700000000000", int64(1700000000000)},
		{"float_max", schema.Float, "3.40282347e38", float64(math.MaxFloat32)},
		{"float_rounded", schema.Float, "0.1", float64(float32(0.1))},
		{"double_max", schema.Double, "1.7976931348623157e308", math.MaxFloat64},
		{"double_exponent", schema.Double, "-2.5E+3", -2500.0},
		{"string", schema.String, `"a\nb"`, "a\nb"},
		{"string_surrogates", schema.String, `"\uD83D\uDE00"`, "\U0001F600"},
		{"bytes", schema.Bytes, `"hi"`, schema.RawBytes("hi")},
		{"uuid_compact", schema.Uuid, `"a1a2a3a4b1b2c1c2d1d2d3d4d5d6d7d8"`, "a1a2a3a4-b1b2-c1c2-d1d2-d3d4d5d6d7d8"},
		{"uuid_upper", schema.Uuid, `"A1A2A3A4-B1B2-C1C2-D1D2-D3D4D5D6D7D8"`, "a1a2a3a4-b1b2-c1c2-d1d2-d3d4d5d6d7d8"},
		{"union_first_variant", mustUnion(schema.Int, schema.Null), "7", int32(7)},
		{"nested_array", schema.NewArray(schema.NewArray(schema.Int)), "[[1], []]", []any{[]any{int32(1)}, []any{}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := opts.ParseDefault(test.typ, []byte(test.src))
			require.NoError(t, err)
			if diff := cmp.Diff(test.value, result.Value.Value, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("default mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDefaultMap(t *testing.T) {
	t.Parallel()

	typ := schema.NewMap(schema.NewArray(schema.Long))
	result, err := syntax.NewParseOptions().ParseDefault(typ, []byte(`{"z": [1], "a": [], "m": [2, 3]}`))
	require.NoError(t, err)

	obj, ok := result.Value.Value.(*schema.Object)
	require.True(t, ok)
	var keys []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	value, _ := obj.Get("m")
	assert.Equal(t, []any{int64(2), int64(3)}, value)
}

func TestParseDefaultSpans(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	_, err := opts.ParseDefault(schema.Int, []byte("  2147483648"))
	require.Equal(t, uint32(3006), errorCode(t, err))
	assert.Equal(t, syntax.NewSpan(2, 10), err.(*syntax.Error).Span())

	_, err = opts.ParseDefault(schema.Float, []byte("3.50282347e40"))
	require.Equal(t, uint32(3006), errorCode(t, err))
	assert.Contains(t, err.Error(), "out of range for type float")
}

func TestParseEnum(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	result, err := opts.ParseEnum([]byte(`/** Suits */ @aliases(["Card"]) enum Suit { SPADES,HEARTS ,  DIAMONDS , CLUBS }`))
	require.NoError(t, err)
	enum := result.Value
	assert.Equal(t, schema.Name{Name: "Suit"}, enum.Name)
	assert.Equal(t, []string{"SPADES", "HEARTS", "DIAMONDS", "CLUBS"}, enum.Symbols)
	assert.Equal(t, []string{"Card"}, enum.Aliases)
	assert.Equal(t, "Suits", enum.Doc)
	assert.Empty(t, result.Warnings)

	result, err = opts.ParseEnum([]byte("enum Suit { A, B } = B; rest"))
	require.NoError(t, err)
	assert.Equal(t, " rest", string(result.Rest))
	require.Len(t, result.Warnings, 1)
	warning := result.Warnings[0]
	assert.Equal(t, uint32(4000), warning.Code())
	assert.Equal(t, syntax.NewSpan(21, 1), warning.Span())
	assert.Equal(t, "W4000: Default symbol B of enum Suit is not carried into the schema", warning.String())
}

func TestParseEnumErrors(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "enum E {}", "expected_ident"},
		{"trailing_comma", "enum E { A, }", "expected_ident"},
		{"duplicate_symbol", "enum E { A, B, A }", "invalid_enum"},
		{"missing_keyword", "record E { }", "expected_keyword"},
		{"default_without_semicolon", "enum E { A } = A", "expected_sigil_semicolon"},
		{"order_annotation", `@order("ignore") enum E { A }`, "annotation_not_allowed"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := opts.ParseEnum([]byte(test.src))
			expectParseError(t, err, test.want)
		})
	}
}

func TestParseFixed(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name     string
		src      string
		want     string
		warnings []uint32
	}{
		{
			"plain",
			"fixed MD5(16);",
			`{"type":"fixed","name":"MD5","size":16}`,
			nil,
		},
		{
			"doc",
			"/** my hash */ fixed MD5(16);",
			`{"type":"fixed","name":"MD5","doc":"my hash","size":16}`,
			nil,
		},
		{
			"aliases",
			`fixed @aliases(["hash", "org.old.Hash"]) MD5(16);`,
			`{"type":"fixed","name":"MD5","size":16,"aliases":["hash","org.old.Hash"]}`,
			nil,
		},
		{
			"namespace",
			`@namespace("org.example") fixed MD5(16);`,
			`{"type":"fixed","name":"MD5","namespace":"org.example","size":16}`,
			nil,
		},
		{
			"order_ignored",
			`fixed @order("descending") MD5(16);`,
			`{"type":"fixed","name":"MD5","size":16}`,
			[]uint32{4001},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := opts.ParseFixed([]byte(test.src))
			require.NoError(t, err)
			got, err := avsc.Marshal(result.Value)
			require.NoError(t, err)
			assert.Equal(t, test.want, string(got))

			var codes []uint32
			for _, w := range result.Warnings {
				codes = append(codes, w.Code())
			}
			assert.Equal(t, test.warnings, codes)
		})
	}
}

func TestParseFixedErrors(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"zero_size", "fixed F(0);", "invalid_fixed"},
		{"negative_size", "fixed F(-1);", "invalid_size"},
		{"missing_size", "fixed F();", "expected_num_lit"},
		{"missing_semicolon", "fixed F(4)", "expected_sigil_semicolon"},
		{"logical_type", `fixed @logicalType("duration") F(12);`, "annotation_not_allowed"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := opts.ParseFixed([]byte(test.src))
			expectParseError(t, err, test.want)
		})
	}
}

func TestParseRecord(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"empty",
			"record Empty {}",
			`{"type":"record","name":"Empty","fields":[]}`,
		},
		{
			"alias_then_namespace",
			`@aliases(["Old"]) @namespace("org.example") record R { int x; }`,
			`{"type":"record","name":"R","namespace":"org.example","aliases":["Old"],"fields":[{"name":"x","type":"int"}]}`,
		},
		{
			"namespace_then_alias",
			`@namespace("org.example") @aliases(["Old"]) record R { int x; }`,
			`{"type":"record","name":"R","namespace":"org.example","aliases":["Old"],"fields":[{"name":"x","type":"int"}]}`,
		},
		{
			"doc_after_annotations",
			`@namespace("a") /** Doc */ record R {}`,
			`{"type":"record","name":"R","namespace":"a","doc":"Doc","fields":[]}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := opts.ParseRecord([]byte(test.src))
			require.NoError(t, err)
			got, err := avsc.Marshal(result.Value)
			require.NoError(t, err)
			assert.Equal(t, test.want, string(got))
		})
	}
}

func TestParseRecordLongText(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 70000)
	result, err := syntax.NewParseOptions().ParseRecord([]byte(
		"/** " + long + " */ record R { string s = \"" + long + "\"; }",
	))
	require.NoError(t, err)
	assert.Equal(t, long, result.Value.Doc)
	require.Len(t, result.Value.Fields(), 1)
	assert.Equal(t, long, result.Value.Fields()[0].Default.Value)
}

func TestParseDocWhitespace(t *testing.T) {
	t.Parallel()

	// Surrounding whitespace is trimmed; inner whitespace is kept.
	result, err := syntax.NewParseOptions().ParseRecord([]byte(
		"/**   spaced   doc\n  second line   */ record R {}",
	))
	require.NoError(t, err)
	assert.Equal(t, "spaced   doc\n  second line", result.Value.Doc)
}

func TestParseRecordFieldLookup(t *testing.T) {
	t.Parallel()

	result, err := syntax.NewParseOptions().ParseRecord([]byte("record R { int a; string b; }"))
	require.NoError(t, err)
	field, ok := result.Value.Field("b")
	require.True(t, ok)
	assert.Equal(t, 1, field.Position())
	assert.Equal(t, schema.String, field.Type)
	_, ok = result.Value.Field("c")
	assert.False(t, ok)
}

func TestParseRecordErrors(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"duplicate_field", "record R { int a; long a; }", "invalid_record"},
		{"unterminated", "record R { int a;", "expected_type"},
		{"missing_name", "record { }", "expected_ident"},
		{"missing_brace", "record R int a; }", "expected_sigil_open_curl"},
		{"duplicate_namespace", `@namespace("a") @namespace("b") record R {}`, "duplicate_annotation"},
		{"invalid_namespace", `@namespace("a..b") record R {}`, "invalid_namespace"},
		{"not_a_record", "enum R { A }", "expected_keyword"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := opts.ParseRecord([]byte(test.src))
			expectParseError(t, err, test.want)
		})
	}
}

func TestParseProtocol(t *testing.T) {
	t.Parallel()

	src := []byte(`
/** Things */
@namespace("org.example")
protocol Things {
  record A { B b; }
  @namespace("org.other") enum B { X }
  fixed C(4);
}`)
	result, err := syntax.NewParseOptions().ParseProtocol(src)
	require.NoError(t, err)

	protocol := result.Value
	assert.Equal(t, "Things", protocol.Name)
	assert.Equal(t, "org.example", protocol.Namespace)
	assert.Equal(t, "Things", protocol.Doc)
	require.Len(t, protocol.Schemas, 3)

	var names []string
	for _, s := range protocol.Schemas {
		name, ok := schema.NamedType(s)
		require.True(t, ok)
		names = append(names, name.Fullname())
	}
	assert.Equal(t, []string{"org.example.A", "org.other.B", "org.example.C"}, names)
}

func TestParseProtocolErrors(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"field_at_top", "protocol P { int x; }", "expected_declaration"},
		{"unterminated", "protocol P { record A {}", "expected_declaration"},
		{"aliases", `@aliases(["Q"]) protocol P {}`, "annotation_not_allowed"},
		{"not_a_protocol", "record P {}", "expected_keyword"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := opts.ParseProtocol([]byte(test.src))
			expectParseError(t, err, test.want)
		})
	}
}

func TestDefaultNamespace(t *testing.T) {
	t.Parallel()

	src := []byte(`record A {} `)
	result, err := syntax.Parse(src, syntax.DefaultNamespace("org.default"))
	require.NoError(t, err)
	name, _ := schema.NamedType(result.Value.Schemas[0])
	assert.Equal(t, "org.default.A", name.Fullname())

	src = []byte(`@namespace("org.own") record A {}`)
	result, err = syntax.Parse(src, syntax.DefaultNamespace("org.default"))
	require.NoError(t, err)
	name, _ = schema.NamedType(result.Value.Schemas[0])
	assert.Equal(t, "org.own.A", name.Fullname())

	_, err = syntax.Parse(src, syntax.DefaultNamespace("not..valid"))
	expectParseError(t, err, "invalid_namespace")
}

func TestParseWholeDocument(t *testing.T) {
	t.Parallel()

	result, err := syntax.Parse([]byte("enum E { A } // trailing comment\n"))
	require.NoError(t, err)
	assert.Equal(t, "", result.Value.Name)
	require.Len(t, result.Value.Schemas, 1)
	assert.Empty(t, result.Rest)

	_, err = syntax.Parse([]byte("enum E { A } enum F { B }"))
	expectParseError(t, err, "trailing_input")

	_, err = syntax.Parse([]byte("  "))
	expectParseError(t, err, "expected_top_level")
}

func TestEmployeeCanonicalForm(t *testing.T) {
	t.Parallel()

	src := []byte(`
@namespace("org.example")
/** An employee record. */
record Employee {
  string name;
  boolean active = true;
  /** Monthly salary. */
  long @order("descending") salary;
  union { null, string } @aliases(["boss"]) manager = null;
}`)
	result, err := syntax.Parse(src)
	require.NoError(t, err)
	employee := result.Value.Schemas[0]

	assert.Equal(t,
		`{"name":"org.example.Employee","type":"record","fields":[`+
			`{"name":"name","type":"string"},`+
			`{"name":"active","type":"boolean"},`+
			`{"name":"salary","type":"long"},`+
			`{"name":"manager","type":["null","string"]}]}`,
		schema.CanonicalForm(employee),
	)

	doc, err := avsc.Marshal(employee)
	require.NoError(t, err)
	require.NoError(t, avsc.Verify(doc))
}

func TestPosition(t *testing.T) {
	t.Parallel()

	src := []byte("record A {\n  int x = \"é\";\n}")
	tests := []struct {
		offset uint32
		line   int
		col    int
	}{
		{0, 1, 1},
		{7, 1, 8},
		{11, 2, 1},
		{13, 2, 3},
		{24, 2, 13},
		{1000, 3, 2},
	}
	for _, test := range tests {
		line, col := syntax.Position(src, test.offset)
		assert.Equalf(t, test.line, line, "line at offset %d", test.offset)
		assert.Equalf(t, test.col, col, "column at offset %d", test.offset)
	}
}

func TestLogicalTypeBaseWarning(t *testing.T) {
	t.Parallel()
	opts := syntax.NewParseOptions()

	tests := []struct {
		src  string
		want []uint32
	}{
		{`@logicalType("timestamp-micros") long ts;`, nil},
		{`@logicalType("time-micros") long t;`, nil},
		{`@logicalType("duration") Span12 d;`, nil},
		{`@logicalType("timestamp-micros") int ts;`, []uint32{4002}},
		{`@logicalType("time-micros") string t;`, []uint32{4002}},
		{`@logicalType("duration") bytes d;`, []uint32{4002}},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			result, err := opts.ParseField([]byte(test.src))
			require.NoError(t, err)
			var codes []uint32
			for _, w := range result.Warnings {
				codes = append(codes, w.Code())
			}
			assert.Equal(t, test.want, codes)
		})
	}

	result, err := opts.ParseField([]byte(`@logicalType("timestamp-micros") int ts;`))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, syntax.NewSpan(33, 3), result.Warnings[0].Span())
	assert.Equal(t, schema.TimestampMicros, result.Value.Type)
	assert.Contains(t, result.Warnings[0].Message(), `"timestamp-micros" annotates int, expected long`)
}

func TestProtocolSpans(t *testing.T) {
	t.Parallel()

	src := []byte("protocol P {\n  record A { B b; }\n  enum B { X }\n}")
	result, err := syntax.Parse(src)
	require.NoError(t, err)
	protocol := result.Value
	require.Len(t, protocol.Schemas, 2)

	record := protocol.Schemas[0].(*schema.Record)
	assert.Equal(t, syntax.NewSpan(22, 1), protocol.Span(record))
	field, _ := record.Field("b")
	assert.Equal(t, syntax.NewSpan(26, 1), protocol.Span(field.Type))
	assert.Equal(t, syntax.NewSpan(40, 1), protocol.Span(protocol.Schemas[1]))
	assert.Equal(t, syntax.Span{}, protocol.Span(schema.Int))
}
