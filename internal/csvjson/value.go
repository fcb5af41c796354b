// Package csvjson turns uploaded CSV text into JSON records with
// normalised keys and typed cells.
package csvjson

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	Null Kind = iota
	String
	Number
	Bool
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a single CSV cell after type coercion.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func NullValue() Value           { return Value{kind: Null} }
func StringValue(s string) Value { return Value{kind: String, str: s} }
func BoolValue(b bool) Value     { return Value{kind: Bool, b: b} }

// NumberValue stores negative zero as zero.
func NumberValue(n float64) Value {
	if n == 0 {
		n = 0
	}
	return Value{kind: Number, num: n}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) Str() string  { return v.str }
func (v Value) Num() float64 { return v.num }
func (v Value) Bool() bool   { return v.b }

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case String:
		return encodeString(v.str)
	case Number:
		return json.Marshal(v.num)
	case Bool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// Integers beyond this magnitude lose precision as float64 and stay strings.
const maxExactFloat = 1 << 53

var numeral = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// Coerce infers a cell type: true/TRUE and false/FALSE are booleans,
// decimal numerals are numbers, the empty string is null, anything else is
// kept verbatim as a string.
func Coerce(raw string) Value {
	switch raw {
	case "true", "TRUE":
		return BoolValue(true)
	case "false", "FALSE":
		return BoolValue(false)
	case "":
		return NullValue()
	}
	if numeral.MatchString(raw) {
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil && math.Abs(n) < maxExactFloat {
			return NumberValue(n)
		}
	}
	return StringValue(raw)
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
