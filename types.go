// types.go — the IdzeyKL runtime value model.
//
// Value is a tagged sum over eight cases. Integer and Number are distinct
// tags sharing the IsNumber predicate; arithmetic narrows double results back
// to Integer whenever the result is exactly representable, so integer
// programs stay in integer arithmetic.
//
// Arrays have value semantics: every mutation path copies the backing slice
// before writing, so a value read out of a variable never aliases another
// binding.
//
// Two deliberate compatibility quirks live here: division (and modulo) by
// zero yields Integer 0, and element assignment silently refuses to grow an
// array past index 1000.
package idzeykl

import (
	"math"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNull   ValueTag = iota // null (no payload)
	VTInt                    // int64
	VTNum                    // float64
	VTStr                    // string
	VTBool                   // bool
	VTArray                  // []Value
	VTFun                    // *Fun
	VTNative                 // *Native
)

// Value is the universal runtime carrier. Tag determines which Go type Data
// holds (see ValueTag).
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Null is the singleton null Value.
var Null = Value{Tag: VTNull}

// Primitive constructors.
func Bool(b bool) Value    { return Value{Tag: VTBool, Data: b} }
func Int(n int64) Value    { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value  { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value   { return Value{Tag: VTStr, Data: s} }
func Arr(xs []Value) Value { return Value{Tag: VTArray, Data: xs} }

// Fun is a user-defined function value. Body is an independent deep clone of
// the declaration's block, so re-executing from a fresh call frame is
// unaffected by any AST mutation elsewhere. Body may be nil for a bare
// prototype; calling one runs an empty body.
type Fun struct {
	Name   string
	Params []string
	Body   *BlockStmt
}

// FunVal wraps *Fun into a Value.
func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

// Native is a host-implemented callable installed via RegisterNative.
type Native struct {
	Name string
	Impl NativeImpl
}

// NativeVal wraps *Native into a Value.
func NativeVal(n *Native) Value { return Value{Tag: VTNative, Data: n} }

// IsNumber reports whether v is Integer or Number.
func (v Value) IsNumber() bool { return v.Tag == VTInt || v.Tag == VTNum }

// IsCallable reports whether v can be invoked.
func (v Value) IsCallable() bool { return v.Tag == VTFun || v.Tag == VTNative }

// ─────────────────────────── coercions ───────────────────────────

// narrow reduces a double to Integer when it equals its truncation.
func narrow(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return Int(int64(f))
	}
	return Num(f)
}

// AsNumber coerces v to a double. Strings parse fully or yield 0.
func (v Value) AsNumber() float64 {
	switch v.Tag {
	case VTNum:
		return v.Data.(float64)
	case VTInt:
		return float64(v.Data.(int64))
	case VTStr:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Data.(string)), 64)
		if err != nil {
			return 0
		}
		return f
	case VTBool:
		if v.Data.(bool) {
			return 1
		}
		return 0
	case VTArray:
		return float64(len(v.Data.([]Value)))
	default: // null, functions
		return 0
	}
}

// AsInteger coerces v to a machine integer (truncating doubles).
func (v Value) AsInteger() int64 {
	switch v.Tag {
	case VTInt:
		return v.Data.(int64)
	case VTNum:
		return int64(v.Data.(float64))
	case VTStr:
		s := strings.TrimSpace(v.Data.(string))
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return 0
	case VTBool:
		if v.Data.(bool) {
			return 1
		}
		return 0
	case VTArray:
		return int64(len(v.Data.([]Value)))
	default:
		return 0
	}
}

// Truthy is the language-wide boolean coercion: null and zero and empty are
// false; everything else is true.
func (v Value) Truthy() bool {
	switch v.Tag {
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTNum:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	case VTNull:
		return false
	case VTArray:
		return len(v.Data.([]Value)) != 0
	default:
		return true
	}
}

// ToString renders v the way print and string concatenation see it. Doubles
// use fixed six-decimal rendering, so trailing zeros appear.
func (v Value) ToString() string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'f', 6, 64)
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTStr:
		return v.Data.(string)
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.Data.([]Value) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.ToString())
		}
		b.WriteByte(']')
		return b.String()
	case VTFun:
		return "<function " + v.Data.(*Fun).Name + ">"
	case VTNative:
		return "<native function>"
	default:
		return "unknown"
	}
}

// ─────────────────────────── arithmetic ───────────────────────────

func valueAdd(a, b Value) Value {
	if a.Tag == VTInt && b.Tag == VTInt {
		return Int(a.Data.(int64) + b.Data.(int64))
	}
	if a.IsNumber() && b.IsNumber() {
		return narrow(a.AsNumber() + b.AsNumber())
	}
	if a.Tag == VTStr || b.Tag == VTStr {
		return Str(a.ToString() + b.ToString())
	}
	if a.Tag == VTArray && b.Tag == VTArray {
		ax := a.Data.([]Value)
		bx := b.Data.([]Value)
		out := make([]Value, 0, len(ax)+len(bx))
		out = append(out, ax...)
		out = append(out, bx...)
		return Arr(out)
	}
	if a.IsNumber() || b.IsNumber() {
		return narrow(a.AsNumber() + b.AsNumber())
	}
	return Str(a.ToString() + b.ToString())
}

func valueSub(a, b Value) Value {
	if a.Tag == VTInt && b.Tag == VTInt {
		return Int(a.Data.(int64) - b.Data.(int64))
	}
	return narrow(a.AsNumber() - b.AsNumber())
}

func valueMul(a, b Value) Value {
	if a.Tag == VTInt && b.Tag == VTInt {
		return Int(a.Data.(int64) * b.Data.(int64))
	}
	return narrow(a.AsNumber() * b.AsNumber())
}

// valueDiv divides with the compatibility rule that a zero divisor yields
// Integer 0. Exact integer division stays Integer.
func valueDiv(a, b Value) Value {
	divisor := b.AsNumber()
	if divisor == 0 {
		return Int(0)
	}
	if a.Tag == VTInt && b.Tag == VTInt && a.Data.(int64)%b.Data.(int64) == 0 {
		return Int(a.Data.(int64) / b.Data.(int64))
	}
	return narrow(a.AsNumber() / divisor)
}

// valueMod takes the remainder; a zero divisor yields Integer 0 and mixed
// operands fall back to IEEE fmod.
func valueMod(a, b Value) Value {
	divisor := b.AsNumber()
	if divisor == 0 {
		return Int(0)
	}
	if a.Tag == VTInt && b.Tag == VTInt {
		return Int(a.Data.(int64) % b.Data.(int64))
	}
	return narrow(math.Mod(a.AsNumber(), divisor))
}

// ─────────────────────────── equality & ordering ───────────────────────────

func valueEqual(a, b Value) bool {
	if a.Tag == VTNull && b.Tag == VTNull {
		return true
	}
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() == b.AsNumber()
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return a.Data.(string) == b.Data.(string)
	}
	if a.Tag == VTBool && b.Tag == VTBool {
		return a.Data.(bool) == b.Data.(bool)
	}
	if (a.IsNumber() || b.IsNumber()) && (a.Tag == VTStr || b.Tag == VTStr) {
		return a.AsNumber() == b.AsNumber()
	}
	if a.Tag == VTBool || b.Tag == VTBool {
		return a.Truthy() == b.Truthy()
	}
	if a.Tag == VTArray || b.Tag == VTArray {
		return a.ToString() == b.ToString()
	}
	return false
}

func valueLess(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() < b.AsNumber()
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return a.Data.(string) < b.Data.(string)
	}
	if (a.IsNumber() || b.IsNumber()) && (a.Tag == VTStr || b.Tag == VTStr) {
		return a.AsNumber() < b.AsNumber()
	}
	if a.Tag == VTBool || b.Tag == VTBool {
		return a.AsNumber() < b.AsNumber()
	}
	if a.Tag == VTArray && b.Tag == VTArray {
		return len(a.Data.([]Value)) < len(b.Data.([]Value))
	}
	return a.ToString() < b.ToString()
}

func valueLessEq(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() <= b.AsNumber()
	}
	return valueLess(a, b) || valueEqual(a, b)
}

func valueGreater(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() > b.AsNumber()
	}
	return !valueLessEq(a, b)
}

func valueGreaterEq(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsNumber() >= b.AsNumber()
	}
	return !valueLess(a, b)
}

// ─────────────────────────── indexing & properties ───────────────────────────

// getArrayElement reads v at index. Arrays return the element or null when
// out of range. Strings return the whole string at index 0 (a preserved
// compatibility quirk) and a one-character string at positive in-range byte
// indexes. Any other value returns itself at index 0 and null elsewhere.
func getArrayElement(v Value, index int64) Value {
	switch v.Tag {
	case VTArray:
		xs := v.Data.([]Value)
		if index < 0 || index >= int64(len(xs)) {
			return Null
		}
		return xs[index]
	case VTStr:
		s := v.Data.(string)
		if index == 0 {
			return v
		}
		if index > 0 && index < int64(len(s)) {
			return Str(string(s[index]))
		}
		return Null
	default:
		if index == 0 {
			return v
		}
		return Null
	}
}

// maxGrowIndex caps silent array growth on element assignment.
const maxGrowIndex = 1000

// setArrayElement returns a copy of v with element index set to x, applying
// the language's conversion rules: a string becomes a one-element array
// holding itself, any other non-array becomes an empty array. Negative
// indexes and indexes past maxGrowIndex leave the (converted) array
// unchanged. Growth fills with null.
func setArrayElement(v Value, index int64, x Value) Value {
	var xs []Value
	switch v.Tag {
	case VTArray:
		xs = append([]Value(nil), v.Data.([]Value)...)
	case VTStr:
		xs = []Value{v}
	default:
		xs = []Value{}
	}

	if index < 0 {
		return Arr(xs)
	}
	if index >= int64(len(xs)) {
		if index > maxGrowIndex {
			return Arr(xs)
		}
		for int64(len(xs)) <= index {
			xs = append(xs, Null)
		}
	}
	xs[index] = x
	return Arr(xs)
}

// getProperty resolves the single built-in property "length": element count
// for arrays, byte length for strings, 1 for everything else. Unknown
// properties yield null.
func getProperty(v Value, name string) Value {
	if name == "length" {
		switch v.Tag {
		case VTArray:
			return Int(int64(len(v.Data.([]Value))))
		case VTStr:
			return Int(int64(len(v.Data.(string))))
		default:
			return Int(1)
		}
	}
	return Null
}
