package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// ColumnType enumerates the scalar types a canonical column may hold.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeBool   ColumnType = "bool"
	TypeDate   ColumnType = "date"
)

// Value is one typed scalar cell. The zero Value is a null string.
type Value struct {
	typ  ColumnType
	null bool
	str  string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

func String(v string) Value  { return Value{typ: TypeString, str: v} }
func Int(v int64) Value      { return Value{typ: TypeInt, i: v} }
func Float(v float64) Value  { return Value{typ: TypeFloat, f: v} }
func Bool(v bool) Value      { return Value{typ: TypeBool, b: v} }
func Date(v time.Time) Value { return Value{typ: TypeDate, t: v.UTC().Truncate(24 * time.Hour)} }
func Null(t ColumnType) Value { return Value{typ: t, null: true} }

func (v Value) Type() ColumnType { return v.typ }
func (v Value) IsNull() bool     { return v.null }

func (v Value) StringVal() (string, bool) {
	if v.null || v.typ != TypeString {
		return "", false
	}
	return v.str, true
}

func (v Value) IntVal() (int64, bool) {
	if v.null || v.typ != TypeInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) FloatVal() (float64, bool) {
	if v.null || v.typ != TypeFloat {
		return 0, false
	}
	return v.f, true
}

func (v Value) BoolVal() (bool, bool) {
	if v.null || v.typ != TypeBool {
		return false, false
	}
	return v.b, true
}

func (v Value) DateVal() (time.Time, bool) {
	if v.null || v.typ != TypeDate {
		return time.Time{}, false
	}
	return v.t, true
}

// Numeric widens int and float cells to float64 for aggregation math.
func (v Value) Numeric() (float64, bool) {
	if v.null {
		return 0, false
	}
	switch v.typ {
	case TypeInt:
		return float64(v.i), true
	case TypeFloat:
		return v.f, true
	}
	return 0, false
}

// Text renders the value in its canonical string form. Nulls render empty.
// Used for natural-key tuples and serialization, so it must be deterministic.
func (v Value) Text() string {
	if v.null {
		return ""
	}
	switch v.typ {
	case TypeString:
		return v.str
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeDate:
		return v.t.Format("2006-01-02")
	}
	return ""
}

func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	if v.null || other.null {
		return v.null == other.null
	}
	switch v.typ {
	case TypeString:
		return v.str == other.str
	case TypeInt:
		return v.i == other.i
	case TypeFloat:
		return v.f == other.f
	case TypeBool:
		return v.b == other.b
	case TypeDate:
		return v.t.Equal(other.t)
	}
	return false
}

// Native returns the cell as a plain Go value for serialization, nil when null.
func (v Value) Native() any {
	if v.null {
		return nil
	}
	switch v.typ {
	case TypeString:
		return v.str
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	case TypeBool:
		return v.b
	case TypeDate:
		return v.t.Format("2006-01-02")
	}
	return nil
}

// Record is one canonical row: cells aligned to the schema's column order.
type Record []Value

func (r Record) Clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

func (r Record) String() string {
	return fmt.Sprintf("record(%d cells)", len(r))
}
