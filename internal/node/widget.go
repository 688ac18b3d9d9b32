package node

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the widget type and the value it carries.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindToggle
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "DoubleSpinBox"
	case KindInt:
		return "SpinBox"
	case KindToggle:
		return "PushButton"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Widget declares one configuration control.
type Widget struct {
	Name     string
	Kind     Kind
	Default  Value
	Min      float64
	HasMin   bool
	Decimals int
}

// FloatWidget declares a floating point spin box with a lower bound.
func FloatWidget(name string, def, min float64, decimals int) Widget {
	return Widget{Name: name, Kind: KindFloat, Default: Float(def), Min: min, HasMin: true, Decimals: decimals}
}

// IntWidget declares an integer spin box with a lower bound.
func IntWidget(name string, def, min int) Widget {
	return Widget{Name: name, Kind: KindInt, Default: Int(def), Min: float64(min), HasMin: true}
}

// ToggleWidget declares an on/off push button.
func ToggleWidget(name string, def bool) Widget {
	return Widget{Name: name, Kind: KindToggle, Default: Bool(def)}
}

// Accept converts v to the widget's kind and enforces its minimum. Float
// values are rounded to the widget's decimals, as a spin box would show them.
func (w Widget) Accept(v Value) (Value, error) {
	var out Value
	switch w.Kind {
	case KindFloat:
		if v.kind == KindToggle {
			return Value{}, fmt.Errorf("widget %q: expects a number, got %s", w.Name, v)
		}
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("widget %q: %s is not a finite number", w.Name, v)
		}
		out = Float(roundTo(f, w.Decimals))
	case KindInt:
		if v.kind != KindInt {
			return Value{}, fmt.Errorf("widget %q: expects an integer, got %s", w.Name, v)
		}
		out = v
	case KindToggle:
		if v.kind != KindToggle {
			return Value{}, fmt.Errorf("widget %q: expects a toggle, got %s", w.Name, v)
		}
		out = v
	}
	if w.HasMin && out.Float() < w.Min {
		return Value{}, fmt.Errorf("widget %q: %s is below minimum %s", w.Name, out, strconv.FormatFloat(w.Min, 'g', -1, 64))
	}
	return out, nil
}

// Value is a scalar widget value.
type Value struct {
	kind Kind
	f    float64
	i    int
	b    bool
}

func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

func Int(v int) Value { return Value{kind: KindInt, i: v} }

func Bool(v bool) Value { return Value{kind: KindToggle, b: v} }

// Kind reports which constructor produced v.
func (v Value) Kind() Kind { return v.kind }

// Float returns v as a float64. Toggles read as 0 or 1.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindToggle:
		if v.b {
			return 1
		}
		return 0
	default:
		return v.f
	}
}

// Int returns v as an int; floats are truncated toward zero.
func (v Value) Int() int {
	switch v.kind {
	case KindFloat:
		return int(v.f)
	case KindToggle:
		if v.b {
			return 1
		}
		return 0
	default:
		return v.i
	}
}

// Bool returns v as a bool; numbers are true when nonzero.
func (v Value) Bool() bool {
	switch v.kind {
	case KindFloat:
		return v.f != 0
	case KindInt:
		return v.i != 0
	default:
		return v.b
	}
}

// String formats v the way it is passed on a command line.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.Itoa(v.i)
	default:
		return strconv.FormatBool(v.b)
	}
}

// ParseValue converts text for the given widget kind.
func ParseValue(kind Kind, text string) (Value, error) {
	switch kind {
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case KindInt:
		i, err := strconv.Atoi(text)
		if err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case KindToggle:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	default:
		return Value{}, fmt.Errorf("unknown widget kind %d", int(kind))
	}
}

// roundTo rounds f to decimals places. Non-positive decimals and magnitudes
// too large to scale are returned unchanged.
func roundTo(f float64, decimals int) float64 {
	if decimals <= 0 {
		return f
	}
	scale := math.Pow10(decimals)
	if math.Abs(f)*scale >= 1<<53 {
		return f
	}
	return math.Round(f*scale) / scale
}
