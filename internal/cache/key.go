package cache

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Key serializes args into a stable lookup key.
//
// Booleans, numbers and strings are encoded structurally together with their
// kind, so the int 1 and the string "1" are different keys. Arrays, slices and
// structs are encoded element by element in order, maps by their sorted
// entries, and pointers by what they point to. Negative zero shares the key of
// zero and every NaN shares one key.
//
// Channels, funcs and unsafe pointers have no structural encoding, and
// neither do cyclic values. Key panics with an error wrapping ErrUnkeyable for
// those; use WithKeyFunc instead.
func Key(args any) string {
	w := keyWriter{visiting: make(map[visit]bool)}
	w.write(reflect.ValueOf(args))
	return w.b.String()
}

type visit struct {
	ptr uintptr
	typ reflect.Type
}

type keyWriter struct {
	b        strings.Builder
	visiting map[visit]bool
}

func (w *keyWriter) write(v reflect.Value) {
	if !v.IsValid() {
		w.b.WriteString("nil")
		return
	}

	switch v.Kind() {
	case reflect.Bool:
		w.b.WriteString("b:")
		w.b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.b.WriteString("i:")
		w.b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		w.b.WriteString("u:")
		w.b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		w.b.WriteString("f:")
		w.b.WriteString(strconv.FormatFloat(positiveZero(v.Float()), 'g', -1, 64))
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		w.b.WriteString("c:")
		w.b.WriteString(strconv.FormatComplex(complex(positiveZero(real(c)), positiveZero(imag(c))), 'g', -1, 128))
	case reflect.String:
		w.b.WriteString("s:")
		w.b.WriteString(strconv.Quote(v.String()))
	case reflect.Slice:
		if v.IsNil() {
			w.b.WriteString("nil")
			return
		}
		w.enter(v, func() { w.writeSequence(v) })
	case reflect.Array:
		w.writeSequence(v)
	case reflect.Struct:
		w.b.WriteByte('{')
		for i := range v.NumField() {
			if i > 0 {
				w.b.WriteByte(',')
			}
			w.write(v.Field(i))
		}
		w.b.WriteByte('}')
	case reflect.Interface:
		if v.IsNil() {
			w.b.WriteString("nil")
			return
		}
		w.write(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			w.b.WriteString("nil")
			return
		}
		w.enter(v, func() {
			w.b.WriteByte('&')
			w.write(v.Elem())
		})
	case reflect.Map:
		if v.IsNil() {
			w.b.WriteString("nil")
			return
		}
		w.enter(v, func() { w.writeMap(v) })
	default:
		// Chan, Func, UnsafePointer
		panic(fmt.Errorf("%w: %s", ErrUnkeyable, v.Type()))
	}
}

// enter runs write for a reference value, failing on cycles
func (w *keyWriter) enter(v reflect.Value, write func()) {
	at := visit{ptr: v.Pointer(), typ: v.Type()}
	if w.visiting[at] {
		panic(fmt.Errorf("%w: cyclic %s", ErrUnkeyable, v.Type()))
	}
	w.visiting[at] = true
	defer delete(w.visiting, at)

	write()
}

func (w *keyWriter) writeSequence(v reflect.Value) {
	w.b.WriteByte('[')
	for i := range v.Len() {
		if i > 0 {
			w.b.WriteByte(',')
		}
		w.write(v.Index(i))
	}
	w.b.WriteByte(']')
}

func (w *keyWriter) writeMap(v reflect.Value) {
	entries := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entry := keyWriter{visiting: w.visiting}
		entry.write(iter.Key())
		entry.b.WriteByte(':')
		entry.write(iter.Value())
		entries = append(entries, entry.b.String())
	}
	slices.Sort(entries)

	w.b.WriteString("m{")
	w.b.WriteString(strings.Join(entries, ","))
	w.b.WriteByte('}')
}

func positiveZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

// checkKeyable reports whether values of t can always be keyed structurally.
//
// Interface types are only checked when a value is keyed.
func checkKeyable(t reflect.Type) error {
	return checkKeyableType(t, make(map[reflect.Type]bool))
}

func checkKeyableType(t reflect.Type, seen map[reflect.Type]bool) error {
	if seen[t] {
		return nil
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return fmt.Errorf("%w: %s", ErrUnkeyable, t)
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return checkKeyableType(t.Elem(), seen)
	case reflect.Map:
		if err := checkKeyableType(t.Key(), seen); err != nil {
			return err
		}
		return checkKeyableType(t.Elem(), seen)
	case reflect.Struct:
		for i := range t.NumField() {
			if err := checkKeyableType(t.Field(i).Type, seen); err != nil {
				return fmt.Errorf("field %s: %w", t.Field(i).Name, err)
			}
		}
	}
	return nil
}
