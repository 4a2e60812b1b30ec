package util

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// Squash lower-cases s and drops every whitespace rune.
func Squash(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TypePath turns a type name into a slash separated snake_case path.
// "Widget" -> "widget", "*shop.Widget" -> "shop/widget",
// "admin::WidgetPart" -> "admin/widget_part", "Page[int]" -> "page".
func TypePath(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, "::", "/")
	name = strings.ReplaceAll(name, ".", "/")

	segs := strings.Split(name, "/")
	out := segs[:0]
	for _, s := range segs {
		if s = ToSnake(s); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// ToSnake converts s to snake_case using ASCII-aware rules. Punctuation
// (pointer stars, generic brackets) collapses into underscores and is trimmed
// from the ends so reflected type names stay usable as key prefixes.
func ToSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 && !lastUnderscore {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (nextLower && unicode.IsUpper(prev)) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}

// Arg renders one lookup argument deterministically.
func Arg(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return Arg(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Arg(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")

	case reflect.Map:
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, Arg(iter.Key().Interface())+"="+Arg(iter.Value().Interface()))
		}
		sort.Strings(pairs)
		return strings.Join(pairs, "&")

	case reflect.Struct:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%+v", v)
		}
		return string(b)

	case reflect.Func, reflect.Chan:
		return fmt.Sprintf("%s:%p", rv.Kind(), v)
	}

	return fmt.Sprintf("%v", v)
}
