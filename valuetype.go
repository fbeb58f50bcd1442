package mlcli

import (
	"fmt"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map"

	"github.com/multilevelcli/mlcli/parse"
	"github.com/multilevelcli/mlcli/util"
)

// TypeKind discriminates the three shapes a ValueType can take.
type TypeKind int

const (
	// KindScalar converts a single token through a ConvertFunc.
	KindScalar TypeKind = iota
	// KindList is an ordered, homogeneous sequence denoted '[v1, v2, ...]'.
	KindList
	// KindStruct is a keyed record denoted '{k1 = v1, k2 = v2, ...}'.
	KindStruct
)

// ConvertFunc converts a token (already stripped of quotes and surrounding
// whitespace) to a value.
type ConvertFunc func(token string) (interface{}, error)

// ValueType describes the shape of an option or argument value: a scalar
// conversion, a list of a single element type, or a struct of named typed
// fields. Lists and structs nest without limit. The full recursive shape is
// resolved when the type is built, before any parsing occurs.
type ValueType struct {
	kind    TypeKind
	name    string
	convert ConvertFunc
	elem    *ValueType
	fields  *orderedmap.OrderedMap // field name -> *ValueType
}

// Field names a struct field and its type, see StructOf.
type Field struct {
	Name string
	Type *ValueType
}

// Scalar builds a scalar type with a custom converter. The name is used in
// usage output ("<name>").
func Scalar(name string, convert ConvertFunc) *ValueType {
	return &ValueType{kind: KindScalar, name: name, convert: convert}
}

// String is the scalar type for plain string values.
func String() *ValueType {
	return Scalar("string", func(token string) (interface{}, error) {
		return token, nil
	})
}

// Int is the scalar type for int64 values.
func Int() *ValueType {
	return Scalar("int", func(token string) (interface{}, error) {
		return util.ParseInt(token)
	})
}

// Float is the scalar type for float64 values.
func Float() *ValueType {
	return Scalar("float", func(token string) (interface{}, error) {
		return util.ParseFloat(token)
	})
}

// Bool is the scalar type for bool values.
func Bool() *ValueType {
	return Scalar("bool", func(token string) (interface{}, error) {
		return util.ParseBool(token)
	})
}

// Time is the scalar type for time.Time values in any layout dateparse
// recognizes.
func Time() *ValueType {
	return Scalar("time", func(token string) (interface{}, error) {
		return util.ParseTime(token)
	})
}

// ListOf builds a list type over elem. A nil elem defaults to String.
func ListOf(elem *ValueType) *ValueType {
	if elem == nil {
		elem = String()
	}
	return &ValueType{kind: KindList, elem: elem}
}

// StructOf builds a struct type from the given fields, in order. A field
// with a nil type defaults to String.
func StructOf(fields ...Field) *ValueType {
	m := orderedmap.New()
	for _, f := range fields {
		t := f.Type
		if t == nil {
			t = String()
		}
		m.Set(f.Name, t)
	}
	return &ValueType{kind: KindStruct, fields: m}
}

// Kind returns the shape of the type.
func (t *ValueType) Kind() TypeKind {
	return t.kind
}

// Elem returns the element type of a list type, or nil.
func (t *ValueType) Elem() *ValueType {
	return t.elem
}

// TypeName renders the type for usage output: "<int>", "[ int ]",
// "{ name : string, age : int }", nesting as needed.
func (t *ValueType) TypeName() string {
	switch t.kind {
	case KindList:
		return "[ " + strings.Trim(t.elem.TypeName(), "<>") + " ]"
	case KindStruct:
		var b strings.Builder
		b.WriteString("{")
		for p := t.fields.Oldest(); p != nil; p = p.Next() {
			if b.Len() > 1 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %s : %s", p.Key, strings.Trim(p.Value.(*ValueType).TypeName(), "<>"))
		}
		b.WriteString(" }")
		return b.String()
	default:
		return "<" + t.name + ">"
	}
}

// parseValue converts a single token through the type, recursing into list
// and struct interiors. path is the fully qualified dotted name of the
// option or argument being bound and is only used in error messages.
// Lists yield []interface{}, structs yield *Namespace holding only the keys
// actually supplied.
func (t *ValueType) parseValue(path, token string) (interface{}, error) {
	switch t.kind {
	case KindList:
		return t.parseList(path, token)
	case KindStruct:
		return t.parseStruct(path, token)
	default:
		val, err := t.convert(util.Strip(token))
		if err != nil {
			return nil, fmt.Errorf("%w: token %q for %s does not convert to %s", ErrArgumentType, token, path, t.name)
		}
		return val, nil
	}
}

func (t *ValueType) parseList(path, token string) (interface{}, error) {
	s := strings.TrimSpace(token)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: token %q for %s must conform to '[v1, v2, ...]'", ErrArgumentType, token, path)
	}
	items, err := parse.SplitSep(s[1:len(s)-1], ',')
	if err != nil {
		return nil, fmt.Errorf("%w: token %q for %s: %v", ErrArgumentType, token, path, err)
	}

	values := make([]interface{}, 0, len(items))
	for _, item := range items {
		val, err := t.elem.parseValue(path, item)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}

	return values, nil
}

func (t *ValueType) parseStruct(path, token string) (interface{}, error) {
	s := strings.TrimSpace(token)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("%w: token %q for %s must conform to '{k1 = v1, k2 = v2, ...}'", ErrArgumentType, token, path)
	}
	items, err := parse.SplitSep(s[1:len(s)-1], ',')
	if err != nil {
		return nil, fmt.Errorf("%w: token %q for %s: %v", ErrArgumentType, token, path, err)
	}

	record := NewNamespace()
	for _, item := range items {
		keyVal, err := parse.SplitSep(item, '=')
		if err != nil || len(keyVal) != 2 {
			return nil, fmt.Errorf("%w: token %q for %s is not a 'key = value' pair", ErrArgumentType, item, path)
		}
		key := util.Strip(keyVal[0])
		fieldType, ok := t.fields.Get(key)
		if !ok {
			return nil, fmt.Errorf("%w: token %q for %s references unknown key %q", ErrArgumentKey, item, path, key)
		}
		val, err := fieldType.(*ValueType).parseValue(path+"."+key, keyVal[1])
		if err != nil {
			return nil, err
		}
		record.Set(key, val)
	}

	return record, nil
}

// acceptsDefault reports whether v is a plausible default value for the
// type. Defaults are declared in Go code, so this is a declaration-time
// sanity check rather than a full conversion.
func (t *ValueType) acceptsDefault(v interface{}) bool {
	switch t.kind {
	case KindList:
		_, ok := v.([]interface{})
		return ok
	case KindStruct:
		_, ok := v.(*Namespace)
		return ok
	default:
		switch t.name {
		case "string":
			_, ok := v.(string)
			return ok
		case "int":
			switch v.(type) {
			case int, int64:
				return true
			}
			return false
		case "float":
			_, ok := v.(float64)
			return ok
		case "bool":
			_, ok := v.(bool)
			return ok
		case "time":
			_, ok := v.(time.Time)
			return ok
		default:
			return true
		}
	}
}
