package quizgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// JSONKind identifies the concrete type stored in a JSONValue.
type JSONKind int

const (
	JSONNull JSONKind = iota
	JSONString
	JSONNumber
	JSONBool
	JSONObject
	JSONArray
)

func (k JSONKind) String() string {
	switch k {
	case JSONNull:
		return "null"
	case JSONString:
		return "string"
	case JSONNumber:
		return "number"
	case JSONBool:
		return "bool"
	case JSONObject:
		return "object"
	case JSONArray:
		return "array"
	default:
		return fmt.Sprintf("JSONKind(%d)", int(k))
	}
}

// JSONValue is an unvalidated JSON value. Model output is decoded into it
// and narrowed into domain types only after each check passes.
type JSONValue struct {
	Kind   JSONKind
	String string
	Number float64
	Bool   bool
	Object map[string]JSONValue
	Array  []JSONValue
}

// DecodeJSONValue strictly decodes data as exactly one JSON value. Trailing
// non-whitespace content is an error.
func DecodeJSONValue(data []byte) (JSONValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return JSONValue{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected content after top-level value at offset %d", dec.InputOffset())
		}
		return JSONValue{}, err
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *JSONValue) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSONValue(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// MaxJSONDepth bounds array and object nesting. A quiz document needs four
// levels.
const MaxJSONDepth = 64

// ErrJSONTooDeep is returned when nesting exceeds MaxJSONDepth.
var ErrJSONTooDeep = errors.New("json nesting exceeds maximum depth")

func decodeValue(dec *json.Decoder, depth int) (JSONValue, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return JSONValue{}, io.ErrUnexpectedEOF
		}
		return JSONValue{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if (t == '{' || t == '[') && depth >= MaxJSONDepth {
			return JSONValue{}, fmt.Errorf("%w (%d) at offset %d", ErrJSONTooDeep, MaxJSONDepth, dec.InputOffset())
		}
		switch t {
		case '{':
			obj := make(map[string]JSONValue)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return JSONValue{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return JSONValue{}, fmt.Errorf("object key is %T, not string", keyTok)
				}
				child, err := decodeValue(dec, depth+1)
				if err != nil {
					return JSONValue{}, err
				}
				obj[key] = child
			}
			if _, err := dec.Token(); err != nil {
				return JSONValue{}, err
			}
			return JSONValue{Kind: JSONObject, Object: obj}, nil
		case '[':
			arr := make([]JSONValue, 0)
			for dec.More() {
				child, err := decodeValue(dec, depth+1)
				if err != nil {
					return JSONValue{}, err
				}
				arr = append(arr, child)
			}
			if _, err := dec.Token(); err != nil {
				return JSONValue{}, err
			}
			return JSONValue{Kind: JSONArray, Array: arr}, nil
		default:
			return JSONValue{}, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return JSONValue{Kind: JSONString, String: t}, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return JSONValue{}, err
		}
		return JSONValue{Kind: JSONNumber, Number: f}, nil
	case bool:
		return JSONValue{Kind: JSONBool, Bool: t}, nil
	case nil:
		return JSONValue{Kind: JSONNull}, nil
	default:
		return JSONValue{}, fmt.Errorf("unexpected token %T", tok)
	}
}

// ObjectValue returns the object map when the value is an object.
func (v JSONValue) ObjectValue() (map[string]JSONValue, bool) {
	if v.Kind != JSONObject {
		return nil, false
	}
	return v.Object, true
}

// ArrayValue returns the array slice when the value is an array.
func (v JSONValue) ArrayValue() ([]JSONValue, bool) {
	if v.Kind != JSONArray {
		return nil, false
	}
	return v.Array, true
}

// StringValue returns the string when the value is a string.
func (v JSONValue) StringValue() (string, bool) {
	if v.Kind != JSONString {
		return "", false
	}
	return v.String, true
}

// Field returns the named member of an object value.
func (v JSONValue) Field(name string) (JSONValue, bool) {
	if v.Kind != JSONObject {
		return JSONValue{}, false
	}
	child, ok := v.Object[name]
	return child, ok
}

// NonBlankString returns the named member when it is a string with
// non-whitespace content.
func (v JSONValue) NonBlankString(name string) (string, bool) {
	child, ok := v.Field(name)
	if !ok {
		return "", false
	}
	s, ok := child.StringValue()
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
