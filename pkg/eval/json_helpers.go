package eval

import (
	"fmt"

	"github.com/kr/pretty"
)

// ToNative converts a value to plain Go data for JSON encoding. Values
// without a data form (functions, classes, objects) become their text.
// A dictionary whose keys are all strings becomes an object; any other
// dictionary becomes a list of [key, value] pairs in insertion order.
func ToNative(obj Object) interface{} {
	switch obj := obj.(type) {
	case *Integer:
		return obj.Value
	case *String:
		return obj.Value
	case *Boolean:
		return obj.Value
	case *None:
		return nil
	case *List:
		return nativeElements(obj.Elements)
	case *Tuple:
		return nativeElements(obj.Elements)
	case *Dictionary:
		return nativeDictionary(obj)
	case *Instance:
		result := make(map[string]interface{}, len(obj.Attributes))
		for k, v := range obj.Attributes {
			result[k] = ToNative(v)
		}
		return result
	default:
		return obj.Inspect()
	}
}

func nativeDictionary(d *Dictionary) interface{} {
	entries := d.Entries()
	for _, e := range entries {
		if e.Key.Kind() != KindString {
			pairs := make([]interface{}, 0, len(entries))
			for _, e := range entries {
				pairs = append(pairs, []interface{}{ToNative(e.Key), ToNative(e.Value)})
			}
			return pairs
		}
	}

	result := make(map[string]interface{}, len(entries))
	for _, e := range entries {
		result[e.Key.(*String).Value] = ToNative(e.Value)
	}
	return result
}

func nativeElements(elements []Object) []interface{} {
	result := make([]interface{}, 0, len(elements))
	for _, elem := range elements {
		result = append(result, ToNative(elem))
	}
	return result
}

// FromNative converts decoded JSON data to a value. Numbers must be whole;
// objects become dictionaries with string keys.
func FromNative(val interface{}) (Object, error) {
	switch v := val.(type) {
	case nil:
		return NONE, nil
	case bool:
		return nativeBoolToBooleanObject(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("%v is not an integer", v)
		}
		return NewInteger(int64(v)), nil
	case int:
		return NewInteger(int64(v)), nil
	case int64:
		return NewInteger(v), nil
	case string:
		return &String{Value: v}, nil
	case []interface{}:
		elements := make([]Object, 0, len(v))
		for _, e := range v {
			el, err := FromNative(e)
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
		}
		return &List{Elements: elements}, nil
	case map[string]interface{}:
		dict := NewDictionary()
		for k, e := range v {
			el, err := FromNative(e)
			if err != nil {
				return nil, err
			}
			dict.Set(&String{Value: k}, el)
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported value type (%T): %s", val, pretty.Sprint(v))
	}
}
