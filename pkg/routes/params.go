package routes

import (
	"fmt"
	"reflect"
	"sort"
)

// KV is one named parameter.
type KV struct {
	Key   string
	Value any
}

// Params is an ordered set of named parameters. Only the first value is
// used when building a URL.
type Params []KV

// P builds Params from alternating keys and values. A trailing key without
// a value is given nil.
func P(kv ...any) Params {
	out := make(Params, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, _ := kv[i].(string)
		var val any
		if i+1 < len(kv) {
			val = kv[i+1]
		}
		out = append(out, KV{Key: key, Value: val})
	}
	return out
}

// narrow reduces params to the single positional value passed to a
// generator. Objects contribute their first value; scalars pass through.
// Maps, structs (and pointers to them), slices and arrays all count as
// objects.
func narrow(params any) any {
	switch p := params.(type) {
	case nil:
		return nil
	case Params:
		if len(p) == 0 {
			return nil
		}
		return p[0].Value
	case map[string]any:
		return firstByKey(p)
	case string:
		return p
	}
	return firstValue(reflect.ValueOf(params), params)
}

// firstValue handles the object shapes narrow has no fast path for. Values
// that are not objects are returned as given; pointers to them are
// dereferenced.
func firstValue(v reflect.Value, orig any) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		elem := v.Elem()
		if elem.Kind() == reflect.Struct || elem.Kind() == reflect.Map ||
			elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
			return firstValue(elem, orig)
		}
		return elem.Interface()
	case reflect.Map:
		if v.Len() == 0 {
			return nil
		}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keyString(keys[i]) < keyString(keys[j]) })
		return v.MapIndex(keys[0]).Interface()
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				return v.Field(i).Interface()
			}
		}
		return nil
	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 {
			return nil
		}
		return v.Index(0).Interface()
	case reflect.Array:
		if v.Len() == 0 {
			return nil
		}
		return v.Index(0).Interface()
	default:
		return orig
	}
}

// keyString orders map keys the way object keys compare: by their text.
func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// firstByKey returns the value of the lexically smallest key. Go maps carry
// no insertion order, so key order stands in for it.
func firstByKey(m map[string]any) any {
	if len(m) == 0 {
		return nil
	}
	return m[sortedKeys(m)[0]]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
