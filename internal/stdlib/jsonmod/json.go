// Package jsonmod implements the `json` standard-library module (spec
// §6): parse and set are backed by tidwall's schema-less gjson/sjson,
// since Probescript values have no fixed Go struct to unmarshal into;
// stringify marshals through encoding/json.
package jsonmod

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/stdlibutil"
)

var marshalJSON = json.Marshal

func New() *runtime.Object {
	obj := runtime.NewObject()

	obj.Props_["parse"] = &runtime.NativeFn{Name: "parse", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		src, err := stdlibutil.StringArg(args, 0, "json.parse")
		if err != nil {
			return nil, err
		}
		if !gjson.Valid(src) {
			return nil, stdlibutil.Err("json.parse: invalid JSON")
		}
		return fromGJSON(gjson.Parse(src)), nil
	}}

	obj.Props_["stringify"] = &runtime.NativeFn{Name: "stringify", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NewString("null"), nil
		}
		return runtime.NewString(toJSONString(args[0])), nil
	}}

	// json.set(doc, path, value) returns a new JSON string with path
	// updated, grounded on sjson's document-surgery API.
	obj.Props_["set"] = &runtime.NativeFn{Name: "set", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		doc, err := stdlibutil.StringArg(args, 0, "json.set")
		if err != nil {
			return nil, err
		}
		path, err := stdlibutil.StringArg(args, 1, "json.set")
		if err != nil {
			return nil, err
		}
		if len(args) < 3 {
			return nil, stdlibutil.Err("json.set: missing value argument")
		}
		result, err := sjson.Set(doc, path, rawValue(args[2]))
		if err != nil {
			return nil, stdlibutil.Err("json.set: %s", err)
		}
		return runtime.NewString(result), nil
	}}

	return obj
}

// rawValue extracts a plain Go value from a runtime.Value so sjson.Set
// can re-encode it (sjson accepts any encoding/json-marshalable value).
func rawValue(v runtime.Value) interface{} {
	switch t := v.(type) {
	case *runtime.Number:
		return t.Value
	case *runtime.String:
		return t.Value
	case *runtime.Bool:
		return t.Value
	case *runtime.Null, *runtime.Undef:
		return nil
	case *runtime.Array:
		out := make([]interface{}, len(t.Elements))
		for i, e := range t.Elements {
			out[i] = rawValue(e)
		}
		return out
	case *runtime.Object:
		out := map[string]interface{}{}
		for k, pv := range t.Props_ {
			out[k] = rawValue(pv)
		}
		return out
	default:
		return v.String()
	}
}

func fromGJSON(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.True:
		return runtime.NewBool(true)
	case gjson.False:
		return runtime.NewBool(false)
	case gjson.Number:
		return runtime.NewNumber(r.Num)
	case gjson.String:
		return runtime.NewString(r.Str)
	case gjson.Null:
		return runtime.NewNull()
	case gjson.JSON:
		if r.IsArray() {
			var elems []runtime.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, fromGJSON(v))
				return true
			})
			return runtime.NewArray(elems)
		}
		obj := runtime.NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			obj.Props_[k.String()] = fromGJSON(v)
			return true
		})
		return obj
	default:
		return runtime.NewUndef()
	}
}

// toJSONString renders v the way the original's Value::toJSON does
// (supplemented feature, see DESIGN.md): functions/classes/probes
// serialize as a native placeholder string rather than failing.
func toJSONString(v runtime.Value) string {
	b, err := marshalJSON(rawValueWithFallback(v))
	if err != nil {
		return "null"
	}
	return string(b)
}

func rawValueWithFallback(v runtime.Value) interface{} {
	switch v.(type) {
	case *runtime.Function, *runtime.NativeFn, *runtime.Class, *runtime.NativeClass, *runtime.Probe:
		return "<native " + v.Kind() + ">"
	default:
		return rawValue(v)
	}
}
