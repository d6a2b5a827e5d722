package runtime

import "strings"

// injectArrayMethods installs the native methods spec §4.5 mentions
// ("size", "push", "join") directly into an array's property map at
// construction time, per spec §3: "Array and String inject their method
// implementations as native-function values into that property map".
func injectArrayMethods(a *Array) {
	a.props["size"] = &NativeFn{Name: "size", Fn: func(args []Value, this Value) (Value, error) {
		return NewNumber(float64(len(a.Elements))), nil
	}}
	a.props["push"] = &NativeFn{Name: "push", Fn: func(args []Value, this Value) (Value, error) {
		a.Elements = append(a.Elements, args...)
		return a, nil
	}}
	a.props["pop"] = &NativeFn{Name: "pop", Fn: func(args []Value, this Value) (Value, error) {
		if len(a.Elements) == 0 {
			return NewUndef(), nil
		}
		last := a.Elements[len(a.Elements)-1]
		a.Elements = a.Elements[:len(a.Elements)-1]
		return last, nil
	}}
	a.props["join"] = &NativeFn{Name: "join", Fn: func(args []Value, this Value) (Value, error) {
		sep := ","
		if len(args) > 0 {
			sep = Stringify(args[0])
		}
		parts := make([]string, len(a.Elements))
		for i, e := range a.Elements {
			parts[i] = Stringify(e)
		}
		return NewString(strings.Join(parts, sep)), nil
	}}
}

// injectStringMethods installs a handful of native methods onto a
// string value's property map, e.g. s.size(), s.upper(), s.lower().
func injectStringMethods(s *String) {
	s.props["size"] = &NativeFn{Name: "size", Fn: func(args []Value, this Value) (Value, error) {
		return NewNumber(float64(len([]rune(s.Value)))), nil
	}}
	s.props["upper"] = &NativeFn{Name: "upper", Fn: func(args []Value, this Value) (Value, error) {
		return NewString(strings.ToUpper(s.Value)), nil
	}}
	s.props["lower"] = &NativeFn{Name: "lower", Fn: func(args []Value, this Value) (Value, error) {
		return NewString(strings.ToLower(s.Value)), nil
	}}
	s.props["trim"] = &NativeFn{Name: "trim", Fn: func(args []Value, this Value) (Value, error) {
		return NewString(strings.TrimSpace(s.Value)), nil
	}}
	s.props["split"] = &NativeFn{Name: "split", Fn: func(args []Value, this Value) (Value, error) {
		sep := ""
		if len(args) > 0 {
			sep = Stringify(args[0])
		}
		var parts []string
		if sep == "" {
			for _, r := range s.Value {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s.Value, sep)
		}
		elems := make([]Value, len(parts))
		for i, p := range parts {
			elems[i] = NewString(p)
		}
		return NewArray(elems), nil
	}}
}
