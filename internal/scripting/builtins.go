package scripting

import (
	"fmt"

	"go.starlark.net/starlark"
)

// allowedUniverse enumerates the interpreter built-ins scripts may use.
// Everything else in the universe stays invisible; there is no load or
// import facility at all.
var allowedUniverse = []string{
	"range", "len", "min", "max", "abs",
	"int", "float", "str", "print",
	"list", "dict", "enumerate",
}

// newEnv builds a fresh predeclared environment for one run: the
// allow-listed built-ins, the custom sum, and the caller's bindings on
// top. A new map every call; the shared universe is never mutated.
func newEnv(bindings Bindings) starlark.StringDict {
	env := make(starlark.StringDict, len(allowedUniverse)+1+len(bindings))
	for _, name := range allowedUniverse {
		if v, ok := starlark.Universe[name]; ok {
			env[name] = v
		}
	}
	env["sum"] = sumBuiltin
	for name, v := range bindings {
		env[name] = v
	}
	return env
}

// sumBuiltin fills the one gap between the documented allow-list and
// the interpreter's universe, which has no sum().
var sumBuiltin = starlark.NewBuiltin("sum", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var iterable starlark.Iterable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &iterable); err != nil {
		return nil, err
	}

	intSum := starlark.MakeInt(0)
	floatSum := 0.0
	sawFloat := false

	iter := iterable.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		switch v := x.(type) {
		case starlark.Int:
			intSum = intSum.Add(v)
		case starlark.Float:
			sawFloat = true
			floatSum += float64(v)
		default:
			return nil, fmt.Errorf("sum: for element: got %s, want int or float", x.Type())
		}
	}

	if sawFloat {
		f, _ := starlark.AsFloat(intSum)
		return starlark.Float(floatSum + f), nil
	}
	return intSum, nil
})
