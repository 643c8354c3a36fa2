package scripting

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"

	"github.com/bandgo/server/internal/band"
)

// BandValue exposes one band to scripts as the `band` object. It is the
// scripting contract: spawn, set_pos, get_pos, get_all, is_occupied,
// step_to, wait. Calls mutate the underlying band for real; the value
// itself holds no state and must not outlive the Execute call it was
// passed into.
type BandValue struct {
	band *band.Band
}

// NewBandValue wraps b for use in Bindings.
func NewBandValue(b *band.Band) *BandValue {
	return &BandValue{band: b}
}

var _ starlark.HasAttrs = (*BandValue)(nil)

func (bv *BandValue) String() string        { return "<band>" }
func (bv *BandValue) Type() string          { return "band" }
func (bv *BandValue) Freeze()               {}
func (bv *BandValue) Truth() starlark.Bool  { return starlark.True }
func (bv *BandValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: band") }

type bandMethod func(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var bandMethods = map[string]bandMethod{
	"spawn":       bandSpawn,
	"set_pos":     bandSetPos,
	"get_pos":     bandGetPos,
	"get_all":     bandGetAll,
	"is_occupied": bandIsOccupied,
	"step_to":     bandStepTo,
	"wait":        bandWait,
}

func (bv *BandValue) Attr(name string) (starlark.Value, error) {
	m, ok := bandMethods[name]
	if !ok {
		return nil, nil // not found; interpreter reports it
	}
	impl := func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return m(bv, b, args, kwargs)
	}
	return starlark.NewBuiltin(name, impl).BindReceiver(bv), nil
}

func (bv *BandValue) AttrNames() []string {
	names := make([]string, 0, len(bandMethods))
	for name := range bandMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// asCoord coerces a script value to an integer coordinate, truncating
// floats the way the original API did.
func asCoord(name, param string, v starlark.Value) (int, error) {
	switch x := v.(type) {
	case starlark.Int:
		n, err := starlark.AsInt32(x)
		if err != nil {
			return 0, fmt.Errorf("%s: for parameter %s: %w", name, param, err)
		}
		return n, nil
	case starlark.Float:
		return int(float64(x)), nil
	default:
		return 0, fmt.Errorf("%s: for parameter %s: got %s, want int", name, param, v.Type())
	}
}

func bandSpawn(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, section string
	var xv, yv starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name, "section", &section, "x", &xv, "y", &yv); err != nil {
		return nil, err
	}
	x, err := asCoord(b.Name(), "x", xv)
	if err != nil {
		return nil, err
	}
	y, err := asCoord(b.Name(), "y", yv)
	if err != nil {
		return nil, err
	}
	bv.band.Spawn(name, section, x, y)
	return starlark.None, nil
}

func bandSetPos(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var xv, yv starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &name, "x", &xv, "y", &yv); err != nil {
		return nil, err
	}
	x, err := asCoord(b.Name(), "x", xv)
	if err != nil {
		return nil, err
	}
	y, err := asCoord(b.Name(), "y", yv)
	if err != nil {
		return nil, err
	}
	bv.band.SetPos(name, x, y)
	return starlark.None, nil
}

func bandGetPos(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	p, err := bv.band.GetPos(name)
	if err != nil {
		// Deliberately a plain runtime fault, not a type/name error:
		// querying a marcher that does not exist is a script bug.
		return nil, err
	}
	return starlark.Tuple{starlark.MakeInt(p.X), starlark.MakeInt(p.Y)}, nil
}

func bandGetAll(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	names := bv.band.Names()
	elems := make([]starlark.Value, len(names))
	for i, n := range names {
		elems[i] = starlark.String(n)
	}
	return starlark.NewList(elems), nil
}

func bandIsOccupied(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var xv, yv starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &xv, "y", &yv); err != nil {
		return nil, err
	}
	x, err := asCoord(b.Name(), "x", xv)
	if err != nil {
		return nil, err
	}
	y, err := asCoord(b.Name(), "y", yv)
	if err != nil {
		return nil, err
	}
	return starlark.Bool(bv.band.IsOccupied(x, y)), nil
}

// bandStepTo queues one move per named marcher: a string moves one,
// a list or tuple of strings moves a formation simultaneously.
func bandStepTo(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var who, xv, yv starlark.Value
	counts := 8
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"who", &who, "x", &xv, "y", &yv, "counts?", &counts); err != nil {
		return nil, err
	}
	x, err := asCoord(b.Name(), "x", xv)
	if err != nil {
		return nil, err
	}
	y, err := asCoord(b.Name(), "y", yv)
	if err != nil {
		return nil, err
	}
	names, err := asNames(b.Name(), who)
	if err != nil {
		return nil, err
	}
	bv.band.StepTo(names, x, y, counts)
	return starlark.None, nil
}

func bandWait(bv *BandValue, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	counts := 8
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "counts?", &counts); err != nil {
		return nil, err
	}
	bv.band.Wait(counts)
	return starlark.None, nil
}

func asNames(fn string, who starlark.Value) ([]string, error) {
	if s, ok := starlark.AsString(who); ok {
		return []string{s}, nil
	}
	seq, ok := who.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("%s: for parameter who: got %s, want string or sequence of strings", fn, who.Type())
	}
	var names []string
	iter := seq.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		s, ok := starlark.AsString(x)
		if !ok {
			return nil, fmt.Errorf("%s: for parameter who: got %s element, want string", fn, x.Type())
		}
		names = append(names, s)
	}
	return names, nil
}
