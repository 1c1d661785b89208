package formula_test

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/zephyrtronium/formula"
)

func TestCompute(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		env     map[string]float64
		opts    []formula.ParseOption
		vars    []string
		unbound []string
		value   float64
		ok      bool
	}{
		{"const", "1+2", nil, nil, nil, nil, 3, true},
		{"bound", "x*y", map[string]float64{"x": 2, "y": 3}, nil, []string{"x", "y"}, nil, 6, true},
		{"unbound", "x+1", nil, nil, []string{"x"}, []string{"x"}, 0, false},
		{"partial", "x+y+z", map[string]float64{"y": 1}, nil, []string{"x", "y", "z"}, []string{"x", "z"}, 0, false},
		{"pi", "pi*2", nil, nil, []string{"pi"}, nil, 2 * math.Pi, true},
		{"pi-env", "pi", map[string]float64{"pi": 3}, nil, []string{"pi"}, nil, math.Pi, true},
		{"disabled", "sin*2", map[string]float64{"sin": 3}, []formula.ParseOption{formula.DisableFuncs("sin")}, []string{"sin"}, nil, 6, true},
		{"inf", "1/0", nil, nil, nil, nil, math.Inf(1), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := formula.Compute(c.src, c.env, c.opts...)
			if r.Err != nil {
				t.Fatalf("%q gave error %v", c.src, r.Err)
			}
			if r.Expr == nil {
				t.Fatalf("%q gave no expression", c.src)
			}
			if r.Ok != c.ok {
				t.Errorf("wrong ok: want %t, got %t", c.ok, r.Ok)
			}
			if !reflect.DeepEqual(r.Vars, c.vars) {
				t.Errorf("wrong vars: want %q, got %q", c.vars, r.Vars)
			}
			if u := r.Unbound(c.env); !reflect.DeepEqual(u, c.unbound) {
				t.Errorf("wrong unbound vars: want %q, got %q", c.unbound, u)
			}
			if c.ok && r.Value != c.value {
				t.Errorf("wrong value: want %g, got %g", c.value, r.Value)
			}
		})
	}
}

func TestComputeErrors(t *testing.T) {
	r := formula.Compute("1 2", nil)
	if r.Ok || r.Expr != nil || r.Vars != nil {
		t.Errorf("parse failure gave %+v", r)
	}
	var te *formula.TrailingError
	if !errors.As(r.Err, &te) {
		t.Errorf("%#v is not *TrailingError", r.Err)
	}

	r = formula.Compute("sqrt(-1)", nil)
	if r.Err != nil || !r.Ok || !math.IsNaN(r.Value) {
		t.Errorf("sqrt(-1) gave %+v", r)
	}
}

func ExampleCompute() {
	env := map[string]float64{"w": 3}
	r := formula.Compute("w*h", env)
	fmt.Println(r.Ok, r.Unbound(env))

	env["h"] = 4
	r = formula.Compute("w*h", env)
	fmt.Println(r.Ok, r.Value)

	// Output:
	// false [h]
	// true 12
}
