package formula_test

import (
	"fmt"

	"github.com/zephyrtronium/formula"
)

func ExampleLookupFunc() {
	f, ok := formula.LookupFunc("root")
	fmt.Println(f, ok, f.Aliases())
	fmt.Println(f.Call(16))

	_, ok = formula.LookupFunc("sqr")
	fmt.Println(ok)

	// Output:
	// sqrt true [root]
	// 4
	// false
}

func ExampleDisableFuncs() {
	// With sin disabled, "sin" is an ordinary variable.
	a, _ := formula.ParseString("sin*2", formula.DisableFuncs("sin"))
	fmt.Println(a.Vars())
	fmt.Println(a.Eval(map[string]float64{"sin": 21}))

	_, err := formula.ParseString("sin(1)", formula.DisableFuncs("sin"))
	fmt.Println(err)

	// Output:
	// [sin]
	// 42 <nil>
	// 1: unknown function "sin"
}
