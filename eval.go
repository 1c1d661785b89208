package formula

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// constants are the names which always refer to mathematical constants,
// regardless of any variable definitions.
var constants = map[string]float64{
	"pi":  math.Pi,
	"PI":  math.Pi,
	"π":   math.Pi,
	"e":   math.E,
	"E":   math.E,
	"tau": 2 * math.Pi,
	"TAU": 2 * math.Pi,
	"τ":   2 * math.Pi,
}

// IsConstant reports whether name refers to a built-in constant. Variables
// with such names cannot be set.
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}

// Eval evaluates the expression with the given variable values. Constants
// take priority over env. env is not modified. Arithmetic follows IEEE-754,
// so e.g. division by zero gives an infinity rather than an error; the only
// errors are undefined variables and malformed calls.
func (e *Expr) Eval(env map[string]float64) (float64, error) {
	return e.n.eval(env)
}

func (n *node) eval(env map[string]float64) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		if v, ok := constants[n.name]; ok {
			return v, nil
		}
		if v, ok := env[n.name]; ok {
			return v, nil
		}
		return 0, &NameError{Name: n.name}
	case nodeCall:
		if len(n.args) != 1 {
			return 0, &CallError{Func: n.fn.Name(), Want: 1, Len: len(n.args)}
		}
		x, err := n.args[0].eval(env)
		if err != nil {
			return 0, err
		}
		return n.fn.Call(x), nil
	case nodeNeg:
		x, err := n.left.eval(env)
		if err != nil {
			return 0, err
		}
		return -x, nil
	case nodeNop:
		return n.left.eval(env)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		l, err := n.left.eval(env)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(env)
		if err != nil {
			return 0, err
		}
		switch n.kind {
		case nodeAdd:
			return l + r, nil
		case nodeSub:
			return l - r, nil
		case nodeMul:
			return l * r, nil
		case nodeDiv:
			return l / r, nil
		case nodeMod:
			return math.Mod(l, r), nil
		default:
			return math.Pow(l, r), nil
		}
	default:
		panic("formula: invalid AST node " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and evaluate it with env.
func Eval(src io.RuneScanner, env map[string]float64) (float64, error) {
	a, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return a.Eval(env)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, env map[string]float64) (float64, error) {
	return Eval(strings.NewReader(src), env)
}

// NameError is an error from a lookup for a variable that is not defined
// during evaluation.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// CallError is an error indicating a function call with the wrong number of
// arguments.
type CallError struct {
	// Func is the canonical name of the function that was called.
	Func string
	// Want is the number of arguments the function takes.
	Want int
	// Len is the number of arguments the call supplied.
	Len int
}

func (err *CallError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments (want " + strconv.Itoa(err.Want) + ")"
}
