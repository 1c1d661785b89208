package formula

import (
	"math"
	"math/big"
	"strconv"
)

// Func is one of the built-in functions of one real variable. The set of
// functions is fixed; the zero value is FuncSin.
type Func int8

const (
	FuncSin Func = iota
	FuncCos
	FuncTan
	FuncAsin
	FuncAcos
	FuncAtan
	FuncSinh
	FuncCosh
	FuncTanh
	FuncExp
	FuncLn
	FuncLog10
	FuncLog2
	FuncSqrt
	FuncCbrt
	FuncAbs
	FuncFloor
	FuncCeil
	FuncRound
	FuncSign
	FuncFactorial

	numFuncs
)

type funcinfo struct {
	name    string
	aliases []string
	f       func(float64) float64
	// big is the arbitrary-precision rule. It must set out to its result at
	// the precision of out and panic with big.ErrNaN or DomainError outside
	// its domain. If big is nil, Context evaluates through f.
	big func(out, in *big.Float) *big.Float
}

var functab = [numFuncs]funcinfo{
	FuncSin:       {name: "sin", f: math.Sin},
	FuncCos:       {name: "cos", f: math.Cos},
	FuncTan:       {name: "tan", f: math.Tan},
	FuncAsin:      {name: "asin", aliases: []string{"arcsin"}, f: math.Asin},
	FuncAcos:      {name: "acos", aliases: []string{"arccos"}, f: math.Acos},
	FuncAtan:      {name: "atan", aliases: []string{"arctan"}, f: math.Atan},
	FuncSinh:      {name: "sinh", f: math.Sinh},
	FuncCosh:      {name: "cosh", f: math.Cosh},
	FuncTanh:      {name: "tanh", f: math.Tanh},
	FuncExp:       {name: "exp", f: math.Exp, big: bigExp},
	FuncLn:        {name: "ln", aliases: []string{"log"}, f: math.Log, big: bigLn},
	FuncLog10:     {name: "log10", aliases: []string{"lg"}, f: math.Log10, big: bigLog10},
	FuncLog2:      {name: "log2", aliases: []string{"lb"}, f: math.Log2, big: bigLog2},
	FuncSqrt:      {name: "sqrt", aliases: []string{"root"}, f: math.Sqrt, big: bigSqrt},
	FuncCbrt:      {name: "cbrt", f: math.Cbrt},
	FuncAbs:       {name: "abs", aliases: []string{"absolute"}, f: math.Abs, big: (*big.Float).Abs},
	FuncFloor:     {name: "floor", f: math.Floor, big: bigFloor},
	FuncCeil:      {name: "ceil", f: math.Ceil, big: bigCeil},
	FuncRound:     {name: "round", f: math.Round, big: bigRound},
	FuncSign:      {name: "sign", aliases: []string{"sgn"}, f: sign, big: bigSign},
	FuncFactorial: {name: "factorial", aliases: []string{"fact"}, f: factorial, big: bigFactorial},
}

// funcnames maps every function name and alias to its function.
var funcnames = func() map[string]Func {
	m := make(map[string]Func, 2*len(functab))
	for i := range functab {
		fn := &functab[i]
		m[fn.name] = Func(i)
		for _, a := range fn.aliases {
			m[a] = Func(i)
		}
	}
	return m
}()

// LookupFunc finds a function by its name or one of its aliases.
func LookupFunc(name string) (Func, bool) {
	f, ok := funcnames[name]
	return f, ok
}

// Funcs returns all built-in functions.
func Funcs() []Func {
	r := make([]Func, numFuncs)
	for i := range r {
		r[i] = Func(i)
	}
	return r
}

func (f Func) info() *funcinfo {
	if f < 0 || f >= numFuncs {
		panic("formula: invalid function " + strconv.Itoa(int(f)))
	}
	return &functab[f]
}

// Name returns the canonical name of the function.
func (f Func) Name() string {
	return f.info().name
}

// Aliases returns the alternative names of the function.
func (f Func) Aliases() []string {
	return append([]string(nil), f.info().aliases...)
}

// Call evaluates the function.
func (f Func) Call(x float64) float64 {
	return f.info().f(x)
}

func (f Func) String() string {
	if f < 0 || f >= numFuncs {
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
	return functab[f].name
}

// factorials holds n! for every n whose factorial is finite as a float64.
var factorials [171]float64

func init() {
	factorials[0] = 1
	for i := 1; i < len(factorials); i++ {
		factorials[i] = factorials[i-1] * float64(i)
	}
}

// factorial is n! for non-negative integers, NaN for anything else, and
// +Inf past the range of float64.
func factorial(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0, x != math.Trunc(x):
		return math.NaN()
	case x >= float64(len(factorials)):
		return math.Inf(1)
	}
	return factorials[int(x)]
}

// sign is -1, 1, or x itself for zeros and NaN.
func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}
