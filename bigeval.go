package formula

import (
	"errors"
	"maps"
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Context evaluates expressions with big.Float arithmetic at a fixed
// precision. A Context is not safe for concurrent use. Clone gives each
// goroutine its own.
type Context struct {
	// stack holds intermediate values. Slots past its length are reused.
	stack []*big.Float
	// nums caches number literals by source text and consts caches the
	// constants. Both hold values at prec only.
	nums   map[string]*big.Float
	consts map[string]*big.Float
	// vars are the variable bindings. Bound values are never modified in
	// place, so contexts at the same precision share them.
	vars map[string]*big.Float
	prec uint
	err  error
}

// ContextOption configures a Context created by NewContext or Clone.
type ContextOption interface {
	apply(*Context)
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	precopt uint
)

func (o varopt) apply(ctx *Context) {
	ctx.bind(o.name, o.val)
}

func (o varsopt) apply(ctx *Context) {
	for name, val := range o {
		ctx.bind(name, val)
	}
}

// Precision is applied by Clone before anything else.
func (precopt) apply(*Context) {}

// SetVar binds a variable.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars binds every variable in vars.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// Prec sets the precision of calculations in bits. If more than one Prec is
// given, the last wins.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates an evaluation context. The default precision is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If evaluation fails,
// e.g. on an undefined variable or an argument outside a function's domain,
// the result is nil and Err returns the error. A returned result is never
// modified by later evaluations.
func (ctx *Context) Eval(e *Expr) *big.Float {
	ctx.reset()
	ctx.err = e.n.evalBig(ctx)
	if ctx.err != nil {
		ctx.reset()
		return nil
	}
	return ctx.Result()
}

// reset empties the stack, dropping every slot so that no value handed out
// as a result is reused.
func (ctx *Context) reset() {
	clear(ctx.stack)
	ctx.stack = ctx.stack[:0]
}

// Result returns the result of the last evaluation, or nil if it failed.
// Panics if ctx has not evaluated anything.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	if len(ctx.stack) != 1 {
		if len(ctx.stack) == 0 {
			panic("formula: Context.Result called before evaluating any expression")
		}
		panic("formula: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
	return ctx.stack[0]
}

// Err returns the error from the last evaluation, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set binds a variable, rounding value to the context's precision. Returns
// ctx for chaining.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	ctx.bind(name, value)
	return ctx
}

func (ctx *Context) bind(name string, value *big.Float) {
	ctx.vars[name] = new(big.Float).SetPrec(ctx.prec).Set(value)
}

// Lookup returns a copy of a variable's value, or nil if it is not bound.
// Constants are not variables.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.vars[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision in bits of the context's calculations.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone copies the context's bindings into a new context and applies opts
// to it. The new context has no result.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	prec := ctx.prec
	for _, opt := range opts {
		if p, ok := opt.(precopt); ok {
			prec = uint(p)
		}
	}
	n := &Context{
		stack:  make([]*big.Float, 0, cap(ctx.stack)),
		nums:   make(map[string]*big.Float),
		consts: make(map[string]*big.Float),
		vars:   make(map[string]*big.Float, len(ctx.vars)),
		prec:   prec,
	}
	if prec == ctx.prec {
		maps.Copy(n.nums, ctx.nums)
		maps.Copy(n.consts, ctx.consts)
		maps.Copy(n.vars, ctx.vars)
	} else {
		for name, val := range ctx.vars {
			n.bind(name, val)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(n)
		}
	}
	return n
}

// push grows the stack by one and returns the new top for the caller to set.
func (ctx *Context) push() *big.Float {
	k := len(ctx.stack)
	if k < cap(ctx.stack) {
		ctx.stack = ctx.stack[:k+1]
	} else {
		ctx.stack = append(ctx.stack, nil)
	}
	if ctx.stack[k] == nil {
		ctx.stack[k] = new(big.Float).SetPrec(ctx.prec)
	}
	return ctx.stack[k]
}

// pop removes the top of the stack. The returned value is only valid until
// the next push.
func (ctx *Context) pop() *big.Float {
	r := ctx.top()
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its node.
func (ctx *Context) num(n *node) *big.Float {
	if r := ctx.nums[n.name]; r != nil {
		return r
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(n.name, 10)
	if err != nil {
		// The lexer already accepted the text as a float64, so the only
		// failures here are exponents beyond big.Float's range, which the
		// float64 value already saturates.
		r = new(big.Float).SetPrec(ctx.prec).SetFloat64(n.num)
	}
	ctx.nums[n.name] = r
	return r
}

// constant gets the value of a constant at the context's precision, or nil if
// name is not a constant.
func (ctx *Context) constant(name string) *big.Float {
	if r := ctx.consts[name]; r != nil {
		return r
	}
	r := new(big.Float).SetPrec(ctx.prec)
	switch name {
	case "pi", "PI", "π":
		bigfloat.Pi(r)
	case "tau", "TAU", "τ":
		bigfloat.Pi(r)
		r.Mul(r, big.NewFloat(2))
	case "e", "E":
		bigfloat.Exp(r, big.NewFloat(1))
	default:
		return nil
	}
	ctx.consts[name] = r
	return r
}

// call evaluates fn of in into r. Arguments outside the function's domain
// give a DomainError.
func (ctx *Context) call(fn Func, in, r *big.Float) (err error) {
	info := fn.info()
	if info.big == nil {
		x, _ := in.Float64()
		v := info.f(x)
		if math.IsNaN(v) {
			return &DomainError{X: new(big.Float).Copy(in), Func: info.name}
		}
		r.SetFloat64(v)
		return nil
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, ok := p.(error)
		if !ok {
			panic(p)
		}
		var dom *DomainError
		switch {
		case errors.As(e, &dom):
			if dom.Func == "" {
				dom.Func = info.name
			}
			err = dom
		case errors.As(e, new(big.ErrNaN)):
			err = &DomainError{X: new(big.Float).Copy(in), Func: info.name}
		default:
			panic(p)
		}
	}()
	r.SetPrec(ctx.prec)
	info.big(r, in)
	return nil
}

// evalBig pushes the node's value to the context's stack.
func (n *node) evalBig(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		ctx.push().Set(ctx.num(n))
	case nodeName:
		v := ctx.constant(n.name)
		if v == nil {
			v = ctx.vars[n.name]
		}
		if v == nil {
			return &NameError{Name: n.name}
		}
		ctx.push().Set(v)
	case nodeCall:
		if len(n.args) != 1 {
			return &CallError{Func: n.fn.Name(), Want: 1, Len: len(n.args)}
		}
		r := ctx.push()
		k := len(ctx.stack)
		if err := n.args[0].evalBig(ctx); err != nil {
			return err
		}
		if err := ctx.call(n.fn, ctx.stack[k], r); err != nil {
			return err
		}
		ctx.stack = ctx.stack[:k]
	case nodeNeg:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeNop:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		if err := n.left.evalBig(ctx); err != nil {
			return err
		}
		if err := n.right.evalBig(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return arith(n.kind, l, r)
	default:
		panic("formula: invalid AST node " + n.kind.String())
	}
	return nil
}

// arith sets l to l op r. Operations with no real result, which would be NaN
// in float64 arithmetic, give a DomainError.
func arith(op nodeKind, l, r *big.Float) error {
	switch op {
	case nodeAdd:
		if l.IsInf() && r.IsInf() && l.Signbit() != r.Signbit() {
			return &DomainError{X: r, Func: "+"}
		}
		l.Add(l, r)
	case nodeSub:
		if l.IsInf() && r.IsInf() && l.Signbit() == r.Signbit() {
			return &DomainError{X: r, Func: "-"}
		}
		l.Sub(l, r)
	case nodeMul:
		if l.Sign() == 0 && r.IsInf() || l.IsInf() && r.Sign() == 0 {
			return &DomainError{X: r, Func: "*"}
		}
		l.Mul(l, r)
	case nodeDiv:
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return &DomainError{X: r, Func: "/"}
		}
		l.Quo(l, r)
	case nodeMod:
		if r.Sign() == 0 || l.IsInf() {
			return &DomainError{X: r, Func: "%"}
		}
		bigMod(l, l, r)
	case nodePow:
		return bigPow(l, l, r)
	default:
		panic("formula: invalid operator " + op.String())
	}
	return nil
}

// bigMod sets out to the remainder of x/y truncated toward zero, the same as
// math.Mod. y must be nonzero and x finite.
func bigMod(out, x, y *big.Float) {
	if y.IsInf() {
		out.Set(x)
		return
	}
	a, _ := x.Rat(nil)
	b, _ := y.Rat(nil)
	// a/b = (an bd) / (ad bn), truncated by Quo.
	num := new(big.Int).Mul(a.Num(), b.Denom())
	den := new(big.Int).Mul(a.Denom(), b.Num())
	q := new(big.Int).Quo(num, den)
	m := new(big.Rat).SetInt(q)
	m.Mul(m, b)
	m.Sub(a, m)
	out.SetRat(m)
}

// bigPow sets out to x^y.
func bigPow(out, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		out.SetInt64(1)
		return nil
	case x.Sign() == 0:
		if y.Sign() > 0 {
			out.SetInt64(0)
		} else {
			out.SetInf(false)
		}
		return nil
	case x.Signbit():
		// Negative bases only have real powers for integer exponents.
		if !y.IsInt() {
			return &DomainError{X: new(big.Float).Copy(x), Func: "^"}
		}
		k, _ := y.Int(nil)
		odd := k.Bit(0) == 1
		ax := new(big.Float).SetPrec(out.Prec()).Abs(x)
		if err := bigPow(out, ax, y); err != nil {
			return err
		}
		if odd {
			out.Neg(out)
		}
		return nil
	case x.IsInf():
		out.SetInf(false)
		if y.Sign() < 0 {
			out.SetInt64(0)
		}
		return nil
	case y.IsInf():
		c := x.Cmp(big.NewFloat(1))
		switch {
		case c == 0:
			out.SetInt64(1)
		case (c > 0) == (y.Sign() > 0):
			out.SetInf(false)
		default:
			out.SetInt64(0)
		}
		return nil
	}
	bigfloat.Pow(out, x, y)
	return nil
}

func bigExp(out, in *big.Float) *big.Float {
	if in.IsInf() {
		if in.Signbit() {
			return out.SetInt64(0)
		}
		return out.SetInf(false)
	}
	return bigfloat.Exp(out, in)
}

func bigLn(out, in *big.Float) *big.Float {
	switch {
	case in.Signbit() && in.Sign() != 0:
		panic(&DomainError{X: new(big.Float).Copy(in)})
	case in.Sign() == 0:
		return out.SetInf(true)
	case in.IsInf():
		return out.SetInf(false)
	}
	return bigfloat.Log(out, in)
}

// bigLogBase sets out to the base-b logarithm of in.
func bigLogBase(out, in *big.Float, b int64) *big.Float {
	bigLn(out, in)
	if out.IsInf() {
		return out
	}
	d := new(big.Float).SetPrec(out.Prec()).SetInt64(b)
	bigfloat.Log(d, d)
	return out.Quo(out, d)
}

func bigLog10(out, in *big.Float) *big.Float {
	return bigLogBase(out, in, 10)
}

func bigLog2(out, in *big.Float) *big.Float {
	return bigLogBase(out, in, 2)
}

func bigSqrt(out, in *big.Float) *big.Float {
	if in.Sign() < 0 {
		panic(&DomainError{X: new(big.Float).Copy(in)})
	}
	if in.Sign() == 0 {
		return out.Set(in)
	}
	return out.Sqrt(in)
}

func bigFloor(out, in *big.Float) *big.Float {
	if in.IsInf() || in.IsInt() {
		return out.Set(in)
	}
	i, _ := in.Int(nil)
	out.SetInt(i)
	// Int truncates, so negative non-integers need one less.
	if in.Sign() < 0 {
		out.Sub(out, big.NewFloat(1))
	}
	return out
}

func bigCeil(out, in *big.Float) *big.Float {
	if in.IsInf() || in.IsInt() {
		return out.Set(in)
	}
	i, _ := in.Int(nil)
	out.SetInt(i)
	if in.Sign() > 0 {
		out.Add(out, big.NewFloat(1))
	}
	return out
}

// bigRound rounds half away from zero.
func bigRound(out, in *big.Float) *big.Float {
	if in.IsInf() || in.IsInt() {
		return out.Set(in)
	}
	i, _ := in.Int(nil)
	t := new(big.Float).SetInt(i)
	// The fractional part is exact at the input's precision.
	frac := new(big.Float).SetPrec(in.Prec()).Sub(in, t)
	frac.Abs(frac)
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		if in.Sign() < 0 {
			i.Sub(i, big.NewInt(1))
		} else {
			i.Add(i, big.NewInt(1))
		}
	}
	return out.SetInt(i)
}

func bigSign(out, in *big.Float) *big.Float {
	if in.Sign() == 0 {
		return out.Set(in)
	}
	return out.SetInt64(int64(in.Sign()))
}

// maxBigFactorial is the largest argument for which factorial is computed
// exactly. Larger arguments give +Inf, as in float64 arithmetic.
const maxBigFactorial = 100000

func bigFactorial(out, in *big.Float) *big.Float {
	if in.Signbit() && in.Sign() != 0 || !in.IsInt() && !in.IsInf() {
		panic(&DomainError{X: new(big.Float).Copy(in)})
	}
	if in.IsInf() || in.Cmp(big.NewFloat(maxBigFactorial)) > 0 {
		return out.SetInf(false)
	}
	n, _ := in.Int64()
	return out.SetInt(new(big.Int).MulRange(1, n))
}

// DomainError is an error returned when a function or operator is applied
// to arguments that have no real result. It is only returned from Context
// evaluation; float64 evaluation yields NaN instead.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := "argument outside domain"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}
