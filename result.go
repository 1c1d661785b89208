package formula

// Result is everything known about a formula after one attempt to parse and
// evaluate it.
type Result struct {
	// Expr is the parsed expression, or nil if parsing failed.
	Expr *Expr
	// Err is the parse or evaluation error, if any. Unbound variables are
	// not an error; they only leave Ok false.
	Err error
	// Vars is the sorted list of names the expression uses, including
	// constants.
	Vars []string
	// Value is the result of evaluation. It is meaningful only if Ok.
	Value float64
	// Ok is true when every variable is a constant or bound in the
	// environment and evaluation succeeded.
	Ok bool
}

// Compute parses src and, if every variable it uses can be resolved,
// evaluates it with env.
func Compute(src string, env map[string]float64, opts ...ParseOption) Result {
	a, err := ParseString(src, opts...)
	if err != nil {
		return Result{Err: err}
	}
	r := Result{Expr: a, Vars: a.Vars()}
	if len(r.Unbound(env)) != 0 {
		return r
	}
	r.Value, r.Err = a.Eval(env)
	r.Ok = r.Err == nil
	return r
}

// Unbound returns the names of variables in r that are neither constants nor
// defined in env.
func (r *Result) Unbound(env map[string]float64) []string {
	var u []string
	for _, name := range r.Vars {
		if IsConstant(name) {
			continue
		}
		if _, ok := env[name]; !ok {
			u = append(u, name)
		}
	}
	return u
}
