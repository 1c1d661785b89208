package formula

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt   int
	disableopt []string
)

// parsectx holds the configuration for a single parse.
type parsectx struct {
	// funcs is the set of identifiers that lex as function names. It may be
	// the global funcnames, so options must copy it before modifying it.
	funcs map[string]Func
	// maxdepth is the nesting limit, or 0 for no limit.
	maxdepth int
}

// MaxDepth limits how deeply an expression may nest. Each parenthesized
// group or function argument, each unary sign, and each exponent to the
// right of a ^ is one level. A limit of 0 means no limit, which is the
// default. Panics if n is negative.
//
// Parsing and evaluating use stack space proportional to the depth, so
// callers parsing untrusted input should set a limit.
func MaxDepth(n int) ParseOption {
	if n < 0 {
		panic("formula: negative MaxDepth")
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// DisableFuncs makes the given function names parse as variables instead.
// Aliases are separate names: disabling "ln" leaves "log" as a function.
// With no names, every function is disabled.
func DisableFuncs(names ...string) ParseOption {
	return disableopt(append([]string(nil), names...))
}

func (o disableopt) parseOption(p parsectx) parsectx {
	if len(o) == 0 {
		p.funcs = map[string]Func{}
		return p
	}
	m := make(map[string]Func, len(p.funcs))
	for k, v := range p.funcs {
		m[k] = v
	}
	for _, name := range o {
		delete(m, name)
	}
	p.funcs = m
	return p
}
