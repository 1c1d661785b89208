package formula

import (
	"io"
	"sort"
	"strings"
)

// Expr = Additive
// Additive = Multiplicative { ('+' | '-') Multiplicative }
// Multiplicative = Power { ('*' | '/' | '%') Power }
// Power = Unary [ '^' Power ]
// Unary = ('+' | '-') Unary | Primary
// Primary = num | name | funcname '(' Expr ')' | '(' Expr ')'

// Expr is a parsed expression. An Expr is immutable and safe to evaluate
// concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Parse parses an expression. The entire input is consumed. The given
// options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	p := parsectx{funcs: funcnames}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	toks, err := tokenize(src, p.funcs)
	if err != nil {
		return nil, err
	}
	if toks[0].kind == tokenEOF {
		return nil, &EmptyExpressionError{Col: toks[0].pos}
	}
	ps := parser{toks: toks, max: p.maxdepth}
	n, err := ps.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := ps.peek(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, &BracketError{Col: tok.pos, Right: tok.text}
	default:
		return nil, &TrailingError{Col: tok.pos, Text: ps.rest()}
	}
	names := make(map[string]bool)
	n.names(names)
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(names)),
	}
	for k := range names {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parser is the cursor over the tokens of a single parse.
type parser struct {
	toks []lexToken
	k    int
	// depth is the current nesting level and max is its limit.
	depth, max int
}

// peek returns the next token without consuming it.
func (p *parser) peek() lexToken {
	return p.toks[p.k]
}

// advance consumes the next token. Once at EOF, advance keeps returning the
// EOF token.
func (p *parser) advance() lexToken {
	tok := p.toks[p.k]
	if tok.kind != tokenEOF {
		p.k++
	}
	return tok
}

// rest returns the text of all unconsumed tokens.
func (p *parser) rest() string {
	var b strings.Builder
	for _, tok := range p.toks[p.k:] {
		if tok.kind == tokenEOF {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.text)
	}
	return b.String()
}

// enter increases the nesting level for a subexpression beginning at tok.
// The caller must call leave if enter succeeds.
func (p *parser) enter(tok lexToken) error {
	p.depth++
	if p.max > 0 && p.depth > p.max {
		p.depth--
		return &DepthError{Col: tok.pos, Max: p.max}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseterm parses a chain of binary operations whose operators are all more
// binding than until. The token that ends the chain is left unconsumed.
func (p *parser) parseterm(until operator) (*node, error) {
	n, err := p.parseunary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp {
			return n, nil
		}
		prec := binop(tok.text)
		if prec.op == nodeNone {
			panic("formula: no binary operator for " + tok.String())
		}
		if !prec.moreBinding(until) {
			return n, nil
		}
		p.advance()
		if prec.right {
			// Right-associative operators recurse on their right operand,
			// so they nest.
			if err := p.enter(tok); err != nil {
				return nil, err
			}
		}
		rhs, err := p.parseterm(prec)
		if prec.right {
			p.leave()
		}
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: n, right: rhs}
	}
}

// parseunary parses any number of unary signs followed by a primary.
func (p *parser) parseunary() (*node, error) {
	tok := p.peek()
	if tok.kind != tokenOp {
		return p.parseprimary()
	}
	op := unop(tok.text)
	if op == nodeNone {
		return p.parseprimary()
	}
	p.advance()
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()
	rhs, err := p.parseunary()
	if err != nil {
		return nil, err
	}
	return &node{kind: op, left: rhs}, nil
}

// parseprimary parses a number, variable, function call, or parenthesized
// expression.
func (p *parser) parseprimary() (*node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokenNum:
		return &node{kind: nodeNum, name: tok.text, num: tok.num}, nil
	case tokenIdent:
		if p.peek().kind == tokenOpen {
			// Calls are the only thing that can follow a name directly with
			// a parenthesis, so this is a call to something unknown.
			return nil, &FuncError{Col: tok.pos, Name: tok.text}
		}
		return &node{kind: nodeName, name: tok.text}, nil
	case tokenFunc:
		open := p.advance()
		if open.kind != tokenOpen {
			return nil, &TokenError{Col: open.pos, Want: "(", Got: open.text}
		}
		arg, err := p.parsegroup(open)
		if err != nil {
			return nil, err
		}
		end := p.advance()
		if end.kind != tokenClose {
			return nil, &TokenError{Col: end.pos, Want: ")", Got: end.text}
		}
		return &node{kind: nodeCall, name: tok.text, fn: tok.fn, args: []*node{arg}}, nil
	case tokenOpen:
		n, err := p.parsegroup(tok)
		if err != nil {
			return nil, err
		}
		switch end := p.advance(); end.kind {
		case tokenClose:
			return n, nil
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: tok.text}
		default:
			return nil, &TokenError{Col: end.pos, Want: ")", Got: end.text}
		}
	case tokenOp, tokenClose, tokenSep, tokenEOF:
		// Unary operators are handled by parseunary, so whatever we have
		// here can't begin an operand.
		return nil, &OperandError{Col: tok.pos, Got: tok.text}
	default:
		panic("formula: unknown token: " + tok.String())
	}
}

// parsegroup parses the complete expression following an open parenthesis.
// The close parenthesis is left for the caller.
func (p *parser) parsegroup(open lexToken) (*node, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseterm(exprprec)
}

// Vars returns the sorted names of all variables used in the expression,
// including names of constants.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression with every
// operation in parentheses. The result parses to an equivalent expression.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{5, false, nodeMod}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets the node kind for a unary operator, or nodeNone if text is not a
// unary operator.
func unop(text string) nodeKind {
	switch text {
	case "+":
		return nodeNop
	case "-":
		return nodeNeg
	default:
		return nodeNone
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
