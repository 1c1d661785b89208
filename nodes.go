package formula

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Each node owns
// its children exclusively, and nodes are never modified after parsing.
type node struct {
	kind nodeKind

	// name is the source text of a number, the name of a variable, or the
	// name used to call a function.
	name string
	num  float64
	fn   Func
	args []*node

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // num
	nodeName // lookup(name)
	nodeCall // fn(args...)

	nodeNeg // -left
	nodeNop // +left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodeMod // left % right
	nodePow // left ^ right
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeName:
		return "Name"
	case nodeCall:
		return "Call"
	case nodeNeg:
		return "Neg"
	case nodeNop:
		return "Nop"
	case nodeAdd:
		return "Add"
	case nodeSub:
		return "Sub"
	case nodeMul:
		return "Mul"
	case nodeDiv:
		return "Div"
	case nodeMod:
		return "Mod"
	case nodePow:
		return "Pow"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// opsyms gives the operator text for unary and binary nodes.
var opsyms = [...]string{
	nodeNeg: "-",
	nodeNop: "+",
	nodeAdd: "+",
	nodeSub: "-",
	nodeMul: "*",
	nodeDiv: "/",
	nodeMod: "%",
	nodePow: "^",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n with every operator application in parentheses.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteString("$")
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteString("$")
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, arg := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.fmt(b)
		}
		b.WriteByte(')')
	case nodeNeg, nodeNop:
		b.WriteByte('(')
		b.WriteString(opsyms[n.kind])
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(opsyms[n.kind])
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("formula: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// names adds the name of every variable in the tree to m.
func (n *node) names(m map[string]bool) {
	if n == nil {
		return
	}
	if n.kind == nodeName {
		m[n.name] = true
		return
	}
	for _, arg := range n.args {
		arg.names(m)
	}
	n.left.names(m)
	n.right.names(m)
}
