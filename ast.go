package minilang

// NodeKind identifies the variant of a Node.
type NodeKind int

// Node kinds.
const (
	KindNumber      NodeKind = iota // Numeric literal
	KindName                        // Variable reference
	KindBinaryOp                    // Arithmetic composition
	KindConditional                 // Equality test
	KindAssignment                  // Variable binding
	KindIf                          // Conditional statement
)

// String returns the name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindName:
		return "Name"
	case KindBinaryOp:
		return "BinaryOp"
	case KindConditional:
		return "Conditional"
	case KindAssignment:
		return "Assignment"
	case KindIf:
		return "If"
	default:
		return "Unknown"
	}
}

// Operator is an arithmetic or comparison operator symbol.
type Operator string

// Operators.
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpEq  Operator = "=="
)

// IsArithmetic reports whether op is one of + - * /.
func (op Operator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	default:
		return false
	}
}

// Node is a parsed AST node.
// The set of implementations is closed to the types in this file.
type Node interface {
	Kind() NodeKind
	node()
}

// Number holds a numeric literal.
type Number struct {
	Value float64
}

// Name holds a variable identifier.
type Name struct {
	Ident string
}

// BinaryOp is Left Op Right with Op one of + - * /.
type BinaryOp struct {
	Left  Node
	Right Node
	Op    Operator
}

// Conditional is Left == Right. It is only used as an if condition.
type Conditional struct {
	Left  Node
	Right Node
}

// Assignment binds the value of an expression to a variable.
type Assignment struct {
	Target *Name
	Value  Node
}

// If is "if Cond then Then [else Else]". Else is nil without an else clause.
type If struct {
	Cond Node
	Then Node
	Else Node
}

func (*Number) Kind() NodeKind      { return KindNumber }
func (*Name) Kind() NodeKind        { return KindName }
func (*BinaryOp) Kind() NodeKind    { return KindBinaryOp }
func (*Conditional) Kind() NodeKind { return KindConditional }
func (*Assignment) Kind() NodeKind  { return KindAssignment }
func (*If) Kind() NodeKind          { return KindIf }

func (*Number) node()      {}
func (*Name) node()        {}
func (*BinaryOp) node()    {}
func (*Conditional) node() {}
func (*Assignment) node()  {}
func (*If) node()          {}

// Op returns the fixed comparison operator.
func (*Conditional) Op() Operator { return OpEq }

// IsExpr reports whether n is an arithmetic expression node
// (Number, Name or BinaryOp).
func IsExpr(n Node) bool {
	switch n.(type) {
	case *Number, *Name, *BinaryOp:
		return true
	default:
		return false
	}
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}

	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Name:
		y, ok := b.(*Name)
		return ok && x.Ident == y.Ident
	case *BinaryOp:
		y, ok := b.(*BinaryOp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Conditional:
		y, ok := b.(*Conditional)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Assignment:
		y, ok := b.(*Assignment)
		return ok && Equal(nameNode(x.Target), nameNode(y.Target)) && Equal(x.Value, y.Value)
	case *If:
		y, ok := b.(*If)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	default:
		return false
	}
}

// isNil checks for both untyped and typed nil nodes.
func isNil(n Node) bool {
	if n == nil {
		return true
	}

	switch v := n.(type) {
	case *Number:
		return v == nil
	case *Name:
		return v == nil
	case *BinaryOp:
		return v == nil
	case *Conditional:
		return v == nil
	case *Assignment:
		return v == nil
	case *If:
		return v == nil
	default:
		return false
	}
}

// nameNode converts a possibly nil *Name into a Node without a typed nil.
func nameNode(n *Name) Node {
	if n == nil {
		return nil
	}

	return n
}
