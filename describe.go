package minilang

// NodeInfo is a tagged, serializable view of a Node.
type NodeInfo struct {
	Kind   string    `json:"kind" yaml:"kind"`                         // Node kind name
	Name   string    `json:"name,omitempty" yaml:"name,omitempty"`     // Name identifier
	Op     string    `json:"op,omitempty" yaml:"op,omitempty"`         // Operator symbol
	Value  *float64  `json:"value,omitempty" yaml:"value,omitempty"`   // Number literal
	Left   *NodeInfo `json:"left,omitempty" yaml:"left,omitempty"`     // BinaryOp/Conditional left operand
	Right  *NodeInfo `json:"right,omitempty" yaml:"right,omitempty"`   // BinaryOp/Conditional right operand
	Target *NodeInfo `json:"target,omitempty" yaml:"target,omitempty"` // Assignment target
	Expr   *NodeInfo `json:"expr,omitempty" yaml:"expr,omitempty"`     // Assignment value
	Cond   *NodeInfo `json:"cond,omitempty" yaml:"cond,omitempty"`     // If condition
	Then   *NodeInfo `json:"then,omitempty" yaml:"then,omitempty"`     // If then branch
	Else   *NodeInfo `json:"else,omitempty" yaml:"else,omitempty"`     // If else branch
}

// Describe converts a tree into its tagged view. Nil nodes describe as nil.
func Describe(n Node) *NodeInfo {
	if isNil(n) {
		return nil
	}

	info := &NodeInfo{Kind: n.Kind().String()}
	switch v := n.(type) {
	case *Number:
		val := v.Value
		info.Value = &val
	case *Name:
		info.Name = v.Ident
	case *BinaryOp:
		info.Op = string(v.Op)
		info.Left = Describe(v.Left)
		info.Right = Describe(v.Right)
	case *Conditional:
		info.Op = string(v.Op())
		info.Left = Describe(v.Left)
		info.Right = Describe(v.Right)
	case *Assignment:
		info.Target = Describe(nameNode(v.Target))
		info.Expr = Describe(v.Value)
	case *If:
		info.Cond = Describe(v.Cond)
		info.Then = Describe(v.Then)
		info.Else = Describe(v.Else)
	}

	return info
}
