package ast

type NodeType string

const (
	NodeBlock              NodeType = "Block"
	NodeAssignment         NodeType = "Assignment"
	NodeInvoke             NodeType = "Invoke"
	NodeStringLiteral      NodeType = "StringLiteral"
	NodeIntegerLiteral     NodeType = "IntegerLiteral"
	NodeFloatLiteral       NodeType = "FloatLiteral"
	NodeBooleanLiteral     NodeType = "BooleanLiteral"
	NodeListLiteral        NodeType = "ListLiteral"
	NodeMapLiteral         NodeType = "MapLiteral"
	NodeMapEntry           NodeType = "MapEntry"
	NodeFunctionCall       NodeType = "FunctionCall"
	NodeCondition          NodeType = "Condition"
	NodeLoop               NodeType = "Loop"
	NodeReturn             NodeType = "Return"
	NodeBreak              NodeType = "Break"
	NodeExport             NodeType = "Export"
	NodeImport             NodeType = "Import"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeModule             NodeType = "Module"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Item is a top-level module member.
type Item interface {
	Node
	itemNode()
}

type itemMarker struct{}

func (itemMarker) itemNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Names and paths

// Name identifies variables, functions and modules. Equality is plain string
// equality.
type Name = string

// Path addresses a function inside a registered module.
type Path struct {
	Module Name `json:"module"`
	Item   Name `json:"item"`
}

func NewPath(module, item Name) Path {
	return Path{Module: module, Item: item}
}

func (p Path) String() string {
	return p.Module + "." + p.Item
}

// Expressions

type Block struct {
	nodeImpl
	expressionMarker

	Expressions []Expression `json:"expressions"`
}

func NewBlock(expressions []Expression) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Expressions: expressions}
}

type Assignment struct {
	nodeImpl
	expressionMarker

	Name  Name       `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignment(name Name, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Name: name, Value: value}
}

// Invoke reads a variable from the visible scope chain.
type Invoke struct {
	nodeImpl
	expressionMarker

	Name Name `json:"name"`
}

func NewInvoke(name Name) *Invoke {
	return &Invoke{nodeImpl: newNodeImpl(NodeInvoke), Name: name}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Path      Path         `json:"path"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(path Path, arguments []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Path: path, Arguments: arguments}
}

type Condition struct {
	nodeImpl
	expressionMarker

	Test      Expression `json:"test"`
	WhenTrue  Expression `json:"whenTrue"`
	WhenFalse Expression `json:"whenFalse"`
}

func NewCondition(test, whenTrue, whenFalse Expression) *Condition {
	return &Condition{nodeImpl: newNodeImpl(NodeCondition), Test: test, WhenTrue: whenTrue, WhenFalse: whenFalse}
}

// Loop evaluates Body until a Break escapes it.
type Loop struct {
	nodeImpl
	expressionMarker

	Body Expression `json:"body"`
}

func NewLoop(body Expression) *Loop {
	return &Loop{nodeImpl: newNodeImpl(NodeLoop), Body: body}
}

type Return struct {
	nodeImpl
	expressionMarker

	Argument Expression `json:"argument"`
}

func NewReturn(argument Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Argument: argument}
}

type Break struct {
	nodeImpl
	expressionMarker

	Argument Expression `json:"argument"`
}

func NewBreak(argument Expression) *Break {
	return &Break{nodeImpl: newNodeImpl(NodeBreak), Argument: argument}
}

// Literals

type StringLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value int32 `json:"value"`
}

func NewIntegerLiteral(value int32) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type FloatLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value float32 `json:"value"`
}

func NewFloatLiteral(value float32) *FloatLiteral {
	return &FloatLiteral{nodeImpl: newNodeImpl(NodeFloatLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type MapEntry struct {
	nodeImpl

	Key   Name       `json:"key"`
	Value Expression `json:"value"`
}

func NewMapEntry(key Name, value Expression) *MapEntry {
	return &MapEntry{nodeImpl: newNodeImpl(NodeMapEntry), Key: key, Value: value}
}

// MapLiteral keeps source order for evaluation; the resulting object is
// unordered.
type MapLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Entries []*MapEntry `json:"entries"`
}

func NewMapLiteral(entries []*MapEntry) *MapLiteral {
	return &MapLiteral{nodeImpl: newNodeImpl(NodeMapLiteral), Entries: entries}
}

// Module items

type Export struct {
	nodeImpl
	itemMarker

	Names []Name `json:"names"`
}

func NewExport(names []Name) *Export {
	return &Export{nodeImpl: newNodeImpl(NodeExport), Names: names}
}

// Import binds Item of another module under the same name locally.
type Import struct {
	nodeImpl
	itemMarker

	Module Name   `json:"module"`
	Items  []Name `json:"items"`
}

func NewImport(module Name, items []Name) *Import {
	return &Import{nodeImpl: newNodeImpl(NodeImport), Module: module, Items: items}
}

type FunctionDefinition struct {
	nodeImpl
	itemMarker

	Name       Name   `json:"name"`
	Parameters []Name `json:"parameters"`
	Body       *Block `json:"body"`
}

func NewFunctionDefinition(name Name, parameters []Name, body *Block) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Name: name, Parameters: parameters, Body: body}
}

// Module root

type Module struct {
	nodeImpl

	Items []Item `json:"items"`
}

func NewModule(items []Item) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Items: items}
}

// Functions returns the function definitions in declaration order.
func (m *Module) Functions() []*FunctionDefinition {
	if m == nil {
		return nil
	}
	var out []*FunctionDefinition
	for _, item := range m.Items {
		if def, ok := item.(*FunctionDefinition); ok {
			out = append(out, def)
		}
	}
	return out
}
