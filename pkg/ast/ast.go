package ast

type NodeType string

const (
	NodeProgram          NodeType = "Program"
	NodeIdentifier       NodeType = "Identifier"
	NodeNumberLiteral    NodeType = "NumberLiteral"
	NodeStringLiteral    NodeType = "StringLiteral"
	NodeUnaryExpression  NodeType = "UnaryExpression"
	NodeBinaryExpression NodeType = "BinaryExpression"
	NodeFunctionCall     NodeType = "FunctionCall"
	NodeLetStatement     NodeType = "LetStatement"
	NodePrintStatement   NodeType = "PrintStatement"
	NodeInputStatement   NodeType = "InputStatement"
	NodeIfStatement      NodeType = "IfStatement"
	NodeForLoop          NodeType = "ForLoop"
	NodeWhileLoop        NodeType = "WhileLoop"
	NodeStopStatement    NodeType = "StopStatement"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Loc  Span     `json:"span,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Loc }
func (n *nodeImpl) setSpan(span Span) { n.Loc = span }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Program is the root of a parsed source file.
type Program struct {
	nodeImpl

	Path string      `json:"path,omitempty"`
	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

// Identifier names a variable or builtin. Names are stored upper-cased.
type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// Operators

type UnaryOperator string

const (
	UnaryNegate UnaryOperator = "-"
	UnaryNot    UnaryOperator = "NOT"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(op UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: op, Operand: operand}
}

type BinaryOperator string

const (
	OpAdd          BinaryOperator = "+"
	OpSubtract     BinaryOperator = "-"
	OpMultiply     BinaryOperator = "*"
	OpDivide       BinaryOperator = "/"
	OpPower        BinaryOperator = "^"
	OpEqual        BinaryOperator = "="
	OpNotEqual     BinaryOperator = "<>"
	OpLess         BinaryOperator = "<"
	OpGreater      BinaryOperator = ">"
	OpLessEqual    BinaryOperator = "<="
	OpGreaterEqual BinaryOperator = ">="
	OpAnd          BinaryOperator = "AND"
	OpOr           BinaryOperator = "OR"
)

// IsComparison reports whether the operator yields a 1/0 truth value.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		return true
	default:
		return false
	}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(op BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: op, Left: left, Right: right}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee *Identifier, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

// Statements

// LetStatement binds a variable. Explicit records whether the LET keyword was present.
type LetStatement struct {
	nodeImpl
	statementMarker

	Target   *Identifier `json:"target"`
	Value    Expression  `json:"value"`
	Explicit bool        `json:"explicit,omitempty"`
}

func NewLetStatement(target *Identifier, value Expression, explicit bool) *LetStatement {
	return &LetStatement{nodeImpl: newNodeImpl(NodeLetStatement), Target: target, Value: value, Explicit: explicit}
}

// PrintStatement writes its items separated by a single space. A trailing
// comma in the source sets SuppressNewline.
type PrintStatement struct {
	nodeImpl
	statementMarker

	Items           []Expression `json:"items"`
	SuppressNewline bool         `json:"suppressNewline,omitempty"`
}

func NewPrintStatement(items []Expression, suppressNewline bool) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Items: items, SuppressNewline: suppressNewline}
}

type InputStatement struct {
	nodeImpl
	statementMarker

	Prompt *StringLiteral `json:"prompt,omitempty"`
	Target *Identifier    `json:"target"`
}

func NewInputStatement(prompt *StringLiteral, target *Identifier) *InputStatement {
	return &InputStatement{nodeImpl: newNodeImpl(NodeInputStatement), Prompt: prompt, Target: target}
}

// IfStatement covers both `IF c DO ... END` and `IF c THEN s ELSE s`.
type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Then      []Statement `json:"then"`
	Else      []Statement `json:"else,omitempty"`
	Inline    bool        `json:"inline,omitempty"`
}

func NewIfStatement(cond Expression, then, otherwise []Statement, inline bool) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: cond, Then: then, Else: otherwise, Inline: inline}
}

// ForLoop is a counted loop. Step is nil when the source omitted STEP.
type ForLoop struct {
	nodeImpl
	statementMarker

	Variable *Identifier `json:"variable"`
	Start    Expression  `json:"start"`
	End      Expression  `json:"end"`
	Step     Expression  `json:"step,omitempty"`
	Body     []Statement `json:"body"`
}

func NewForLoop(variable *Identifier, start, end, step Expression, body []Statement) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Variable: variable, Start: start, End: end, Step: step, Body: body}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression  `json:"condition"`
	Body      []Statement `json:"body"`
}

func NewWhileLoop(cond Expression, body []Statement) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: cond, Body: body}
}

type StopStatement struct {
	nodeImpl
	statementMarker
}

func NewStopStatement() *StopStatement {
	return &StopStatement{nodeImpl: newNodeImpl(NodeStopStatement)}
}
