package ast

import (
	"fmt"
	"math/big"
	"strings"
)

type NodeType string

const (
	NodeIdentifier        NodeType = "Identifier"
	NodeIntegerLiteral    NodeType = "IntegerLiteral"
	NodeBooleanLiteral    NodeType = "BooleanLiteral"
	NodeCharLiteral       NodeType = "CharLiteral"
	NodeStringLiteral     NodeType = "StringLiteral"
	NodeArrayLiteral      NodeType = "ArrayLiteral"
	NodeThisExpression    NodeType = "ThisExpression"
	NodeUnaryExpression   NodeType = "UnaryExpression"
	NodeBinaryExpression  NodeType = "BinaryExpression"
	NodeAddressOf         NodeType = "AddressOf"
	NodeDereference       NodeType = "Dereference"
	NodeMemberAccess      NodeType = "MemberAccess"
	NodeIndexExpression   NodeType = "IndexExpression"
	NodeFunctionCall      NodeType = "FunctionCall"
	NodeStructLiteral     NodeType = "StructLiteral"
	NodeBlockExpression   NodeType = "BlockExpression"
	NodeFunctionLiteral   NodeType = "FunctionLiteral"
	NodeIfExpression      NodeType = "IfExpression"
	NodeSimpleType        NodeType = "SimpleType"
	NodeGenericType       NodeType = "GenericType"
	NodePointerType       NodeType = "PointerType"
	NodeArrayType         NodeType = "ArrayType"
	NodeFunctionParameter NodeType = "FunctionParameter"
	NodeCapture           NodeType = "Capture"
	NodeModule            NodeType = "Module"
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
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type TypeExpression interface {
	Node
	typeExpressionNode()
	String() string
}

type typeExpressionMarker struct{}

func (typeExpressionMarker) typeExpressionNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value  *big.Int `json:"value"`
	Suffix string   `json:"suffix,omitempty"`
}

func NewIntegerLiteral(value *big.Int, suffix string) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value, Suffix: suffix}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type CharLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value rune `json:"value"`
}

func NewCharLiteral(value rune) *CharLiteral {
	return &CharLiteral{nodeImpl: newNodeImpl(NodeCharLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type ArrayLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewArrayLiteral(elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{nodeImpl: newNodeImpl(NodeArrayLiteral), Elements: elements}
}

type ThisExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewThisExpression() *ThisExpression {
	return &ThisExpression{nodeImpl: newNodeImpl(NodeThisExpression)}
}

// Operators

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// AddressOf is `&x` or `&mut x`.
type AddressOf struct {
	nodeImpl
	expressionMarker
	statementMarker

	Target  *Identifier `json:"target"`
	Mutable bool        `json:"mutable,omitempty"`
}

func NewAddressOf(target *Identifier, mutable bool) *AddressOf {
	return &AddressOf{nodeImpl: newNodeImpl(NodeAddressOf), Target: target, Mutable: mutable}
}

type Dereference struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operand Expression `json:"operand"`
}

func NewDereference(operand Expression) *Dereference {
	return &Dereference{nodeImpl: newNodeImpl(NodeDereference), Operand: operand}
}

type MemberAccess struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression  `json:"object"`
	Member *Identifier `json:"member"`
}

func NewMemberAccess(object Expression, member *Identifier) *MemberAccess {
	return &MemberAccess{nodeImpl: newNodeImpl(NodeMemberAccess), Object: object, Member: member}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type BlockExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockExpression(body []Statement) *BlockExpression {
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body}
}

// IfExpression serves both as a statement (bodies run in place) and as a
// value-producing expression.
type IfExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfExpression(condition Expression, then, otherwise Statement) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Then: then, Else: otherwise}
}

// Functions

type FunctionParameter struct {
	nodeImpl

	Name      *Identifier    `json:"name"`
	ParamType TypeExpression `json:"paramType,omitempty"`
}

func NewFunctionParameter(name *Identifier, paramType TypeExpression) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Name: name, ParamType: paramType}
}

// Capture is one entry of a `[x, &y, &mut z]` list.
type Capture struct {
	nodeImpl

	Name      *Identifier `json:"name"`
	Reference bool        `json:"reference,omitempty"`
	Mutable   bool        `json:"mutable,omitempty"`
}

func NewCapture(name *Identifier, reference, mutable bool) *Capture {
	return &Capture{nodeImpl: newNodeImpl(NodeCapture), Name: name, Reference: reference, Mutable: mutable}
}

type FunctionLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	ID            *Identifier          `json:"id,omitempty"`
	GenericParams []string             `json:"genericParams,omitempty"`
	Captures      []*Capture           `json:"captures,omitempty"`
	Params        []*FunctionParameter `json:"params"`
	ReturnType    TypeExpression       `json:"returnType,omitempty"`
	Body          Statement            `json:"body"`
	// ExplicitCaptures distinguishes `fn f[]()` from `fn f()`.
	ExplicitCaptures bool `json:"explicitCaptures,omitempty"`
}

func NewFunctionLiteral(id *Identifier, params []*FunctionParameter, body Statement) *FunctionLiteral {
	return &FunctionLiteral{nodeImpl: newNodeImpl(NodeFunctionLiteral), ID: id, Params: params, Body: body}
}

func (f *FunctionLiteral) Name() string {
	if f == nil || f.ID == nil {
		return ""
	}
	return f.ID.Name
}

// Struct literal

type StructLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	StructType    *Identifier      `json:"structType"`
	TypeArguments []TypeExpression `json:"typeArguments,omitempty"`
	Values        []Expression     `json:"values"`
}

func NewStructLiteral(structType *Identifier, typeArgs []TypeExpression, values []Expression) *StructLiteral {
	return &StructLiteral{nodeImpl: newNodeImpl(NodeStructLiteral), StructType: structType, TypeArguments: typeArgs, Values: values}
}

// Type expressions

type SimpleType struct {
	nodeImpl
	typeExpressionMarker

	Name string `json:"name"`
}

func NewSimpleType(name string) *SimpleType {
	return &SimpleType{nodeImpl: newNodeImpl(NodeSimpleType), Name: name}
}

func (t *SimpleType) String() string { return t.Name }

type GenericType struct {
	nodeImpl
	typeExpressionMarker

	Base      string           `json:"base"`
	Arguments []TypeExpression `json:"arguments"`
}

func NewGenericType(base string, args []TypeExpression) *GenericType {
	return &GenericType{nodeImpl: newNodeImpl(NodeGenericType), Base: base, Arguments: args}
}

func (t *GenericType) String() string {
	return t.Base + "<" + joinTypes(t.Arguments, ", ") + ">"
}

type PointerType struct {
	nodeImpl
	typeExpressionMarker

	Mutable bool           `json:"mutable,omitempty"`
	Pointee TypeExpression `json:"pointee"`
}

func NewPointerType(mutable bool, pointee TypeExpression) *PointerType {
	return &PointerType{nodeImpl: newNodeImpl(NodePointerType), Mutable: mutable, Pointee: pointee}
}

func (t *PointerType) String() string {
	if t.Mutable {
		return "*mut " + t.Pointee.String()
	}
	return "*" + t.Pointee.String()
}

// ArrayType is `[T; init; capacity]`; the sizes are optional.
type ArrayType struct {
	nodeImpl
	typeExpressionMarker

	Element TypeExpression `json:"element"`
	Sizes   []int64        `json:"sizes,omitempty"`
}

func NewArrayType(element TypeExpression, sizes []int64) *ArrayType {
	return &ArrayType{nodeImpl: newNodeImpl(NodeArrayType), Element: element, Sizes: sizes}
}

func (t *ArrayType) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(t.Element.String())
	for _, size := range t.Sizes {
		fmt.Fprintf(&b, "; %d", size)
	}
	b.WriteString("]")
	return b.String()
}

// Capacity returns the last declared size, or -1 when unsized.
func (t *ArrayType) Capacity() int64 {
	if len(t.Sizes) == 0 {
		return -1
	}
	return t.Sizes[len(t.Sizes)-1]
}

func joinTypes(types []TypeExpression, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// Module

type Module struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewModule(body []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}
