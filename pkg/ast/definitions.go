package ast

const (
	NodeLetStatement          NodeType = "LetStatement"
	NodeStructPattern         NodeType = "StructPattern"
	NodeAssignmentStatement   NodeType = "AssignmentStatement"
	NodeWhileLoop             NodeType = "WhileLoop"
	NodeReturnStatement       NodeType = "ReturnStatement"
	NodeFunctionDefinition    NodeType = "FunctionDefinition"
	NodeStructFieldDefinition NodeType = "StructFieldDefinition"
	NodeStructDefinition      NodeType = "StructDefinition"
	NodeTypeAliasDefinition   NodeType = "TypeAliasDefinition"
	NodeUseStatement          NodeType = "UseStatement"
	NodeExternFunction        NodeType = "ExternFunction"
	NodeExportStatement       NodeType = "ExportStatement"
)

// Bindings

// StructPattern is the `{ a, b }` left-hand side of a destructuring let.
type StructPattern struct {
	nodeImpl

	Fields []*Identifier `json:"fields"`
}

func NewStructPattern(fields []*Identifier) *StructPattern {
	return &StructPattern{nodeImpl: newNodeImpl(NodeStructPattern), Fields: fields}
}

type LetStatement struct {
	nodeImpl
	statementMarker

	Name     *Identifier    `json:"name,omitempty"`
	Pattern  *StructPattern `json:"pattern,omitempty"`
	Mutable  bool           `json:"mutable,omitempty"`
	TypeExpr TypeExpression `json:"typeExpr,omitempty"`
	Value    Expression     `json:"value,omitempty"`
}

func NewLetStatement(name *Identifier, mutable bool, typeExpr TypeExpression, value Expression) *LetStatement {
	return &LetStatement{nodeImpl: newNodeImpl(NodeLetStatement), Name: name, Mutable: mutable, TypeExpr: typeExpr, Value: value}
}

func NewDestructuringLet(pattern *StructPattern, typeExpr TypeExpression, value Expression) *LetStatement {
	return &LetStatement{nodeImpl: newNodeImpl(NodeLetStatement), Pattern: pattern, TypeExpr: typeExpr, Value: value}
}

// AssignmentStatement covers `=`, `+=`, `-=`, `*=` and `/=` against an
// identifier, `*p`, `a[i]` or `s.f` target.
type AssignmentStatement struct {
	nodeImpl
	statementMarker

	Operator string     `json:"operator"`
	Target   Expression `json:"target"`
	Value    Expression `json:"value"`
}

func NewAssignmentStatement(operator string, target, value Expression) *AssignmentStatement {
	return &AssignmentStatement{nodeImpl: newNodeImpl(NodeAssignmentStatement), Operator: operator, Target: target, Value: value}
}

// Control flow

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileLoop(condition Expression, body Statement) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

// Declarations

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	Function *FunctionLiteral `json:"function"`
	IsClass  bool             `json:"isClass,omitempty"`
}

func NewFunctionDefinition(fn *FunctionLiteral, isClass bool) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Function: fn, IsClass: isClass}
}

type StructFieldDefinition struct {
	nodeImpl

	Name      *Identifier    `json:"name"`
	FieldType TypeExpression `json:"fieldType"`
}

func NewStructFieldDefinition(name *Identifier, fieldType TypeExpression) *StructFieldDefinition {
	return &StructFieldDefinition{nodeImpl: newNodeImpl(NodeStructFieldDefinition), Name: name, FieldType: fieldType}
}

type StructDefinition struct {
	nodeImpl
	statementMarker

	ID            *Identifier              `json:"id"`
	GenericParams []string                 `json:"genericParams,omitempty"`
	Fields        []*StructFieldDefinition `json:"fields"`
}

func NewStructDefinition(id *Identifier, genericParams []string, fields []*StructFieldDefinition) *StructDefinition {
	return &StructDefinition{nodeImpl: newNodeImpl(NodeStructDefinition), ID: id, GenericParams: genericParams, Fields: fields}
}

// TypeAliasDefinition is `type A = B;`, optionally `type A = B then handler;`.
type TypeAliasDefinition struct {
	nodeImpl
	statementMarker

	ID          *Identifier    `json:"id"`
	Target      TypeExpression `json:"target"`
	DropHandler *Identifier    `json:"dropHandler,omitempty"`
}

func NewTypeAliasDefinition(id *Identifier, target TypeExpression, dropHandler *Identifier) *TypeAliasDefinition {
	return &TypeAliasDefinition{nodeImpl: newNodeImpl(NodeTypeAliasDefinition), ID: id, Target: target, DropHandler: dropHandler}
}

// Modules

// UseStatement is `use module::item;` (Item set) or `extern use module;`.
type UseStatement struct {
	nodeImpl
	statementMarker

	Module *Identifier `json:"module"`
	Item   *Identifier `json:"item,omitempty"`
	Extern bool        `json:"extern,omitempty"`
}

func NewUseStatement(module, item *Identifier, extern bool) *UseStatement {
	return &UseStatement{nodeImpl: newNodeImpl(NodeUseStatement), Module: module, Item: item, Extern: extern}
}

// ExternFunction is a forward declaration; it has no runtime effect.
type ExternFunction struct {
	nodeImpl
	statementMarker

	ID            *Identifier          `json:"id"`
	GenericParams []string             `json:"genericParams,omitempty"`
	Params        []*FunctionParameter `json:"params"`
	ReturnType    TypeExpression       `json:"returnType,omitempty"`
	IsClass       bool                 `json:"isClass,omitempty"`
}

func NewExternFunction(id *Identifier, params []*FunctionParameter, returnType TypeExpression, isClass bool) *ExternFunction {
	return &ExternFunction{nodeImpl: newNodeImpl(NodeExternFunction), ID: id, Params: params, ReturnType: returnType, IsClass: isClass}
}

// ExportStatement marks an `out` declaration of a module.
type ExportStatement struct {
	nodeImpl
	statementMarker

	Declaration Statement `json:"declaration"`
}

func NewExportStatement(decl Statement) *ExportStatement {
	return &ExportStatement{nodeImpl: newNodeImpl(NodeExportStatement), Declaration: decl}
}

// DeclaredNames lists the names a declaration statement introduces.
func DeclaredNames(stmt Statement) []string {
	switch s := stmt.(type) {
	case *LetStatement:
		if s.Pattern != nil {
			names := make([]string, 0, len(s.Pattern.Fields))
			for _, f := range s.Pattern.Fields {
				names = append(names, f.Name)
			}
			return names
		}
		if s.Name != nil {
			return []string{s.Name.Name}
		}
	case *FunctionDefinition:
		if name := s.Function.Name(); name != "" {
			return []string{name}
		}
	case *StructDefinition:
		return []string{s.ID.Name}
	case *TypeAliasDefinition:
		return []string{s.ID.Name}
	case *ExportStatement:
		return DeclaredNames(s.Declaration)
	}
	return nil
}
