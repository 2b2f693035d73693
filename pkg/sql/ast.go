package sql

import (
	"fmt"
	"strings"
)

type StmtType int

const (
	_ StmtType = iota
	CREATE_STMT
	SELECT_STMT
	INSERT_STMT
	UPDATE_STMT
	DELETE_STMT
)

var stmtNames = map[StmtType]string{
	CREATE_STMT: "CREATE",
	SELECT_STMT: "SELECT",
	INSERT_STMT: "INSERT",
	UPDATE_STMT: "UPDATE",
	DELETE_STMT: "DELETE",
}

var stmtTypes = map[string]StmtType{
	"CREATE": CREATE_STMT,
	"SELECT": SELECT_STMT,
	"INSERT": INSERT_STMT,
	"UPDATE": UPDATE_STMT,
	"DELETE": DELETE_STMT,
}

func (t StmtType) String() string {
	if name, ok := stmtNames[t]; ok {
		return name
	}
	return fmt.Sprintf("StmtType(%d)", int(t))
}

// ParseStmtType maps a statement keyword back to its type.
func ParseStmtType(s string) (StmtType, bool) {
	t, ok := stmtTypes[s]
	return t, ok
}

type Statement interface {
	GetStmtType() StmtType
	// Tree renders the statement as a generic labeled tree.
	Tree() *Node
}

type CompareOp int

const (
	EQ CompareOp = iota
	NE
	LT
	GT
	LE
	GE
)

var compareOps = map[string]CompareOp{
	"=":  EQ,
	"!=": NE,
	"<":  LT,
	">":  GT,
	"<=": LE,
	">=": GE,
}

func (o CompareOp) String() string {
	switch o {
	case EQ:
		return "="
	case NE:
		return "!="
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	}
	return fmt.Sprintf("CompareOp(%d)", int(o))
}

func ParseCompareOp(s string) (CompareOp, bool) {
	op, ok := compareOps[s]
	return op, ok
}

// Condition is the single comparison a statement may carry.
type Condition struct {
	Column string
	Op     CompareOp
	Value  string
}

func (c *Condition) String() string {
	return c.Column + " " + c.Op.String() + " " + c.Value
}

type Column struct {
	Name string
	Type string
}

type Assignment struct {
	Column string
	Value  string
}

type CreateStmt struct {
	Table   string
	Columns []Column
}

func (*CreateStmt) GetStmtType() StmtType {
	return CREATE_STMT
}

type SelectStmt struct {
	All    bool
	Fields []string
	From   string
	Where  *Condition
}

func (*SelectStmt) GetStmtType() StmtType {
	return SELECT_STMT
}

type InsertStmt struct {
	Into   string
	Values []string
}

func (*InsertStmt) GetStmtType() StmtType {
	return INSERT_STMT
}

type UpdateStmt struct {
	Table string
	Set   []Assignment
	Where *Condition
}

func (*UpdateStmt) GetStmtType() StmtType {
	return UPDATE_STMT
}

type DeleteStmt struct {
	From  string
	Where *Condition
}

func (*DeleteStmt) GetStmtType() StmtType {
	return DELETE_STMT
}

// Labels used by the generic tree for clause nodes.
const (
	LabelColumn      = "COLUMN"
	LabelColumns     = "COLUMNS"
	LabelAllColumns  = "ALL_COLUMNS"
	LabelCondition   = "CONDITION"
	LabelValues      = "VALUES"
	LabelUpdates     = "UPDATES"
	LabelUpdateField = "UPDATE_FIELD"
)

// Node is the generic labeled tree. Statement roots are labeled with the
// statement keyword, clauses with one of the Label constants, and leaves
// with the identifier, operator or literal text they stand for.
type Node struct {
	Label    string
	Children []*Node
}

func leaf(label string) *Node {
	return &Node{Label: label}
}

func branch(label string, children ...*Node) *Node {
	return &Node{Label: label, Children: children}
}

// String prints the tree one node per line, indented two spaces per level.
func (n *Node) String() string {
	var b strings.Builder
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Label)
		b.WriteByte('\n')
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return b.String()
}

func (c *Condition) node() *Node {
	return branch(LabelCondition, leaf(c.Column), leaf(c.Op.String()), leaf(c.Value))
}

func (s *CreateStmt) Tree() *Node {
	root := branch(CREATE_STMT.String(), leaf(s.Table))
	for _, col := range s.Columns {
		root.Children = append(root.Children, branch(LabelColumn, leaf(col.Name), leaf(col.Type)))
	}
	return root
}

func (s *SelectStmt) Tree() *Node {
	columns := branch(LabelColumns)
	if s.All {
		columns.Children = append(columns.Children, leaf(LabelAllColumns))
	} else {
		for _, f := range s.Fields {
			columns.Children = append(columns.Children, leaf(f))
		}
	}
	root := branch(SELECT_STMT.String(), columns, leaf(s.From))
	if s.Where != nil {
		root.Children = append(root.Children, s.Where.node())
	}
	return root
}

func (s *InsertStmt) Tree() *Node {
	values := branch(LabelValues)
	for _, v := range s.Values {
		values.Children = append(values.Children, leaf(v))
	}
	return branch(INSERT_STMT.String(), leaf(s.Into), values)
}

func (s *UpdateStmt) Tree() *Node {
	updates := branch(LabelUpdates)
	for _, a := range s.Set {
		updates.Children = append(updates.Children, branch(LabelUpdateField, leaf(a.Column), leaf(a.Value)))
	}
	root := branch(UPDATE_STMT.String(), leaf(s.Table), updates)
	if s.Where != nil {
		root.Children = append(root.Children, s.Where.node())
	}
	return root
}

func (s *DeleteStmt) Tree() *Node {
	root := branch(DELETE_STMT.String(), leaf(s.From))
	if s.Where != nil {
		root.Children = append(root.Children, s.Where.node())
	}
	return root
}
