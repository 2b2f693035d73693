package sql

// Command is the flat description of one statement handed to the catalog.
// Fields the statement does not use stay empty.
type Command struct {
	Kind        StmtType
	Table       string
	AllColumns  bool
	Columns     []Column
	Values      []string
	Assignments []Assignment
	Condition   *Condition
}

// ColumnNames returns the names of Columns in order.
func (c *Command) ColumnNames() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// Describe flattens a parsed statement into a Command.
func Describe(stmt Statement) (*Command, error) {
	switch s := stmt.(type) {
	case *CreateStmt:
		if len(s.Columns) == 0 {
			return nil, shapeErrorf("CREATE TABLE %s has no columns", s.Table)
		}
		return &Command{
			Kind:    CREATE_STMT,
			Table:   s.Table,
			Columns: append([]Column(nil), s.Columns...),
		}, nil

	case *SelectStmt:
		if !s.All && len(s.Fields) == 0 {
			return nil, shapeErrorf("SELECT from %s has no columns", s.From)
		}
		cmd := &Command{
			Kind:       SELECT_STMT,
			Table:      s.From,
			AllColumns: s.All,
			Condition:  copyCondition(s.Where),
		}
		if !s.All {
			for _, f := range s.Fields {
				if f == LabelAllColumns {
					return nil, shapeErrorf("SELECT from %s names the reserved column %s", s.From, f)
				}
				cmd.Columns = append(cmd.Columns, Column{Name: f})
			}
		}
		return cmd, nil

	case *InsertStmt:
		if len(s.Values) == 0 {
			return nil, shapeErrorf("INSERT INTO %s has no values", s.Into)
		}
		return &Command{
			Kind:   INSERT_STMT,
			Table:  s.Into,
			Values: append([]string(nil), s.Values...),
		}, nil

	case *UpdateStmt:
		if len(s.Set) == 0 {
			return nil, shapeErrorf("UPDATE %s has no assignments", s.Table)
		}
		if s.Where == nil {
			return nil, shapeErrorf("UPDATE %s has no condition", s.Table)
		}
		return &Command{
			Kind:        UPDATE_STMT,
			Table:       s.Table,
			Assignments: append([]Assignment(nil), s.Set...),
			Condition:   copyCondition(s.Where),
		}, nil

	case *DeleteStmt:
		return &Command{
			Kind:      DELETE_STMT,
			Table:     s.From,
			Condition: copyCondition(s.Where),
		}, nil
	}
	return nil, shapeErrorf("unsupported statement %T", stmt)
}

func copyCondition(c *Condition) *Condition {
	if c == nil {
		return nil
	}
	cond := *c
	return &cond
}
