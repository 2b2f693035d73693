package sql

// statement -> clause -> field -> sub-field
const maxTreeDepth = 4

type levelEntry struct {
	label    string
	children int
}

// flatten records every node label at its depth, left to right. The child
// count is kept with each label so that a clause knows exactly how many
// entries of the next level belong to it.
func flatten(root *Node) ([maxTreeDepth][]levelEntry, error) {
	var levels [maxTreeDepth][]levelEntry

	var walk func(*Node, int) error
	walk = func(n *Node, depth int) error {
		if depth >= maxTreeDepth {
			return shapeErrorf("node %q is nested deeper than %d levels", n.Label, maxTreeDepth)
		}
		levels[depth] = append(levels[depth], levelEntry{label: n.Label, children: len(n.Children)})
		for _, c := range n.Children {
			if c == nil {
				return shapeErrorf("node %q has a nil child", n.Label)
			}
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	err := walk(root, 0)
	return levels, err
}

// levelCursor consumes one level front to back and never rewinds.
type levelCursor struct {
	depth   int
	entries []levelEntry
	pos     int
}

func (c *levelCursor) take(n int) ([]levelEntry, error) {
	if c.pos+n > len(c.entries) {
		return nil, shapeErrorf("depth %d holds %d entries, %d more wanted after %d", c.depth, len(c.entries), n, c.pos)
	}
	run := c.entries[c.pos : c.pos+n]
	c.pos += n
	return run, nil
}

func (c *levelCursor) takeLeaves(n int) ([]string, error) {
	run, err := c.take(n)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(run))
	for i, e := range run {
		if e.children != 0 {
			return nil, shapeErrorf("%q at depth %d should be a leaf", e.label, c.depth)
		}
		labels[i] = e.label
	}
	return labels, nil
}

func (c *levelCursor) done() bool {
	return c.pos == len(c.entries)
}

var allowedClauses = map[StmtType]map[string]bool{
	CREATE_STMT: {LabelColumn: true},
	SELECT_STMT: {LabelColumns: true, LabelCondition: true},
	INSERT_STMT: {LabelValues: true},
	UPDATE_STMT: {LabelUpdates: true, LabelCondition: true},
	DELETE_STMT: {LabelCondition: true},
}

// DescribeTree builds a Command from the generic tree of a statement by
// walking it level by level. The table name is positional: the second
// clause of a SELECT and the first clause of every other statement.
func DescribeTree(root *Node) (*Command, error) {
	if root == nil {
		return nil, shapeErrorf("empty tree")
	}
	kind, ok := ParseStmtType(root.Label)
	if !ok {
		return nil, shapeErrorf("unknown statement %q", root.Label)
	}
	levels, err := flatten(root)
	if err != nil {
		return nil, err
	}

	clauses := levels[1]
	tablePos := 0
	if kind == SELECT_STMT {
		tablePos = 1
	}
	if len(clauses) <= tablePos {
		return nil, shapeErrorf("%s has no table name", kind)
	}
	if clauses[tablePos].children != 0 {
		return nil, shapeErrorf("%s table name %q is not a leaf", kind, clauses[tablePos].label)
	}

	cmd := &Command{Kind: kind, Table: clauses[tablePos].label}
	fields := &levelCursor{depth: 2, entries: levels[2]}
	subFields := &levelCursor{depth: 3, entries: levels[3]}
	seen := make(map[string]bool)

	for i, clause := range clauses {
		if i == tablePos {
			continue
		}
		if !allowedClauses[kind][clause.label] {
			return nil, shapeErrorf("%s cannot hold %q", kind, clause.label)
		}
		if seen[clause.label] && clause.label != LabelColumn {
			return nil, shapeErrorf("%s holds more than one %s", kind, clause.label)
		}
		seen[clause.label] = true

		switch clause.label {
		case LabelColumns:
			names, err := fields.takeLeaves(clause.children)
			if err != nil {
				return nil, err
			}
			if len(names) == 0 {
				return nil, shapeErrorf("%s with an empty column list", kind)
			}
			if len(names) == 1 && names[0] == LabelAllColumns {
				cmd.AllColumns = true
				continue
			}
			for _, name := range names {
				if name == LabelAllColumns {
					return nil, shapeErrorf("%s mixed with column names", LabelAllColumns)
				}
				cmd.Columns = append(cmd.Columns, Column{Name: name})
			}

		case LabelColumn:
			if clause.children != 2 {
				return nil, shapeErrorf("%s needs a name and a type, has %d children", LabelColumn, clause.children)
			}
			pair, err := fields.takeLeaves(2)
			if err != nil {
				return nil, err
			}
			cmd.Columns = append(cmd.Columns, Column{Name: pair[0], Type: pair[1]})

		case LabelValues:
			values, err := fields.takeLeaves(clause.children)
			if err != nil {
				return nil, err
			}
			cmd.Values = values

		case LabelUpdates:
			updates, err := fields.take(clause.children)
			if err != nil {
				return nil, err
			}
			for _, u := range updates {
				if u.label != LabelUpdateField || u.children != 2 {
					return nil, shapeErrorf("%q with %d children is not an %s", u.label, u.children, LabelUpdateField)
				}
				pair, err := subFields.takeLeaves(2)
				if err != nil {
					return nil, err
				}
				cmd.Assignments = append(cmd.Assignments, Assignment{Column: pair[0], Value: pair[1]})
			}

		case LabelCondition:
			if clause.children != 3 {
				return nil, shapeErrorf("%s has %d children, want 3", LabelCondition, clause.children)
			}
			parts, err := fields.takeLeaves(3)
			if err != nil {
				return nil, err
			}
			op, ok := ParseCompareOp(parts[1])
			if !ok {
				return nil, shapeErrorf("%q is not a comparison operator", parts[1])
			}
			cmd.Condition = &Condition{Column: parts[0], Op: op, Value: parts[2]}
		}
	}

	if !fields.done() || !subFields.done() {
		return nil, shapeErrorf("%s tree has entries no clause accounts for", kind)
	}

	switch kind {
	case CREATE_STMT:
		if len(cmd.Columns) == 0 {
			return nil, shapeErrorf("CREATE TABLE %s has no columns", cmd.Table)
		}
	case SELECT_STMT:
		if !seen[LabelColumns] {
			return nil, shapeErrorf("SELECT from %s has no %s", cmd.Table, LabelColumns)
		}
	case INSERT_STMT:
		if len(cmd.Values) == 0 {
			return nil, shapeErrorf("INSERT INTO %s has no values", cmd.Table)
		}
	case UPDATE_STMT:
		if len(cmd.Assignments) == 0 || cmd.Condition == nil {
			return nil, shapeErrorf("UPDATE %s needs assignments and a condition", cmd.Table)
		}
	}
	return cmd, nil
}
