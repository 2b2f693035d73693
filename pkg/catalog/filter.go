package catalog

import (
	"strconv"
	"strings"

	"minisql/pkg/sql"
)

// filter 是绑定到表中列位置的条件
type filter struct {
	pos   int
	op    sql.CompareOp
	value string
}

// 条件为空时返回 nil，nil 匹配所有行
func prepareFilter(def *TableDef, cond *sql.Condition) (*filter, error) {
	if cond == nil {
		return nil, nil
	}
	pos, err := def.columnPos(cond.Column)
	if err != nil {
		return nil, err
	}
	return &filter{pos: pos, op: cond.Op, value: cond.Value}, nil
}

func (f *filter) match(row []string) bool {
	if f == nil {
		return true
	}
	if f.pos >= len(row) {
		return false
	}

	cmp := compare(row[f.pos], f.value)
	switch f.op {
	case sql.EQ:
		return cmp == 0
	case sql.NE:
		return cmp != 0
	case sql.LT:
		return cmp < 0
	case sql.GT:
		return cmp > 0
	case sql.LE:
		return cmp <= 0
	case sql.GE:
		return cmp >= 0
	}
	return false
}

// 两侧均为整数时按数值比较，否则按文本比较
func compare(a, b string) int {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
