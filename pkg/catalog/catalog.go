package catalog

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"unicode/utf8"

	"minisql/pkg/skiplist"
	"minisql/pkg/sql"

	"go.uber.org/zap"
)

var (
	ErrTableExists    = errors.New("table already exists")
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnCount    = errors.New("column count mismatch")
	ErrColumnNotFound = errors.New("column not found")
	ErrInvalidValue   = errors.New("value is not valid UTF-8")
)

// 编号小于 firstTableId 的表保留，编号 1 用作元数据键前缀
const (
	metaTableId  = 1
	firstTableId = 2
)

var (
	maxTableIdKey = []byte(strconv.Itoa(metaTableId) + "_max_table_id")
	metaPrefix    = strconv.Itoa(metaTableId) + "_meta_"
)

type ColumnDef struct {
	FieldName string `json:"fieldName"`
	FieldType string `json:"fieldType"`
}

// TableDef is the metadata stored for every table.
type TableDef struct {
	TableId int         `json:"tableId"`
	Name    string      `json:"name"`
	RowId   int         `json:"rowId"`
	Column  []ColumnDef `json:"column"`
}

func (d *TableDef) columnPos(name string) (int, error) {
	for i, cd := range d.Column {
		if cd.FieldName == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, d.Name, name)
}

// Table is a snapshot of a table's columns and rows.
type Table struct {
	Name    string
	Columns []sql.Column
	Rows    [][]string
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Catalog keeps tables and their rows in an ordered in-memory index.
// Table metadata lives under "1_meta_<name>" as JSON, rows under
// "<tableId>_<rowId big endian>" as a JSON array of strings. Deleted rows
// are kept as empty values.
type Catalog struct {
	mu     sync.Mutex
	store  *skiplist.SkipList
	logger *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger) *Catalog {
	return &Catalog{
		store:  skiplist.NewSkipList(),
		logger: logger,
	}
}

func metaKey(table string) []byte {
	return []byte(metaPrefix + table)
}

func rowPrefix(tableId int) []byte {
	return []byte(strconv.Itoa(tableId) + "_")
}

func rowKey(tableId, rowId int) []byte {
	return binary.BigEndian.AppendUint64(rowPrefix(tableId), uint64(rowId))
}

// rowRange 返回 [前缀, 末尾 '_' 加一后的前缀)，恰好覆盖一张表的所有行
func rowRange(tableId int) ([]byte, []byte) {
	start := rowPrefix(tableId)
	end := append([]byte(nil), start...)
	end[len(end)-1]++
	return start, end
}

func (c *Catalog) loadMetaData(table string) (*TableDef, error) {
	meta, ok := c.store.Get(metaKey(table))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	var def TableDef
	if err := json.Unmarshal(meta, &def); err != nil {
		return nil, fmt.Errorf("decode metadata of table %s: %v", table, err)
	}
	return &def, nil
}

func (c *Catalog) saveMetaData(def *TableDef) error {
	meta, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encode metadata of table %s: %v", def.Name, err)
	}
	c.store.Put(metaKey(def.Name), meta)
	return nil
}

func (c *Catalog) nextTableId() (int, error) {
	value, ok := c.store.Get(maxTableIdKey)
	if !ok {
		return firstTableId, nil
	}
	id, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, fmt.Errorf("decode table id %q: %v", value, err)
	}
	return id, nil
}

func (c *Catalog) TableExists(name string) bool {
	_, ok := c.store.Get(metaKey(name))
	return ok
}

// CreateTable registers a new table. Names must be unique.
func (c *Catalog) CreateTable(name string, columns []sql.Column) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.TableExists(name) {
		return fmt.Errorf("%w: %s", ErrTableExists, name)
	}
	if len(columns) == 0 {
		return fmt.Errorf("%w: table %s needs at least one column", ErrColumnCount, name)
	}

	tableId, err := c.nextTableId()
	if err != nil {
		return err
	}

	def := &TableDef{TableId: tableId, Name: name}
	for _, col := range columns {
		def.Column = append(def.Column, ColumnDef{FieldName: col.Name, FieldType: col.Type})
	}
	if err := c.saveMetaData(def); err != nil {
		return err
	}
	c.store.Put(maxTableIdKey, []byte(strconv.Itoa(tableId+1)))

	c.logger.Debugf("创建表 %s 编号 %d 列数 %d", name, tableId, len(columns))
	return nil
}

// Insert appends one row. The value count must match the column count.
func (c *Catalog) Insert(name string, values []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, err := c.loadMetaData(name)
	if err != nil {
		return err
	}
	if len(values) != len(def.Column) {
		return fmt.Errorf("%w: table %s has %d columns, got %d values", ErrColumnCount, name, len(def.Column), len(values))
	}

	for _, v := range values {
		if err := checkValue(v); err != nil {
			return err
		}
	}

	row, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode row %v: %v", values, err)
	}

	def.RowId++
	if err := c.saveMetaData(def); err != nil {
		return err
	}
	c.store.Put(rowKey(def.TableId, def.RowId), row)
	return nil
}

// checkValue 拒绝无法经 JSON 行编码原样保存的字节
func checkValue(v string) error {
	if !utf8.ValidString(v) {
		return fmt.Errorf("%w: %q", ErrInvalidValue, v)
	}
	return nil
}

type storedRow struct {
	key    []byte
	values []string
}

// scan 按插入顺序返回表中未删除的行
func (c *Catalog) scan(def *TableDef) ([]storedRow, error) {
	start, end := rowRange(def.TableId)
	rows := make([]storedRow, 0)

	_, err := c.store.Scan(start, end, func(key, value []byte) (bool, error) {
		if len(value) == 0 {
			return false, nil
		}
		var values []string
		if err := json.Unmarshal(value, &values); err != nil {
			return true, fmt.Errorf("decode row of table %s: %v", def.Name, err)
		}
		rows = append(rows, storedRow{key: append([]byte(nil), key...), values: values})
		return false, nil
	})
	return rows, err
}

// GetTable returns the columns and every row of a table.
func (c *Catalog) GetTable(name string) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, err := c.loadMetaData(name)
	if err != nil {
		return nil, err
	}
	rows, err := c.scan(def)
	if err != nil {
		return nil, err
	}

	table := &Table{Name: def.Name, Rows: make([][]string, 0, len(rows))}
	for _, cd := range def.Column {
		table.Columns = append(table.Columns, sql.Column{Name: cd.FieldName, Type: cd.FieldType})
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, r.values)
	}
	return table, nil
}

// Tables lists table names in order.
func (c *Catalog) Tables() []string {
	start := []byte(metaPrefix)
	end := append([]byte(nil), start...)
	end[len(end)-1]++

	names := make([]string, 0)
	c.store.Scan(start, end, func(key, value []byte) (bool, error) {
		names = append(names, string(key[len(metaPrefix):]))
		return false, nil
	})
	return names
}

// Select returns the named columns (all of them when columns is empty) of
// the rows matching cond.
func (c *Catalog) Select(name string, columns []string, cond *sql.Condition) ([]string, [][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, err := c.loadMetaData(name)
	if err != nil {
		return nil, nil, err
	}

	var pos []int
	header := append([]string(nil), columns...)
	if len(columns) == 0 {
		header = make([]string, len(def.Column))
		for i, cd := range def.Column {
			header[i] = cd.FieldName
			pos = append(pos, i)
		}
	} else {
		for _, col := range columns {
			p, err := def.columnPos(col)
			if err != nil {
				return nil, nil, err
			}
			pos = append(pos, p)
		}
	}

	f, err := prepareFilter(def, cond)
	if err != nil {
		return nil, nil, err
	}
	rows, err := c.scan(def)
	if err != nil {
		return nil, nil, err
	}

	ret := make([][]string, 0)
	for _, r := range rows {
		if !f.match(r.values) {
			continue
		}
		out := make([]string, len(pos))
		for i, p := range pos {
			out[i] = r.values[p]
		}
		ret = append(ret, out)
	}
	return header, ret, nil
}

// Update applies assignments to the rows matching cond and returns how many
// rows changed.
func (c *Catalog) Update(name string, assignments []sql.Assignment, cond *sql.Condition) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, err := c.loadMetaData(name)
	if err != nil {
		return 0, err
	}

	pos := make([]int, len(assignments))
	for i, a := range assignments {
		if pos[i], err = def.columnPos(a.Column); err != nil {
			return 0, err
		}
		if err := checkValue(a.Value); err != nil {
			return 0, err
		}
	}
	f, err := prepareFilter(def, cond)
	if err != nil {
		return 0, err
	}
	rows, err := c.scan(def)
	if err != nil {
		return 0, err
	}

	// 先全部编码，失败时表保持不变
	updates := make(map[string][]byte)
	keys := make([][]byte, 0)
	for _, r := range rows {
		if !f.match(r.values) {
			continue
		}
		for i, a := range assignments {
			r.values[pos[i]] = a.Value
		}
		value, err := json.Marshal(r.values)
		if err != nil {
			return 0, fmt.Errorf("encode row %v: %v", r.values, err)
		}
		updates[string(r.key)] = value
		keys = append(keys, r.key)
	}
	for _, k := range keys {
		c.store.Put(k, updates[string(k)])
	}
	return len(keys), nil
}

// Delete removes the rows matching cond, or every row when cond is nil.
func (c *Catalog) Delete(name string, cond *sql.Condition) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, err := c.loadMetaData(name)
	if err != nil {
		return 0, err
	}
	f, err := prepareFilter(def, cond)
	if err != nil {
		return 0, err
	}
	rows, err := c.scan(def)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, r := range rows {
		if f.match(r.values) {
			c.store.Put(r.key, nil)
			n++
		}
	}
	return n, nil
}
