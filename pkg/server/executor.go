package server

import (
	"context"
	"fmt"

	"minisql/pkg/catalog"
	"minisql/pkg/sql"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Result is what one executed statement produced. Columns and Rows are only
// set for SELECT; Affected counts inserted, updated or deleted rows.
type Result struct {
	Kind     sql.StmtType
	Table    string
	Columns  []string
	Rows     [][]string
	Affected int
}

// Executor runs statements against an in-memory catalog.
type Executor struct {
	catalog *catalog.Catalog
	logger  *zap.SugaredLogger
}

func NewExecutor(logger *zap.SugaredLogger) *Executor {
	return &Executor{
		catalog: catalog.New(logger),
		logger:  logger,
	}
}

func (e *Executor) Catalog() *catalog.Catalog {
	return e.catalog
}

// ExecSql parses and runs one statement. A statement that fails to parse
// or is rejected by the catalog leaves every table unchanged.
func (e *Executor) ExecSql(ctx context.Context, sqlStr string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stmt, err := sql.ParseSQL(sqlStr)
	if err != nil {
		return nil, err
	}
	cmd, err := sql.Describe(stmt)
	if err != nil {
		return nil, err
	}
	return e.Execute(cmd)
}

// ExecBatch runs every statement in order and keeps going after a failure.
// The error combines the failures of all statements; the result of a failed
// statement is nil.
func (e *Executor) ExecBatch(ctx context.Context, sqls []string) ([]*Result, error) {
	results := make([]*Result, len(sqls))
	var errs error
	for i, s := range sqls {
		if err := ctx.Err(); err != nil {
			return results, multierr.Append(errs, err)
		}
		result, err := e.ExecSql(ctx, s)
		if err != nil {
			e.logger.Warnf("第 %d 条语句执行失败: %v", i+1, err)
			errs = multierr.Append(errs, fmt.Errorf("statement %d: %w", i+1, err))
			continue
		}
		results[i] = result
	}
	return results, errs
}

func (e *Executor) Execute(cmd *sql.Command) (*Result, error) {
	result := &Result{Kind: cmd.Kind, Table: cmd.Table}

	switch cmd.Kind {
	case sql.CREATE_STMT:
		if err := e.catalog.CreateTable(cmd.Table, cmd.Columns); err != nil {
			return nil, err
		}

	case sql.INSERT_STMT:
		if err := e.catalog.Insert(cmd.Table, cmd.Values); err != nil {
			return nil, err
		}
		result.Affected = 1

	case sql.SELECT_STMT:
		var columns []string
		if !cmd.AllColumns {
			columns = cmd.ColumnNames()
		}
		header, rows, err := e.catalog.Select(cmd.Table, columns, cmd.Condition)
		if err != nil {
			return nil, err
		}
		result.Columns = header
		result.Rows = rows

	case sql.UPDATE_STMT:
		n, err := e.catalog.Update(cmd.Table, cmd.Assignments, cmd.Condition)
		if err != nil {
			return nil, err
		}
		result.Affected = n

	case sql.DELETE_STMT:
		n, err := e.catalog.Delete(cmd.Table, cmd.Condition)
		if err != nil {
			return nil, err
		}
		result.Affected = n

	default:
		return nil, fmt.Errorf("unsupported statement type %v", cmd.Kind)
	}

	e.logger.Debugf("%s %s 影响行数 %d 返回行数 %d", cmd.Kind, cmd.Table, result.Affected, len(result.Rows))
	return result, nil
}
