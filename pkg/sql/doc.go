// Package sql turns one statement of a small SQL dialect into a Command.
//
// The pipeline is Lexer -> Parser -> Statement -> Describe. The dialect
// supports
//
//	CREATE TABLE t (col TYPE, ...)
//	SELECT * | col, ... FROM t [WHERE col op value]
//	INSERT INTO t VALUES (value, ...)
//	UPDATE t SET col = value, ... WHERE col op value
//	DELETE FROM t [WHERE col op value]
//
// where op is one of = != < > <= >= and a value is an integer or a quoted
// string. Keywords must be written in upper case. Every Statement can also
// be rendered as a generic labeled tree (Node), which DescribeTree flattens
// level by level into the same Command.
package sql
