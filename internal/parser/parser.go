// Package parser turns statement text into the structured requests the
// engine consumes. It knows nothing about storage.
package parser

import (
	"fmt"
	"strings"

	"github.com/leengari/mini-sql/internal/domain/schema"
	"github.com/leengari/mini-sql/internal/engine"
	"github.com/leengari/mini-sql/internal/query/predicate"
)

// Statement is one parsed statement: *CreateTable, *Insert or *Select
type Statement interface {
	statementNode()
}

// CreateTable is CREATE TABLE name (col TYPE, ...) [INDEX(col, ...)]
type CreateTable struct {
	Request engine.DefineRequest
}

// Insert is INSERT INTO name VALUES (literal, ...)
type Insert struct {
	Table  string
	Values []any
}

// Select is SELECT * FROM name [WHERE col op literal]
type Select struct {
	Request engine.QueryRequest
}

func (*CreateTable) statementNode() {}
func (*Insert) statementNode()      {}
func (*Select) statementNode()      {}

// Parse parses a single statement; the trailing semicolon is optional
func Parse(sql string) (Statement, error) {
	ast, err := statementParser.ParseString("", sql)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}

	cmd := ast.Command
	switch {
	case cmd.Create != nil:
		return buildCreate(cmd.Create), nil
	case cmd.Insert != nil:
		return buildInsert(cmd.Insert), nil
	case cmd.Select != nil:
		return buildSelect(cmd.Select)
	}
	return nil, fmt.Errorf("syntax error: unsupported statement")
}

func buildCreate(c *createAST) *CreateTable {
	columns := make([]schema.Column, len(c.Columns))
	for i, col := range c.Columns {
		columns[i] = schema.Column{
			Name: col.Name,
			Type: schema.ColumnType(strings.ToUpper(col.Type)),
		}
	}
	indexes := c.Indexes
	if indexes == nil {
		indexes = []string{}
	}
	return &CreateTable{Request: engine.DefineRequest{
		Name:    c.Table,
		Columns: columns,
		Indexes: indexes,
	}}
}

func buildInsert(i *insertAST) *Insert {
	values := make([]any, len(i.Values))
	for n, lit := range i.Values {
		values[n] = lit.value()
	}
	return &Insert{Table: i.Table, Values: values}
}

func buildSelect(s *selectAST) (*Select, error) {
	req := engine.QueryRequest{Table: s.Table}
	if s.Where != nil {
		op, err := predicate.ParseOperator(s.Where.Op)
		if err != nil {
			return nil, fmt.Errorf("syntax error: %w", err)
		}
		req.Where = &predicate.Predicate{
			Column: s.Where.Column,
			Op:     op,
			Value:  s.Where.Value.value(),
		}
	}
	return &Select{Request: req}, nil
}
