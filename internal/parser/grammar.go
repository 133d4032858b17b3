package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// sqlLexer tokenizes the three supported statement kinds.
// Keywords must come before Ident so reserved words never lex as names.
var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(CREATE|TABLE|INDEX|INSERT|INTO|VALUES|SELECT|FROM|WHERE)\b`},
	{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
	{Name: "Int", Pattern: `[-+]?\d+\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Operator", Pattern: `!=|<>|<=|>=|=|<|>`},
	{Name: "Punct", Pattern: `[(),;*]`},
	{Name: "whitespace", Pattern: `\s+`},
})

type statementAST struct {
	Command *commandAST `parser:"@@"`
	Semi    bool        `parser:"@';'?"`
}

type commandAST struct {
	Create *createAST `parser:"  @@"`
	Insert *insertAST `parser:"| @@"`
	Select *selectAST `parser:"| @@"`
}

type createAST struct {
	Table   string      `parser:"'CREATE' 'TABLE' @Ident"`
	Columns []columnAST `parser:"'(' @@ (',' @@)* ')'"`
	Indexes []string    `parser:"('INDEX' '(' @Ident (',' @Ident)* ')')?"`
}

type columnAST struct {
	Name string `parser:"@Ident"`
	Type string `parser:"@Ident"`
}

type insertAST struct {
	Table  string       `parser:"'INSERT' 'INTO' @Ident 'VALUES'"`
	Values []literalAST `parser:"'(' @@ (',' @@)* ')'"`
}

type selectAST struct {
	Table string    `parser:"'SELECT' '*' 'FROM' @Ident"`
	Where *whereAST `parser:"('WHERE' @@)?"`
}

type whereAST struct {
	Column string     `parser:"@Ident"`
	Op     string     `parser:"@Operator"`
	Value  literalAST `parser:"@@"`
}

// literalAST: integers become int64, quoted and bare words become strings
type literalAST struct {
	Int  *int64  `parser:"  @Int"`
	Str  *string `parser:"| @String"`
	Word *string `parser:"| @Ident"`
}

func (l literalAST) value() any {
	switch {
	case l.Int != nil:
		return *l.Int
	case l.Str != nil:
		return *l.Str
	case l.Word != nil:
		return *l.Word
	}
	return nil
}

var statementParser = participle.MustBuild[statementAST](
	participle.Lexer(sqlLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("whitespace"),
	participle.Map(stripQuotes, "String"),
)

func stripQuotes(tok lexer.Token) (lexer.Token, error) {
	tok.Value = tok.Value[1 : len(tok.Value)-1]
	return tok, nil
}
