package parser

import "github.com/lookbusy1344/tinybasic/ast"

// LineKind is the outcome category of parsing one input line.
type LineKind int

const (
	LineEmpty     LineKind = iota // nothing but spaces
	LineDelete                    // a bare line number: delete that line
	LineNumbered                  // numbered statement: store in the program
	LineImmediate                 // unnumbered statement: execute now
)

// Line is the parsed form of one complete input line.
type Line struct {
	Kind   LineKind
	Number ast.Number
	Stmt   ast.Statement
}

// ParseLine parses a complete input line. The statement, if any, must
// consume the whole line; trailing characters are an error.
func ParseLine(text string) (Line, *Error) {
	c := NewCursor(text)
	if c.AtEnd() {
		return Line{Kind: LineEmpty}, nil
	}

	if n, next, ok := numberLiteral(c); ok {
		if next.AtEnd() {
			return Line{Kind: LineDelete, Number: n}, nil
		}
		stmt, rest, err := parseStatement(next)
		if err == nil && !rest.AtEnd() {
			err = syntaxError(ErrorTrailingCharacters, "unexpected characters after statement")
		}
		if err != nil {
			err.Number = n
			err.HasNumber = true
			return Line{}, err
		}
		return Line{Kind: LineNumbered, Number: n, Stmt: stmt}, nil
	}

	stmt, rest, err := parseStatement(c)
	if err == nil && !rest.AtEnd() {
		err = syntaxError(ErrorTrailingCharacters, "unexpected characters after statement")
	}
	if err != nil {
		return Line{}, err
	}
	return Line{Kind: LineImmediate, Stmt: stmt}, nil
}

// ParseStatement parses a single statement and returns it with the cursor
// past its last character.
func ParseStatement(c Cursor) (ast.Statement, Cursor, *Error) {
	return parseStatement(c)
}

// parseStatement dispatches on the leading keyword. Abbreviations are
// listed after their long forms so the longest match wins.
func parseStatement(c Cursor) (ast.Statement, Cursor, *Error) {
	if _, next, ok := oneOfLiteral(c, "PRINT", "PR", "?"); ok {
		return parsePrintArgs(next)
	}
	if _, next, ok := oneOfLiteral(c, "INPUT", "IN"); ok {
		return parseInputArgs(next)
	}
	if next, ok := literal(c, "IF"); ok {
		return parseIfArgs(next)
	}
	if _, next, ok := oneOfLiteral(c, "GOTO", "GT"); ok {
		expr, rest, ok2 := parseExpr(next)
		if !ok2 {
			return nil, c, syntaxError(ErrorSyntax, "GOTO: expected a line number expression")
		}
		return &ast.GotoStmt{Target: expr}, rest, nil
	}
	if _, next, ok := oneOfLiteral(c, "GOSUB", "GS"); ok {
		expr, rest, ok2 := parseExpr(next)
		if !ok2 {
			return nil, c, syntaxError(ErrorSyntax, "GOSUB: expected a line number expression")
		}
		return &ast.GosubStmt{Target: expr}, rest, nil
	}
	if _, next, ok := oneOfLiteral(c, "RETURN", "RT"); ok {
		return &ast.ReturnStmt{}, next, nil
	}
	if next, ok := literal(c, "RUN"); ok {
		return &ast.RunStmt{}, next, nil
	}
	if next, ok := literal(c, "END"); ok {
		return &ast.EndStmt{}, next, nil
	}
	if next, ok := literal(c, "CLEAR"); ok {
		return &ast.ClearStmt{}, next, nil
	}
	if next, ok := literal(c, "CLIPSAVE"); ok {
		return &ast.ClipSaveStmt{}, next, nil
	}
	if next, ok := literal(c, "CLIPLOAD"); ok {
		return &ast.ClipLoadStmt{}, next, nil
	}
	if _, next, ok := oneOfLiteral(c, "LIST", "LS"); ok {
		return parseListArgs(next)
	}
	if _, next, ok := oneOfLiteral(c, "SAVE", "SV"); ok {
		path, rest, ok2 := stringLiteral(next)
		if !ok2 {
			return nil, c, stringArgError(next, "SAVE")
		}
		return &ast.SaveStmt{Path: path}, rest, nil
	}
	if _, next, ok := oneOfLiteral(c, "LOAD", "LD"); ok {
		path, rest, ok2 := stringLiteral(next)
		if !ok2 {
			return nil, c, stringArgError(next, "LOAD")
		}
		return &ast.LoadStmt{Path: path}, rest, nil
	}
	if _, next, ok := oneOfLiteral(c, "FILES", "FL"); ok {
		return &ast.FilesStmt{}, next, nil
	}
	if next, ok := literal(c, "TRON"); ok {
		return &ast.TronStmt{}, next, nil
	}
	if next, ok := literal(c, "TROFF"); ok {
		return &ast.TroffStmt{}, next, nil
	}
	if next, ok := literal(c, "BYE"); ok {
		return &ast.ByeStmt{}, next, nil
	}
	if next, ok := literal(c, "HELP"); ok {
		return &ast.HelpStmt{}, next, nil
	}
	if next, ok := literal(c, "DIM"); ok {
		return parseDimArgs(next)
	}
	if _, next, ok := oneOfLiteral(c, "REM", "'"); ok {
		return &ast.RemStmt{Text: next.Remaining()}, NewCursor(""), nil
	}

	// No keyword matched: an assignment, with or without LET.
	return parseLetArgs(optionalLiteral(c, "LET"))
}

func parsePrintArgs(c Cursor) (ast.Statement, Cursor, *Error) {
	if c.AtEnd() {
		return &ast.PrintStmt{}, c, nil
	}
	var entries []ast.PrintEntry
	for {
		item, next, err := parsePrintItem(c)
		if err != nil {
			return nil, c, err
		}
		c = next

		sep, next2, ok := oneOfLiteral(c, ",", ";")
		if !ok {
			entries = append(entries, ast.PrintEntry{Item: item, Sep: ast.SepNewline})
			return &ast.PrintStmt{Entries: entries}, c, nil
		}
		s := ast.SepTab
		if sep == ";" {
			s = ast.SepEmpty
		}
		entries = append(entries, ast.PrintEntry{Item: item, Sep: s})
		c = next2
		if c.AtEnd() {
			// Trailing separator: suppresses the default newline.
			return &ast.PrintStmt{Entries: entries}, c, nil
		}
	}
}

func parsePrintItem(c Cursor) (ast.PrintItem, Cursor, *Error) {
	if b, ok := c.SkipSpaces().Peek(); ok && b == '"' {
		s, next, ok2 := stringLiteral(c)
		if !ok2 {
			return nil, c, syntaxError(ErrorUnterminatedString, "unterminated string")
		}
		return &ast.StringItem{Value: s}, next, nil
	}
	expr, next, ok := parseExpr(c)
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "PRINT: expected an expression or string")
	}
	return &ast.ExprItem{Expr: expr}, next, nil
}

func parseInputArgs(c Cursor) (ast.Statement, Cursor, *Error) {
	var targets []ast.Lvalue
	for {
		lv, next, ok := parseLvalue(c)
		if !ok {
			return nil, c, syntaxError(ErrorSyntax, "INPUT: expected a variable or array element")
		}
		targets = append(targets, lv)
		c = next
		next, ok = literal(c, ",")
		if !ok {
			return &ast.InputStmt{Targets: targets}, c, nil
		}
		c = next
	}
}

func parseIfArgs(c Cursor) (ast.Statement, Cursor, *Error) {
	left, next, ok := parseExpr(c)
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "IF: expected an expression")
	}
	c = next

	// Two-character operators come first so "<=" is not read as "<".
	opText, next, ok := oneOfLiteral(c, "<=", ">=", "<>", "><", "<", ">", "=")
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "IF: expected a relational operator")
	}
	var op ast.RelOp
	switch opText {
	case "<=":
		op = ast.RelLessEq
	case ">=":
		op = ast.RelGreaterEq
	case "<>", "><":
		op = ast.RelNotEq
	case "<":
		op = ast.RelLess
	case ">":
		op = ast.RelGreater
	case "=":
		op = ast.RelEqual
	}
	c = next

	right, next, ok := parseExpr(c)
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "IF: expected an expression")
	}
	c = optionalLiteral(next, "THEN")

	then, rest, err := parseStatement(c)
	if err != nil {
		return nil, c, err
	}
	return &ast.IfStmt{Left: left, Op: op, Right: right, Then: then}, rest, nil
}

func parseListArgs(c Cursor) (ast.Statement, Cursor, *Error) {
	if c.AtEnd() {
		return &ast.ListStmt{}, c, nil
	}
	from, next, ok := parseExpr(c)
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "LIST: expected a line number expression")
	}
	c = next
	next, ok = literal(c, ",")
	if !ok {
		return &ast.ListStmt{Range: ast.ListRange{From: from}}, c, nil
	}
	to, rest, ok := parseExpr(next)
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "LIST: expected a line number expression")
	}
	return &ast.ListStmt{Range: ast.ListRange{From: from, To: to}}, rest, nil
}

func parseDimArgs(c Cursor) (ast.Statement, Cursor, *Error) {
	c, ok := literal(c, "@")
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "DIM: expected @( size )")
	}
	c, ok = literal(c, "(")
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "DIM: expected @( size )")
	}
	size, next, ok2 := parseExpr(c)
	if !ok2 {
		return nil, c, syntaxError(ErrorSyntax, "DIM: expected a size expression")
	}
	c, ok = literal(next, ")")
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "DIM: missing )")
	}
	return &ast.DimStmt{Size: size}, c, nil
}

func parseLetArgs(c Cursor) (ast.Statement, Cursor, *Error) {
	lv, next, ok := parseLvalue(c)
	if !ok {
		return nil, c, syntaxError(ErrorUnknownStatement, "unknown statement")
	}
	c, ok = literal(next, "=")
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "LET: expected =")
	}
	expr, rest, ok := parseExpr(c)
	if !ok {
		return nil, c, syntaxError(ErrorSyntax, "LET: expected an expression")
	}
	return &ast.LetStmt{Target: lv, Value: expr}, rest, nil
}

func parseLvalue(c Cursor) (ast.Lvalue, Cursor, bool) {
	if next, ok := literal(c, "@"); ok {
		next, ok = literal(next, "(")
		if !ok {
			return nil, c, false
		}
		index, rest, ok2 := parseExpr(next)
		if !ok2 {
			return nil, c, false
		}
		rest, ok = literal(rest, ")")
		if !ok {
			return nil, c, false
		}
		return &ast.ArrayLvalue{Index: index}, rest, true
	}
	if name, next, ok := variableName(c); ok {
		return &ast.VarLvalue{Name: name}, next, true
	}
	return nil, c, false
}

func stringArgError(c Cursor, keyword string) *Error {
	if b, ok := c.SkipSpaces().Peek(); ok && b == '"' {
		return syntaxError(ErrorUnterminatedString, "unterminated string")
	}
	return syntaxError(ErrorSyntax, keyword+": expected a quoted file name")
}
