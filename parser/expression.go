package parser

import "github.com/lookbusy1344/tinybasic/ast"

// parseExpr parses an optionally signed expression.
func parseExpr(c Cursor) (*ast.Expr, Cursor, bool) {
	sign := ast.SignNone
	if s, next, ok := oneOfLiteral(c, "+", "-"); ok {
		if s == "+" {
			sign = ast.SignPlus
		} else {
			sign = ast.SignMinus
		}
		c = next
	}
	u, next, ok := parseUnsigned(c)
	if !ok {
		return nil, c, false
	}
	return &ast.Expr{Sign: sign, U: u}, next, true
}

// parseUnsigned parses a term optionally followed by + or - and another
// unsigned expression. The chain is stored right-recursively, exactly as
// the grammar gives it; evaluation re-associates to the left.
func parseUnsigned(c Cursor) (*ast.Unsigned, Cursor, bool) {
	t, next, ok := parseTerm(c)
	if !ok {
		return nil, c, false
	}
	u := &ast.Unsigned{Term: t}
	if op, n2, ok2 := oneOfLiteral(next, "+", "-"); ok2 {
		if rest, n3, ok3 := parseUnsigned(n2); ok3 {
			u.Op = ast.AddOp(op[0])
			u.Rest = rest
			return u, n3, true
		}
	}
	return u, next, true
}

// parseTerm parses a factor optionally followed by * or / and another term.
func parseTerm(c Cursor) (*ast.Term, Cursor, bool) {
	f, next, ok := parseFactor(c)
	if !ok {
		return nil, c, false
	}
	t := &ast.Term{Factor: f}
	if op, n2, ok2 := oneOfLiteral(next, "*", "/"); ok2 {
		if rest, n3, ok3 := parseTerm(n2); ok3 {
			t.Op = ast.MulOp(op[0])
			t.Rest = rest
			return t, n3, true
		}
	}
	return t, next, true
}

// parseFactor parses a number, RND call, parenthesised expression, array
// element or variable. RND is tried before variables so the R does not
// match as a variable name.
func parseFactor(c Cursor) (ast.Factor, Cursor, bool) {
	if n, next, ok := numberLiteral(c); ok {
		return &ast.NumberFactor{Value: n}, next, true
	}
	if next, ok := literal(c, "RND"); ok {
		if n2, ok2 := literal(next, "("); ok2 {
			if arg, n3, ok3 := parseExpr(n2); ok3 {
				if n4, ok4 := literal(n3, ")"); ok4 {
					return &ast.RndFactor{Arg: arg}, n4, true
				}
			}
		}
	}
	if next, ok := literal(c, "("); ok {
		if inner, n2, ok2 := parseExpr(next); ok2 {
			if n3, ok3 := literal(n2, ")"); ok3 {
				return &ast.ParenFactor{Inner: inner}, n3, true
			}
		}
		return nil, c, false
	}
	if next, ok := literal(c, "@"); ok {
		if n2, ok2 := literal(next, "("); ok2 {
			if index, n3, ok3 := parseExpr(n2); ok3 {
				if n4, ok4 := literal(n3, ")"); ok4 {
					return &ast.ArrayFactor{Index: index}, n4, true
				}
			}
		}
		return nil, c, false
	}
	if name, next, ok := variableName(c); ok {
		return &ast.VarFactor{Name: name}, next, true
	}
	return nil, c, false
}

// InputValue is one element of an INPUT response line: a signed number or
// a reference to a variable whose current value should be used.
type InputValue struct {
	IsVar  bool
	Name   byte
	Number ast.Number
}

// ParseInputLine parses an INPUT response as exactly count comma-separated
// values. Returns false on any malformed or incomplete line, in which case
// the engine re-prompts.
func ParseInputLine(text string, count int) ([]InputValue, bool) {
	c := NewCursor(text)
	values := make([]InputValue, 0, count)
	for {
		v, next, ok := parseInputValue(c)
		if !ok {
			return nil, false
		}
		values = append(values, v)
		c = next
		if len(values) == count {
			if !c.AtEnd() {
				return nil, false
			}
			return values, true
		}
		c, ok = literal(c, ",")
		if !ok {
			return nil, false
		}
	}
}

// parseInputValue parses a single response value. A sign is only valid in
// front of a number; a bare letter reads that variable's current value,
// which is how programs accept single-letter answers like Y or N.
func parseInputValue(c Cursor) (InputValue, Cursor, bool) {
	if s, next, ok := oneOfLiteral(c, "+", "-"); ok {
		n, rest, ok2 := numberLiteral(next)
		if !ok2 {
			return InputValue{}, c, false
		}
		if s == "-" {
			n = -n
		}
		return InputValue{Number: n}, rest, true
	}
	if n, next, ok := numberLiteral(c); ok {
		return InputValue{Number: n}, next, true
	}
	if name, next, ok := variableName(c); ok {
		return InputValue{IsVar: true, Name: name}, next, true
	}
	return InputValue{}, c, false
}
