package ast_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/tinybasic/ast"
	"github.com/lookbusy1344/tinybasic/parser"
)

// fakeEnv is a fixed environment for expression tests.
type fakeEnv struct {
	vars  map[byte]ast.Number
	array []ast.Number
	rand  ast.Number
}

func (e *fakeEnv) Var(name byte) ast.Number { return e.vars[name] }

func (e *fakeEnv) ArrayAt(index ast.Number) ast.Number {
	n := ast.Number(len(e.array))
	if n == 0 {
		return 0
	}
	return e.array[((index%n)+n)%n]
}

func (e *fakeEnv) Rand(n ast.Number) ast.Number {
	if n < 1 {
		return 0
	}
	return e.rand % n
}

// evalString parses an expression (as a PRINT argument) and evaluates it.
func evalString(t *testing.T, text string, env ast.Env) ast.Number {
	t.Helper()
	line, err := parser.ParseLine("PRINT " + text)
	require.Nil(t, err, "parse %q", text)
	p, ok := line.Stmt.(*ast.PrintStmt)
	require.True(t, ok)
	require.Len(t, p.Entries, 1)
	item, ok := p.Entries[0].Item.(*ast.ExprItem)
	require.True(t, ok)
	return item.Expr.Eval(env)
}

func TestEvalLeftAssociative(t *testing.T) {
	env := &fakeEnv{}
	tests := []struct {
		expr string
		want ast.Number
	}{
		{"10 - 3 - 2", 5},
		{"100 / 5 / 2", 10},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 + 1", 9},
		{"7 / 2", 3},
		{"1 / 0", 0},
		{"0 / 0", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalString(t, tt.expr, env), "expr %q", tt.expr)
	}
}

func TestEvalUnaryMinusBindsFirstTerm(t *testing.T) {
	env := &fakeEnv{}
	tests := []struct {
		expr string
		want ast.Number
	}{
		{"-10 - 3 - 2", -15},
		{"-2 * 3", -6},
		{"-2 * 3 + 1", -5},
		{"+5 - 2", 3},
		{"-(2 + 3)", -5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalString(t, tt.expr, env), "expr %q", tt.expr)
	}
}

func TestEvalWrapsOnOverflow(t *testing.T) {
	env := &fakeEnv{}
	assert.Equal(t, ast.Number(math.MinInt64), evalString(t, "9223372036854775807 + 1", env))
	assert.Equal(t, ast.Number(math.MaxInt64), evalString(t, "-9223372036854775808 - 1", env))
}

func TestEvalVariablesAndArray(t *testing.T) {
	env := &fakeEnv{
		vars:  map[byte]ast.Number{'A': 2, 'B': 3},
		array: []ast.Number{10, 20, 30},
	}
	assert.Equal(t, ast.Number(8), evalString(t, "A + B * 2", env))
	assert.Equal(t, ast.Number(30), evalString(t, "@(2)", env))
	assert.Equal(t, ast.Number(10), evalString(t, "@(3)", env), "index wraps")
	assert.Equal(t, ast.Number(30), evalString(t, "@(-1)", env), "negative index from end")
	assert.Equal(t, ast.Number(20), evalString(t, "@(A - 1)", env))
	assert.Equal(t, ast.Number(0), evalString(t, "C", env), "unset variable reads 0")
}

func TestEvalRnd(t *testing.T) {
	env := &fakeEnv{rand: 7}
	assert.Equal(t, ast.Number(2), evalString(t, "RND(5)", env))
	assert.Equal(t, ast.Number(0), evalString(t, "RND(0)", env))
	assert.Equal(t, ast.Number(0), evalString(t, "RND(-3)", env))
}

// Space insertion anywhere outside string literals must not change the
// value.
func TestEvalSpaceInsensitive(t *testing.T) {
	env := &fakeEnv{vars: map[byte]ast.Number{'X': 6}}
	spaced := evalString(t, " x * ( 1 0 - 8 ) ", env)
	dense := evalString(t, "x*(10-8)", env)
	assert.Equal(t, dense, spaced)
	assert.Equal(t, ast.Number(12), dense)
}

func TestRelOpHolds(t *testing.T) {
	tests := []struct {
		op   ast.RelOp
		a, b ast.Number
		want bool
	}{
		{ast.RelLess, 1, 2, true},
		{ast.RelLess, 2, 2, false},
		{ast.RelGreater, 3, 2, true},
		{ast.RelEqual, 2, 2, true},
		{ast.RelLessEq, 2, 2, true},
		{ast.RelGreaterEq, 1, 2, false},
		{ast.RelNotEq, 1, 2, true},
		{ast.RelNotEq, 2, 2, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.Holds(tt.a, tt.b), "%d %s %d", tt.a, tt.op, tt.b)
	}
}

func TestSeparatorOutput(t *testing.T) {
	assert.Equal(t, "\n", ast.SepNewline.OutputText())
	assert.Equal(t, "\t", ast.SepTab.OutputText())
	assert.Equal(t, "", ast.SepEmpty.OutputText())
}
