package interp

import (
	"sort"

	"github.com/lookbusy1344/tinybasic/ast"
)

// Program editing. The program is kept sorted by line number with no
// duplicates; insertOrReplace and deleteLine are the only mutation points
// besides CLEAR.

// insertOrReplace stores a statement under a line number, replacing any
// existing line with that number and otherwise inserting in order.
func (ip *Interp) insertOrReplace(number ast.Number, stmt ast.Statement) {
	pos := sort.Search(len(ip.program), func(i int) bool {
		return ip.program[i].Number >= number
	})
	if pos < len(ip.program) && ip.program[pos].Number == number {
		ip.program[pos].Stmt = stmt
		return
	}
	ip.program = append(ip.program, ProgramLine{})
	copy(ip.program[pos+1:], ip.program[pos:])
	ip.program[pos] = ProgramLine{Number: number, Stmt: stmt}
}

// deleteLine removes the line with the given number; absent numbers are a
// no-op.
func (ip *Interp) deleteLine(number ast.Number) {
	if pos, ok := ip.indexOfLine(number); ok {
		ip.program = append(ip.program[:pos], ip.program[pos+1:]...)
	}
}

// indexOfLine finds the program index of a line number.
func (ip *Interp) indexOfLine(number ast.Number) (int, bool) {
	pos := sort.Search(len(ip.program), func(i int) bool {
		return ip.program[i].Number >= number
	})
	if pos < len(ip.program) && ip.program[pos].Number == number {
		return pos, true
	}
	return 0, false
}

// Program returns a copy of the stored program, lowest line number first. Hosts
// use it for display; mutating the copy does not affect the engine.
func (ip *Interp) Program() []ProgramLine {
	out := make([]ProgramLine, len(ip.program))
	copy(out, ip.program)
	return out
}
