package interp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lookbusy1344/tinybasic/ast"
)

// exec applies one statement's effect. Errors returned here abort the
// current run; parse errors never reach this point.
func (ip *Interp) exec(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		ip.execPrint(s)

	case *ast.LetStmt:
		ip.assign(s.Target, s.Value.Eval(ip))

	case *ast.InputStmt:
		ip.inputTargets = s.Targets
		if ip.state == StateRunning {
			ip.resume = StateRunning
		} else {
			ip.resume = StateIdle
		}
		ip.state = StateReadingInput
		ip.io.ShowInputPrompt()

	case *ast.DimStmt:
		n := s.Size.Eval(ip)
		if n < 0 {
			return fmt.Errorf("DIM: negative array size %d", n)
		}
		if n > maxArraySize {
			return fmt.Errorf("DIM: array size %d is too large", n)
		}
		ip.array = make([]ast.Number, n)

	case *ast.IfStmt:
		if s.Op.Holds(s.Left.Eval(ip), s.Right.Eval(ip)) {
			return ip.exec(s.Then)
		}

	case *ast.GotoStmt:
		return ip.jump(s.Target, false)

	case *ast.GosubStmt:
		return ip.jump(s.Target, true)

	case *ast.ReturnStmt:
		if len(ip.retStack) == 0 {
			return errors.New("RETURN without GOSUB")
		}
		ip.programIndex = ip.retStack[len(ip.retStack)-1]
		ip.retStack = ip.retStack[:len(ip.retStack)-1]

	case *ast.RunStmt:
		if len(ip.program) == 0 {
			return errors.New("RUN: empty program")
		}
		ip.vars = [26]ast.Number{}
		clear(ip.array)
		ip.retStack = ip.retStack[:0]
		ip.programIndex = 0
		ip.state = StateRunning

	case *ast.EndStmt:
		ip.state = StateIdle

	case *ast.ClearStmt:
		ip.program = nil
		ip.vars = [26]ast.Number{}
		clear(ip.array)
		ip.retStack = ip.retStack[:0]
		ip.programIndex = 0
		ip.state = StateIdle

	case *ast.ListStmt:
		return ip.execList(s)

	case *ast.SaveStmt:
		path, err := ip.resolvePath(s.Path)
		if err != nil {
			return fmt.Errorf("SAVE: %w", err)
		}
		if err := os.WriteFile(path, []byte(ip.ProgramText()), 0o644); err != nil {
			return fmt.Errorf("SAVE: %w", err)
		}

	case *ast.LoadStmt:
		path, err := ip.resolvePath(s.Path)
		if err != nil {
			return fmt.Errorf("LOAD: %w", err)
		}
		data, err := os.ReadFile(path) // #nosec G304 -- path is confined to FilesRoot
		if err != nil {
			return fmt.Errorf("LOAD: %w", err)
		}
		ip.feedLines(string(data))

	case *ast.FilesStmt:
		ip.io.ShowFiles()

	case *ast.ClipSaveStmt:
		if err := ip.io.ClipSave(ip.ProgramText()); err != nil {
			return fmt.Errorf("CLIPSAVE: %w", err)
		}

	case *ast.ClipLoadStmt:
		text, err := ip.io.ClipLoad()
		if err != nil {
			return fmt.Errorf("CLIPLOAD: %w", err)
		}
		ip.feedLines(text)

	case *ast.TronStmt:
		ip.traceOn = true

	case *ast.TroffStmt:
		ip.traceOn = false

	case *ast.RemStmt:
		// no effect

	case *ast.ByeStmt:
		ip.io.Bye()
		ip.state = StateDone

	case *ast.HelpStmt:
		ip.io.ShowHelp()
	}
	return nil
}

// execPrint renders a print-list. Each item's text is followed by its
// separator's output characters; the final separator is the newline, tab
// or nothing the source ended with.
func (ip *Interp) execPrint(s *ast.PrintStmt) {
	if len(s.Entries) == 0 {
		ip.io.PutChar('\n')
		return
	}
	var sb strings.Builder
	for _, e := range s.Entries {
		sb.WriteString(e.Item.Text(ip))
		sb.WriteString(e.Sep.OutputText())
	}
	ip.emitString(sb.String())
}

// jump transfers control to the line a target expression names. GOSUB
// first pushes the index of the line after the call site.
func (ip *Interp) jump(target *ast.Expr, push bool) error {
	n := target.Eval(ip)
	idx, ok := ip.indexOfLine(n)
	if !ok {
		return fmt.Errorf("line %d not found", n)
	}
	if push {
		ip.retStack = append(ip.retStack, ip.programIndex)
	}
	ip.programIndex = idx
	if ip.state != StateRunning {
		ip.state = StateRunning
	}
	return nil
}

func (ip *Interp) assign(lv ast.Lvalue, value ast.Number) {
	switch t := lv.(type) {
	case *ast.VarLvalue:
		if t.Name >= 'A' && t.Name <= 'Z' {
			ip.vars[t.Name-'A'] = value
		}
	case *ast.ArrayLvalue:
		if idx, ok := ip.arrayIndex(t.Index.Eval(ip)); ok {
			ip.array[idx] = value
		}
	}
}

// execList emits the selected program lines in canonical form.
func (ip *Interp) execList(s *ast.ListStmt) error {
	lo := ast.Number(0)
	hi := ast.Number(0)
	single := false
	if s.Range.From != nil {
		lo = s.Range.From.Eval(ip)
		if s.Range.To != nil {
			hi = s.Range.To.Eval(ip)
		} else {
			single = true
		}
	}
	for _, pl := range ip.program {
		if s.Range.From != nil {
			if single {
				if pl.Number != lo {
					continue
				}
			} else if pl.Number < lo || pl.Number > hi {
				continue
			}
		}
		ip.emitString(lineText(pl))
	}
	return nil
}

// ProgramText returns the whole program as LIST emits it; SAVE writes
// exactly this text.
func (ip *Interp) ProgramText() string {
	var sb strings.Builder
	for _, pl := range ip.program {
		sb.WriteString(lineText(pl))
	}
	return sb.String()
}

func lineText(pl ProgramLine) string {
	return strconv.FormatInt(pl.Number, 10) + " " + pl.Stmt.String() + "\n"
}

// feedLines runs file or clipboard text through the normal line
// processor, so loaded text may mix numbered and immediate statements.
func (ip *Interp) feedLines(text string) {
	for _, line := range strings.Split(text, "\n") {
		ip.ProcessLine(strings.TrimSuffix(line, "\r"))
	}
}

// resolvePath confines a program file name to the FilesRoot directory.
func (ip *Interp) resolvePath(name string) (string, error) {
	root, err := filepath.Abs(ip.FilesRoot)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, name)
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside the files directory", name)
	}
	return path, nil
}
