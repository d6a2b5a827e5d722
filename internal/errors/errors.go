// Package errors implements Probescript's diagnostic taxonomy and the
// source-window formatter described in spec §6/§7.
package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/slurpy-films/probescript/internal/lexer"
	"github.com/slurpy-films/probescript/internal/token"
)

// Kind is one of the diagnostic kinds enumerated in spec §6.
type Kind string

const (
	SyntaxError          Kind = "SyntaxError"
	TypeError            Kind = "TypeError"
	ReferenceError       Kind = "ReferenceError"
	RedefinitionError    Kind = "RedefinitionError"
	ArgumentError        Kind = "ArgumentError"
	FunctionCallError    Kind = "FunctionCallError"
	ClassBodyError       Kind = "ClassBodyError"
	ClassInheritanceError Kind = "ClassInheritanceError"
	ConstructorError     Kind = "ConstructorError"
	ProbeBodyError       Kind = "ProbeBodyError"
	ProbeInheritanceError Kind = "ProbeInheritanceError"
	ProbeError           Kind = "ProbeError"
	ImportError          Kind = "ImportError"
	ExportError          Kind = "ExportError"
	MainError            Kind = "MainError"
	OperatorError        Kind = "OperatorError"
	MemberError          Kind = "MemberError"
	AssignmentError      Kind = "AssignmentError"
	TemplateError        Kind = "TemplateError"
	ReturnError          Kind = "ReturnError"
	BreakError           Kind = "BreakError"
	ContinueError        Kind = "ContinueError"
	AsyncError           Kind = "AsyncError"
	ProgramError         Kind = "ProgramError"
)

// Diagnostic is a single taxonomy-tagged error with the position and
// lexeme width needed to render the §6 source window's caret
// underline. It implements the error interface.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Width   int
}

// New builds a Diagnostic anchored at tok: Pos locates it, and Width
// (the offending lexeme's rune count, via internal/lexer.RuneLen) sizes
// the caret underline Format draws under it. An empty lexeme yields a
// single-character caret; a zero-value token (e.g. stdlibutil's
// native-function boundary) has line 0, for which Format prints no
// source window or caret at all.
func New(kind Kind, tok token.Token, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     tok.Pos(),
		Width:   lexer.RuneLen(tok.Lexeme),
	}
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[%s]: %s", d.Kind, d.Message)
}

// Format renders the full §6 diagnostic: kind/message header, position
// line, and a three-line source window with a caret underline the width
// of the offending lexeme. Grounded on CWBudde-go-dws's
// internal/errors.CompilerError.Format, reworked to use
// github.com/fatih/color for the caret highlight instead of hand-rolled
// ANSI escapes.
func Format(d *Diagnostic, source string, color_ bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s]: %s\n\n", d.Kind, d.Message)
	fmt.Fprintf(&b, "At %s:%d:%d\n", d.Pos.File, d.Pos.Line, d.Pos.Col)
	if d.Pos.Line < 1 {
		return b.String()
	}

	lines := strings.Split(source, "\n")
	idx := d.Pos.Line - 1

	writeLine := func(n int) {
		if n < 0 || n >= len(lines) {
			return
		}
		fmt.Fprintf(&b, "%s\n", lines[n])
	}

	writeLine(idx - 1)
	writeLine(idx)

	if idx >= 0 && idx < len(lines) {
		width := d.Width
		if width < 1 {
			width = 1
		}
		caretLine := strings.Repeat(" ", max0(d.Pos.Col-1)) + strings.Repeat("^", width)
		if color_ {
			caretLine = color.New(color.FgRed, color.Bold).Sprint(caretLine)
		}
		fmt.Fprintf(&b, "%s\n", caretLine)
	}

	writeLine(idx + 1)

	return b.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ShouldColor decides the default color setting for a given output
// stream, the way a terminal-aware CLI would: only colorize when the
// stream is an interactive TTY. github.com/mattn/go-isatty performs the
// detection; github.com/mattn/go-colorable wraps the stream so the ANSI
// codes fatih/color emits render correctly on Windows consoles too.
func ShouldColor(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Colorable wraps an *os.File-like writer so ANSI sequences render
// correctly across platforms; see github.com/mattn/go-colorable.
var Colorable = colorable.NewColorableStdout

// QuoteLexeme is a small helper used by SyntaxError messages to quote an
// offending lexeme consistently.
func QuoteLexeme(s string) string {
	return strconv.Quote(s)
}
