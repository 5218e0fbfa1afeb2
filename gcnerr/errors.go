// Package gcnerr defines the four failure kinds spec.md §7 names:
// syntax error, semantic error, warning, and deferred (pending target).
// Grounded on the teacher's encoder.EncodingError (encoder/errors.go) —
// same position+message+wrapped-error shape, same Unwrap support — but
// split into two distinct types because spec.md distinguishes parse
// failure (Syntax) from legal-but-illegal-combination failure
// (Semantic), which the teacher's single ARM EncodingError does not
// need to.
package gcnerr

import (
	"fmt"

	"go.uber.org/zap"
)

// Position is a source location, following the teacher's
// parser.Position shape (filename optional, line/column 1-based).
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	if p.Line > 0 {
		return fmt.Sprintf("line %d", p.Line)
	}
	return ""
}

// SyntaxError reports that operand or modifier text could not be
// parsed at all. The driver abandons the current line.
type SyntaxError struct {
	Pos     Position
	Message string
	Wrapped error
}

func (e *SyntaxError) Error() string {
	return formatErr("syntax error", e.Pos, e.Message, e.Wrapped)
}

func (e *SyntaxError) Unwrap() error { return e.Wrapped }

// SemanticError reports that parsing succeeded but the combination is
// illegal for the chosen architecture/encoding (misaligned register
// range, literal in VOP3, duplicate SGPR source, out-of-range jump,
// modifier forbidden on this encoding, ...). The driver drops the
// current instruction.
type SemanticError struct {
	Pos     Position
	Message string
	Wrapped error
}

func (e *SemanticError) Error() string {
	return formatErr("semantic error", e.Pos, e.Message, e.Wrapped)
}

func (e *SemanticError) Unwrap() error { return e.Wrapped }

func formatErr(kind string, pos Position, message string, wrapped error) string {
	loc := pos.String()
	switch {
	case loc != "" && wrapped != nil:
		return fmt.Sprintf("%s: %s: %s: %v", loc, kind, message, wrapped)
	case loc != "":
		return fmt.Sprintf("%s: %s: %s", loc, kind, message)
	case wrapped != nil:
		return fmt.Sprintf("%s: %s: %v", kind, message, wrapped)
	default:
		return fmt.Sprintf("%s: %s", kind, message)
	}
}

// Warning is a non-fatal finding: a value fit the field but was
// truncated (an out-of-range offset, hwreg width, stream id, ...).
// Warnings are reported through Log, not returned as error.
type Warning struct {
	Pos     Position
	Message string
}

func (w Warning) String() string {
	if loc := w.Pos.String(); loc != "" {
		return fmt.Sprintf("%s: warning: %s", loc, w.Message)
	}
	return "warning: " + w.Message
}

// Log reports w through log at Warn level. log may be nil, in which
// case Log is a no-op, so every call site can pass a possibly-absent
// *zap.Logger without a guard, matching how the teacher threads
// optional trace/stats writers through vm.VM.
func (w Warning) Log(log *zap.Logger) {
	if log == nil {
		return
	}
	log.Warn(w.Message, zap.String("pos", w.Pos.String()))
}
