package typesystem

import (
	"fmt"
	"strings"
)

// InferenceError is implemented by every error the inference engine reports.
// Types carried by an error are resolved at the moment the error is created.
type InferenceError interface {
	error
	inferenceError()
}

// CannotUnify reports two types that cannot be made equal.
type CannotUnify struct {
	Left    Type
	Right   Type
	Reason  string   // Optional detail, e.g. "infinite type"
	Context []string // Outermost first, e.g. ["argument 2", "record field `name`"]
}

func (e *CannotUnify) inferenceError() {}

func (e *CannotUnify) Error() string {
	msg := fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Context) > 0 {
		msg = "in " + strings.Join(e.Context, ", ") + ": " + msg
	}
	return msg
}

// UnboundRecordField reports an update or access of a field the record does not have.
type UnboundRecordField struct {
	Field  string
	Record Type
}

func (e *UnboundRecordField) inferenceError() {}

func (e *UnboundRecordField) Error() string {
	if e.Record == nil {
		return fmt.Sprintf("record has no field %q", e.Field)
	}
	return fmt.Sprintf("record %s has no field %q", e.Record, e.Field)
}

// ArityMismatch reports a function, type constructor or pattern applied to
// the wrong number of arguments.
type ArityMismatch struct {
	Expected int
	Found    int
	Context  string // What was being applied, e.g. "function", "pattern Just"
}

func (e *ArityMismatch) inferenceError() {}

func (e *ArityMismatch) Error() string {
	what := e.Context
	if what == "" {
		what = "application"
	}
	return fmt.Sprintf("%s expects %d argument(s), found %d", what, e.Expected, e.Found)
}

// UnknownConstructor reports a pattern tag that is not a constructor of the
// matched type.
type UnknownConstructor struct {
	Name string
	Type Type // The matched type, when known
}

func (e *UnknownConstructor) inferenceError() {}

func (e *UnknownConstructor) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("unknown constructor %s", e.Name)
	}
	return fmt.Sprintf("unknown constructor %s for type %s", e.Name, e.Type)
}

// WithContext prepends a context label to a CannotUnify error.
func WithContext(err error, ctx string) error {
	if cu, ok := err.(*CannotUnify); ok {
		cu.Context = append([]string{ctx}, cu.Context...)
	}
	return err
}

// FormatError renders an inference error for terminal diagnostics, naming type
// variables the same way signatures do.
func FormatError(err InferenceError) string {
	n := NewNamer()
	switch e := err.(type) {
	case *CannotUnify:
		n.Reserve(e.Left, e.Right)
		var b strings.Builder
		if len(e.Context) > 0 {
			b.WriteString("In " + strings.Join(e.Context, ", ") + ": ")
		}
		fmt.Fprintf(&b, "I cannot match `%s` with `%s`", n.Format(e.Left), n.Format(e.Right))
		if e.Reason != "" {
			b.WriteString(" (" + e.Reason + ")")
		}
		return b.String()
	case *UnboundRecordField:
		if e.Record == nil {
			return fmt.Sprintf("This record does not have a `%s` field.", e.Field)
		}
		n.Reserve(e.Record)
		return fmt.Sprintf("The record `%s` does not have a `%s` field.", n.Format(e.Record), e.Field)
	case *ArityMismatch:
		what := e.Context
		if what == "" {
			what = "This application"
		}
		return fmt.Sprintf("%s expects %d argument%s, but it got %d.", capitalize(what), e.Expected, plural(e.Expected), e.Found)
	case *UnknownConstructor:
		if e.Type == nil {
			return fmt.Sprintf("I do not know a constructor named `%s`.", e.Name)
		}
		n.Reserve(e.Type)
		return fmt.Sprintf("`%s` is not a constructor of `%s`.", e.Name, n.Format(e.Type))
	default:
		return err.Error()
	}
}

// ErrorList is the error returned by a failed inference.
type ErrorList []InferenceError

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
