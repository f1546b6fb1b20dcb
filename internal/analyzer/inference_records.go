package analyzer

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
)

func (ctx *InferenceContext) inferRecord(n *ast.RecordLiteral) typesystem.Type {
	fields := make([]typesystem.Field, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = typesystem.Field{Name: f.Name, Type: ctx.infer(f.Value)}
	}
	return typesystem.TRecord{Fields: fields}
}

// inferRecordUpdate checks { base | f = v }. The result has the type of the
// base. Updating a field the base is known not to have is an error; a base
// whose shape is still open is constrained to have the updated fields.
func (ctx *InferenceContext) inferRecordUpdate(n *ast.RecordUpdate) typesystem.Type {
	base := ctx.infer(n.Base)
	values := make([]typesystem.Type, len(n.Fields))
	for i, f := range n.Fields {
		values[i] = ctx.infer(f.Value)
	}

	if rec, ok := ctx.store.Resolve(base).(typesystem.TRecord); ok && !rec.IsOpen() {
		for i, f := range n.Fields {
			ft, ok := rec.Field(f.Name)
			if !ok {
				ctx.report(&typesystem.UnboundRecordField{Field: f.Name, Record: rec})
				continue
			}
			ctx.unify(ft, values[i], "record field `"+f.Name+"`")
		}
		return base
	}

	fields := make([]typesystem.Field, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = typesystem.Field{Name: f.Name, Type: values[i]}
	}
	row := ctx.store.Fresh("")
	ctx.unify(base, typesystem.TRecord{Fields: fields, Row: &row}, "the updated record")
	return base
}

func (ctx *InferenceContext) inferFieldAccess(n *ast.FieldAccess) typesystem.Type {
	rec := ctx.infer(n.Record)
	if closed, ok := ctx.store.Resolve(rec).(typesystem.TRecord); ok && !closed.IsOpen() {
		if ft, ok := closed.Field(n.Field); ok {
			return ft
		}
		ctx.report(&typesystem.UnboundRecordField{Field: n.Field, Record: closed})
		return ctx.store.Fresh("")
	}
	field := ctx.store.Fresh("")
	row := ctx.store.Fresh("")
	expected := typesystem.TRecord{Fields: []typesystem.Field{{Name: n.Field, Type: field}}, Row: &row}
	ctx.unify(expected, rec, "the accessed record")
	return field
}
