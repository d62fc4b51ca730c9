package sorttable

import (
	"context"
	"errors"
	"maps"
	"reflect"
	"strconv"
)

var _ CellFormatter = new(TypeCellFormatter)

// TypeCellFormatter selects the CellFormatter by the type of a cell value.
//
// Matching order:
//  1. Types: exact type of the value
//  2. Kinds: reflect.Kind of the value
//  3. Pointer values are dereferenced and matched again
//  4. Default
//
// At each step a formatter returning errors.ErrUnsupported
// continues with the next step.
// Without a match errors.ErrUnsupported is returned,
// so a nil *TypeCellFormatter can be used as no-op.
//
// TypeCellFormatter is immutable after creation,
// all With* methods return a modified copy.
type TypeCellFormatter struct {
	Types   map[reflect.Type]CellFormatter
	Kinds   map[reflect.Kind]CellFormatter
	Default CellFormatter
}

// NewTypeCellFormatter returns an empty TypeCellFormatter.
func NewTypeCellFormatter() *TypeCellFormatter {
	return new(TypeCellFormatter)
}

// FormatCell implements CellFormatter.
func (f *TypeCellFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	if f == nil || cell.Value == nil {
		return "", false, errors.ErrUnsupported
	}
	if err = ctx.Err(); err != nil {
		return "", false, err
	}
	val := reflect.ValueOf(cell.Value)
	str, raw, err = f.formatType(ctx, cell, val.Type())
	if !errors.Is(err, errors.ErrUnsupported) {
		return str, raw, err
	}
	// If pointer type had no direct formatter
	// check if dereferenced value type has a formatter
	if val.Kind() == reflect.Pointer && !val.IsNil() {
		deref := *cell
		deref.Value = val.Elem().Interface()
		str, raw, err = f.formatType(ctx, &deref, val.Type().Elem())
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
	}
	if f.Default != nil {
		return f.Default.FormatCell(ctx, cell)
	}
	return "", false, errors.ErrUnsupported
}

func (f *TypeCellFormatter) formatType(ctx context.Context, cell *Cell, typ reflect.Type) (str string, raw bool, err error) {
	if typeFmt, ok := f.Types[typ]; ok {
		str, raw, err := typeFmt.FormatCell(ctx, cell)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
		// Continue after errors.ErrUnsupported
	}
	if kindFmt, ok := f.Kinds[typ.Kind()]; ok {
		return kindFmt.FormatCell(ctx, cell)
	}
	return "", false, errors.ErrUnsupported
}

func (f *TypeCellFormatter) cloneOrNew() *TypeCellFormatter {
	if f == nil {
		return new(TypeCellFormatter)
	}
	return &TypeCellFormatter{
		Types:   maps.Clone(f.Types),
		Kinds:   maps.Clone(f.Kinds),
		Default: f.Default,
	}
}

// WithTypeFormatter returns a copy with fmt registered for values of typ.
func (f *TypeCellFormatter) WithTypeFormatter(typ reflect.Type, fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.Types == nil {
		mod.Types = make(map[reflect.Type]CellFormatter)
	}
	mod.Types[typ] = fmt
	return mod
}

// WithKindFormatter returns a copy with fmt registered for values of kind.
func (f *TypeCellFormatter) WithKindFormatter(kind reflect.Kind, fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	if mod.Kinds == nil {
		mod.Kinds = make(map[reflect.Kind]CellFormatter)
	}
	mod.Kinds[kind] = fmt
	return mod
}

// WithDefaultFormatter returns a copy with fmt used for unmatched values.
func (f *TypeCellFormatter) WithDefaultFormatter(fmt CellFormatter) *TypeCellFormatter {
	mod := f.cloneOrNew()
	mod.Default = fmt
	return mod
}

// FloatCellFormatter formats float values with the
// least number of digits and never in exponent notation.
var FloatCellFormatter CellFormatterFunc = func(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	v := reflect.ValueOf(cell.Value)
	switch v.Kind() {
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), false, nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), false, nil
	}
	return "", false, errors.ErrUnsupported
}

// DefaultTypeFormatters formats float values with FloatCellFormatter.
var DefaultTypeFormatters = NewTypeCellFormatter().
	WithKindFormatter(reflect.Float32, FloatCellFormatter).
	WithKindFormatter(reflect.Float64, FloatCellFormatter)
