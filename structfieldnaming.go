package sorttable

import (
	"fmt"
	"reflect"
	"strings"
)

// DefaultStructFieldNaming uses the "col" struct tag as column id,
// ignores fields tagged with "-",
// and uses LowerCamelCase for untagged fields.
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:      "col",
	Ignore:   "-",
	Untagged: LowerCamelCase,
}

// StructFieldNaming defines how struct fields
// are mapped to Record column ids.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column id.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column id.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the column id of fields that are skipped.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a column id in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldColumn returns the column id for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// Columns returns the column ids of the exported fields
// of a struct type without the ignored ones.
func (n *StructFieldNaming) Columns(structType reflect.Type) []string {
	fields := StructFieldTypes(structType)
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		column := n.StructFieldColumn(field)
		if n != nil && column == n.Ignore {
			continue
		}
		columns = append(columns, column)
	}
	return columns
}
