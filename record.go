package sorttable

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// IDField is the Record field used to link a rendered row
// to the record it was rendered from.
const IDField = "id"

// Record holds the values of one table row
// addressed by column id.
type Record map[string]any

// ID returns the identifier of the record as string
// or an empty string if the record has no IDField.
func (r Record) ID() string {
	v, ok := r[IDField]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Value returns the value for the column id or nil.
func (r Record) Value(columnID string) any {
	return r[columnID]
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// StructRecords converts a slice or array of structs
// or struct pointers to records using naming
// to map struct fields to column ids.
// Fields named with naming.Ignore are skipped
// and nil struct pointers are returned as nil records.
// A nil naming uses DefaultStructFieldNaming.
func StructRecords(slice any, naming *StructFieldNaming) ([]Record, error) {
	if naming == nil {
		naming = &DefaultStructFieldNaming
	}
	v := reflect.ValueOf(slice)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice or array of structs, got %T", slice)
	}
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Pointer {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected slice or array of structs, got %T", slice)
	}
	fields := StructFieldTypes(elemType)
	records := make([]Record, v.Len())
	for i := range records {
		elem := v.Index(i)
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}
		values := StructFieldValues(elem)
		rec := make(Record, len(fields))
		for f, field := range fields {
			id := naming.StructFieldColumn(field)
			if id == "" || id == naming.Ignore {
				continue
			}
			val := values[f]
			if ValueIsNil(val) {
				rec[id] = nil
				continue
			}
			rec[id] = val.Interface()
		}
		records[i] = rec
	}
	return records, nil
}
