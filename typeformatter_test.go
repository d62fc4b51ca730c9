package sorttable

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTypeCellFormatter_FormatCell(t *testing.T) {
	ctx := context.Background()
	timeFormatter := CellFormatterFunc(func(ctx context.Context, cell *Cell) (string, bool, error) {
		return cell.Value.(time.Time).Format(time.DateOnly), false, nil
	})
	f := NewTypeCellFormatter().
		WithTypeFormatter(reflect.TypeOf(time.Time{}), timeFormatter).
		WithKindFormatter(reflect.Int, PrintfCellFormatter("#%d")).
		WithKindFormatter(reflect.Float64, FloatCellFormatter)
	date := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	one := 1

	tests := []struct {
		name    string
		value   any
		want    string
		wantErr error
	}{
		{name: "type", value: date, want: "2024-03-15"},
		{name: "pointer to type", value: &date, want: "2024-03-15"},
		{name: "kind", value: 7, want: "#7"},
		{name: "pointer to kind", value: &one, want: "#1"},
		{name: "float", value: 1e6, want: "1000000"},
		{name: "unmatched", value: "text", wantErr: errors.ErrUnsupported},
		{name: "nil", value: nil, wantErr: errors.ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str, raw, err := f.FormatCell(ctx, &Cell{Value: tt.value})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.False(t, raw)
			require.Equal(t, tt.want, str)
		})
	}

	withDefault := f.WithDefaultFormatter(RawCellString("-"))
	str, raw, err := withDefault.FormatCell(ctx, &Cell{Value: "text"})
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, "-", str)

	// Builders don't modify the original
	require.Nil(t, f.Default)
	require.Len(t, f.Kinds, 2)
}

func TestTypeCellFormatter_Nil(t *testing.T) {
	var f *TypeCellFormatter
	_, _, err := f.FormatCell(context.Background(), &Cell{Value: 1})
	require.ErrorIs(t, err, errors.ErrUnsupported)

	f = f.WithKindFormatter(reflect.Int, PrintfCellFormatter("%d"))
	str, _, err := f.FormatCell(context.Background(), &Cell{Value: 1})
	require.NoError(t, err)
	require.Equal(t, "1", str)
}

func TestFloatCellFormatter(t *testing.T) {
	str, _, err := DefaultTypeFormatters.FormatCell(context.Background(), &Cell{Value: float32(0.25)})
	require.NoError(t, err)
	require.Equal(t, "0.25", str)

	str, _, err = DefaultTypeFormatters.FormatCell(context.Background(), &Cell{Value: 123456789.5})
	require.NoError(t, err)
	require.Equal(t, "123456789.5", str)
}
