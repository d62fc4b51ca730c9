package htmltable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	sorttable "github.com/domonda/go-sorttable"
)

func TestImageCellFormatter(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "/a.jpg", want: `<img class="img" alt="Image" src="/a.jpg">`},
		{name: "strings", value: []string{"/a.jpg", "/b.jpg"}, want: `<img class="img" alt="Image" src="/a.jpg">`},
		{name: "objects", value: []any{map[string]any{"url": "/a.jpg"}}, want: `<img class="img" alt="Image" src="/a.jpg">`},
		{name: "JSON string", value: `["/a.jpg"]`, want: `<img class="img" alt="Image" src="/a.jpg">`},
		{name: "escaped", value: `/a.jpg?x="1"`, want: `<img class="img" alt="Image" src="/a.jpg?x=&#34;1&#34;">`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := sorttable.Cell{Value: tt.value}
			str, raw, err := ImageCellFormatter("img").FormatCell(context.Background(), &cell)
			require.NoError(t, err)
			require.True(t, raw)
			require.Equal(t, tt.want, str)
		})
	}

	for _, value := range []any{nil, "", []any{}, 42, map[string]any{"src": "/a.jpg"}} {
		cell := sorttable.Cell{Value: value}
		_, _, err := ImageCellFormatter("img").FormatCell(context.Background(), &cell)
		require.True(t, errors.Is(err, errors.ErrUnsupported), "value %#v", value)
	}
}

func TestHTMLSpanClassCellFormatter(t *testing.T) {
	cell := sorttable.Cell{Value: "<b>"}
	str, raw, err := HTMLSpanClassCellFormatter("warn").FormatCell(context.Background(), &cell)
	require.NoError(t, err)
	require.True(t, raw)
	require.Equal(t, `<span class='warn'>&lt;b&gt;</span>`, str)
}
