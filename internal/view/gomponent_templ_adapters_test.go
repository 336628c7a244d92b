package view_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/nfrund/bookreader/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type ctxKey struct{}

func TestAdapters(t *testing.T) {
	t.Run("gomponent inside templ", func(t *testing.T) {
		var buf bytes.Buffer
		comp := view.AdaptGomponentToTempl(h.P(g.Text("hello")))
		require.NoError(t, comp.Render(context.Background(), &buf))
		assert.Equal(t, "<p>hello</p>", buf.String())
	})

	t.Run("templ inside gomponent keeps context", func(t *testing.T) {
		comp := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, ctx.Value(ctxKey{}).(string))
			return err
		})
		ctx := context.WithValue(context.Background(), ctxKey{}, "from-ctx")

		var buf bytes.Buffer
		require.NoError(t, h.Div(view.AdaptTemplToGomponent(ctx, comp)).Render(&buf))
		assert.Equal(t, "<div>from-ctx</div>", buf.String())
	})
}
