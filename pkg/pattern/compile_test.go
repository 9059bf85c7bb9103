package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blurname/farrow/pkg/pattern"
	"github.com/blurname/farrow/pkg/schema"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	t.Run("literal and typed segments", func(t *testing.T) {
		t.Parallel()
		p, err := pattern.Compile("/user/<id:int>")
		require.NoError(t, err)
		require.Len(t, p.Segments, 2)
		require.Equal(t, pattern.SegmentLiteral, p.Segments[0].Kind)
		require.Equal(t, "user", p.Segments[0].Text)
		require.Equal(t, pattern.SegmentParam, p.Segments[1].Kind)
		require.Equal(t, "id", p.Segments[1].Name)
		require.Equal(t, schema.KindInt, p.Segments[1].Type.Kind())
		require.Equal(t, pattern.ModNone, p.Segments[1].Mod)
	})

	t.Run("modifiers", func(t *testing.T) {
		t.Parallel()
		p, err := pattern.Compile("/a/<x?:string>")
		require.NoError(t, err)
		require.Equal(t, pattern.ModOptional, p.Segments[1].Mod)

		p, err = pattern.Compile("/a/<x*:string>")
		require.NoError(t, err)
		require.Equal(t, pattern.ModZeroOrMore, p.Segments[1].Mod)

		p, err = pattern.Compile("/a/<x+:string>")
		require.NoError(t, err)
		require.Equal(t, pattern.ModOneOrMore, p.Segments[1].Mod)
	})

	t.Run("union and literal set types", func(t *testing.T) {
		t.Parallel()
		p, err := pattern.Compile("/v/<arg:number|boolean|string>")
		require.NoError(t, err)
		u, ok := p.Segments[1].Type.(*schema.UnionType)
		require.True(t, ok)
		require.Len(t, u.Branches, 3)

		p, err = pattern.Compile("/v/<mode:{fast}|{slow}>")
		require.NoError(t, err)
		u, ok = p.Segments[1].Type.(*schema.UnionType)
		require.True(t, ok)
		lit, ok := u.Branches[0].(*schema.LiteralType)
		require.True(t, ok)
		require.Equal(t, "fast", lit.Value)
	})

	t.Run("query constraints", func(t *testing.T) {
		t.Parallel()
		p, err := pattern.Compile("/search?kind=article&<page:int>")
		require.NoError(t, err)
		require.Len(t, p.Query, 2)
		require.Equal(t, pattern.QueryStatic, p.Query["kind"].Kind)
		require.Equal(t, "article", p.Query["kind"].Value)
		require.Equal(t, pattern.QueryDynamic, p.Query["page"].Kind)
		require.Equal(t, schema.KindInt, p.Query["page"].Type.Kind())
	})

	t.Run("query capture rejects modifiers", func(t *testing.T) {
		t.Parallel()
		_, err := pattern.Compile("/users?<page?:int>")
		require.Error(t, err)
		var se *pattern.SyntaxError
		require.ErrorAs(t, err, &se)
		require.Contains(t, err.Error(), "cannot take a modifier")

		_, err = pattern.Compile("/users?<page:int>")
		require.NoError(t, err)
	})

	t.Run("segment after repetition is a syntax error", func(t *testing.T) {
		t.Parallel()
		_, err := pattern.Compile("/a/<x*:string>/b")
		require.Error(t, err)
		var se *pattern.SyntaxError
		require.ErrorAs(t, err, &se)

		_, err = pattern.Compile("/a/<x+:string>/<y:int>")
		require.Error(t, err)
	})

	t.Run("malformed captures", func(t *testing.T) {
		t.Parallel()
		for _, src := range []string{
			"/a/<x:string",
			"/a/<x>",
			"/a/<:int>",
			"/a/<x:nope>",
			"/a/<x:{bad>",
			"/a?key",
			"/a?<p?:int>",
		} {
			_, err := pattern.Compile(src)
			require.Error(t, err, "source %q", src)
		}
	})

	t.Run("duplicate query key", func(t *testing.T) {
		t.Parallel()
		_, err := pattern.Compile("/a?k=1&k=2")
		require.Error(t, err)
	})

	t.Run("MustCompile panics on bad input", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() {
			pattern.MustCompile("/a/<x:string")
		})
	})
}
