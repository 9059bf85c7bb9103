// Package pattern compiles route-template strings into structured
// matchers.
//
// A template is a `/`-separated path whose segments are literals or typed
// captures of the form <name:type>, optionally followed by a query part:
//
//	/user/<id:int>
//	/blog/<slug?:string>
//	/files/<path+:string>
//	/search?kind=article&<page:int>
//
// Capture types come from pkg/schema: string, number, boolean, int, float
// and id, plus literal sets <v:{a}|{b}> and unions <v:int|string>. The
// modifiers ?, * and + mark a capture as optional, zero-or-more or
// one-or-more; a repeating capture must be the last declared segment.
package pattern

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/blurname/farrow/pkg/schema"
)

// Modifier controls how many path segments a capture consumes.
type Modifier int

const (
	// ModNone consumes exactly one segment.
	ModNone Modifier = iota
	// ModOptional consumes one segment if present, none otherwise.
	ModOptional
	// ModZeroOrMore consumes all remaining segments; zero is allowed
	// and leaves the capture absent.
	ModZeroOrMore
	// ModOneOrMore consumes all remaining segments and fails on zero.
	ModOneOrMore
)

// Repeats reports whether the modifier consumes an unbounded number of
// segments.
func (m Modifier) Repeats() bool {
	return m == ModZeroOrMore || m == ModOneOrMore
}

// SegmentKind discriminates Segment variants.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentParam
)

// Segment is one declared path position: literal text or a typed capture.
type Segment struct {
	Kind SegmentKind

	// Text is the literal text. Set only for SegmentLiteral.
	Text string

	// Name, Type and Mod describe the capture. Set only for SegmentParam.
	Name string
	Type schema.Type
	Mod  Modifier
}

// QueryKind discriminates QueryConstraint variants.
type QueryKind int

const (
	// QueryStatic requires the key present with exactly the given value.
	QueryStatic QueryKind = iota
	// QueryDynamic requires the key present; type checking is deferred
	// to request validation.
	QueryDynamic
)

// QueryConstraint constrains one query key.
type QueryConstraint struct {
	Kind  QueryKind
	Value string
	Name  string
	Type  schema.Type
}

// Pattern is a compiled route template. It is immutable after Compile and
// safe for concurrent matching.
type Pattern struct {
	// Source is the original template string, empty for regexp patterns.
	Source string

	Segments []Segment
	Query    map[string]QueryConstraint

	// Regexp, when set, replaces segment matching entirely: the pathname
	// matches via the expression's own semantics and produces no named
	// captures.
	Regexp *regexp.Regexp
}

// FromRegexp wraps a compiled regular expression as a Pattern.
func FromRegexp(re *regexp.Regexp) *Pattern {
	return &Pattern{Regexp: re}
}

// Match walks pathname and query against the pattern. On success it
// returns the raw captures: a string per single capture, a []string per
// repeated capture. Absent optional captures have no entry. The second
// return is false when the route does not apply.
func (p *Pattern) Match(pathname string, query url.Values) (map[string]any, bool) {
	caps := make(map[string]any)

	if p.Regexp != nil {
		if !p.Regexp.MatchString(pathname) {
			return nil, false
		}
	} else {
		segs := splitPath(pathname)
		i := 0
		for _, s := range p.Segments {
			switch s.Kind {
			case SegmentLiteral:
				if i >= len(segs) || segs[i] != s.Text {
					return nil, false
				}
				i++
			case SegmentParam:
				switch s.Mod {
				case ModNone:
					if i >= len(segs) {
						return nil, false
					}
					caps[s.Name] = segs[i]
					i++
				case ModOptional:
					if i < len(segs) {
						caps[s.Name] = segs[i]
						i++
					}
				case ModZeroOrMore:
					if i < len(segs) {
						caps[s.Name] = append([]string(nil), segs[i:]...)
						i = len(segs)
					}
				case ModOneOrMore:
					if i >= len(segs) {
						return nil, false
					}
					caps[s.Name] = append([]string(nil), segs[i:]...)
					i = len(segs)
				}
			}
		}
		if i != len(segs) {
			// Trailing segments with no repetition left to absorb them.
			return nil, false
		}
	}

	for key, qc := range p.Query {
		vals, ok := query[key]
		if !ok || len(vals) == 0 {
			return nil, false
		}
		if qc.Kind == QueryStatic && vals[0] != qc.Value {
			return nil, false
		}
	}

	return caps, true
}

// splitPath splits a pathname into segments, dropping the single empty
// segment produced by a leading or trailing slash.
func splitPath(pathname string) []string {
	segs := strings.Split(pathname, "/")
	if len(segs) > 0 && segs[0] == "" {
		segs = segs[1:]
	}
	if len(segs) > 0 && segs[len(segs)-1] == "" {
		segs = segs[:len(segs)-1]
	}
	return segs
}
