package pattern

import (
	"fmt"
	"strings"

	"github.com/blurname/farrow/pkg/schema"
)

// SyntaxError reports a malformed route template. It is fatal at
// registration time.
type SyntaxError struct {
	Source  string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern %q: %s", e.Source, e.Message)
}

func syntaxErr(source, format string, args ...any) error {
	return &SyntaxError{Source: source, Message: fmt.Sprintf(format, args...)}
}

// typeNames maps grammar type tokens to their schema descriptors.
var typeNames = map[string]schema.Type{
	"string":  schema.String,
	"number":  schema.Number,
	"boolean": schema.Boolean,
	"int":     schema.Int,
	"float":   schema.Float,
	"id":      schema.ID,
}

// Compile parses a route template into a Pattern. Malformed input yields
// a *SyntaxError.
func Compile(source string) (*Pattern, error) {
	pathPart, queryPart := cutQuery(source)

	p := &Pattern{Source: source}

	for _, raw := range splitPath(pathPart) {
		seg, err := parseSegment(source, raw)
		if err != nil {
			return nil, err
		}
		if n := len(p.Segments); n > 0 && p.Segments[n-1].Kind == SegmentParam && p.Segments[n-1].Mod.Repeats() {
			return nil, syntaxErr(source, "segment %q declared after a repeating capture", raw)
		}
		p.Segments = append(p.Segments, seg)
	}

	if queryPart != "" {
		p.Query = make(map[string]QueryConstraint)
		for _, tok := range strings.Split(queryPart, "&") {
			key, qc, err := parseQueryToken(source, tok)
			if err != nil {
				return nil, err
			}
			if _, dup := p.Query[key]; dup {
				return nil, syntaxErr(source, "duplicate query key %q", key)
			}
			p.Query[key] = qc
		}
	}

	return p, nil
}

// MustCompile is Compile that panics on malformed input. Use for
// package-level route tables.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

// cutQuery splits a template on the first '?' outside a capture bracket.
// The optional modifier also uses '?', so a plain strings.Cut would split
// inside <name?:string>.
func cutQuery(source string) (path, query string) {
	depth := 0
	for i, r := range source {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case '?':
			if depth == 0 {
				return source[:i], source[i+1:]
			}
		}
	}
	return source, ""
}

func parseSegment(source, raw string) (Segment, error) {
	if strings.HasPrefix(raw, "<") {
		if !strings.HasSuffix(raw, ">") {
			return Segment{}, syntaxErr(source, "unterminated capture %q", raw)
		}
		name, typ, mod, err := parseCapture(source, raw[1:len(raw)-1])
		if err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegmentParam, Name: name, Type: typ, Mod: mod}, nil
	}
	if strings.ContainsAny(raw, "<>") {
		return Segment{}, syntaxErr(source, "malformed segment %q", raw)
	}
	return Segment{Kind: SegmentLiteral, Text: raw}, nil
}

// parseCapture parses the inside of <...>: a name, an optional modifier
// and a type expression separated by a colon.
func parseCapture(source, inner string) (string, schema.Type, Modifier, error) {
	namePart, typePart, ok := strings.Cut(inner, ":")
	if !ok {
		return "", nil, ModNone, syntaxErr(source, "capture %q missing type", inner)
	}

	mod := ModNone
	if n := len(namePart); n > 0 {
		switch namePart[n-1] {
		case '?':
			mod = ModOptional
			namePart = namePart[:n-1]
		case '*':
			mod = ModZeroOrMore
			namePart = namePart[:n-1]
		case '+':
			mod = ModOneOrMore
			namePart = namePart[:n-1]
		}
	}
	if namePart == "" {
		return "", nil, ModNone, syntaxErr(source, "capture %q missing name", inner)
	}

	typ, err := parseTypeExpr(source, typePart)
	if err != nil {
		return "", nil, ModNone, err
	}
	return namePart, typ, mod, nil
}

// parseTypeExpr parses a type expression: a single type name, a literal
// set {a}|{b}, or a union int|string.
func parseTypeExpr(source, expr string) (schema.Type, error) {
	alts := strings.Split(expr, "|")
	branches := make([]schema.Type, 0, len(alts))
	for _, alt := range alts {
		t, err := parseTypeAlt(source, alt)
		if err != nil {
			return nil, err
		}
		branches = append(branches, t)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return schema.Union(branches...), nil
}

func parseTypeAlt(source, alt string) (schema.Type, error) {
	if strings.HasPrefix(alt, "{") {
		if !strings.HasSuffix(alt, "}") || len(alt) < 2 {
			return nil, syntaxErr(source, "unterminated literal %q", alt)
		}
		return schema.Literal(alt[1 : len(alt)-1]), nil
	}
	t, ok := typeNames[alt]
	if !ok {
		return nil, syntaxErr(source, "unknown type %q", alt)
	}
	return t, nil
}

// parseQueryToken parses one &-separated query constraint: key=value for
// a static constraint, <name:type> for a dynamic one.
func parseQueryToken(source, tok string) (string, QueryConstraint, error) {
	if strings.HasPrefix(tok, "<") {
		if !strings.HasSuffix(tok, ">") {
			return "", QueryConstraint{}, syntaxErr(source, "unterminated capture %q", tok)
		}
		name, typ, mod, err := parseCapture(source, tok[1:len(tok)-1])
		if err != nil {
			return "", QueryConstraint{}, err
		}
		if mod != ModNone {
			return "", QueryConstraint{}, syntaxErr(source, "query capture %q cannot take a modifier", tok)
		}
		return name, QueryConstraint{Kind: QueryDynamic, Name: name, Type: typ}, nil
	}

	key, value, ok := strings.Cut(tok, "=")
	if !ok || key == "" {
		return "", QueryConstraint{}, syntaxErr(source, "malformed query constraint %q", tok)
	}
	return key, QueryConstraint{Kind: QueryStatic, Value: value}, nil
}
