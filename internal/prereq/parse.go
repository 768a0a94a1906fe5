package prereq

import (
	"regexp"
	"strings"

	"degree-planner/internal/domain"
)

var (
	codePattern  = regexp.MustCompile(`[A-Z]{2,}\s?\d+[A-Z]*`)
	majorTag     = regexp.MustCompile(`MAJOR:\S+`)
	parenthetic  = regexp.MustCompile(`\([^)]*\)`)
	orSeparator  = regexp.MustCompile(`(?i)\bOR\b`)
	andSeparator = regexp.MustCompile(`(?i)\bAND\b`)
)

const (
	anyMarker = "||"
	allMarker = "&&"
)

// StripAnnotations removes the notes that ride along with course text in catalog
// data: parenthetical remarks, "MAJOR:" tags, "WITH_..." conditions and "label:" prefixes.
func StripAnnotations(token string) string {
	t := strings.TrimSpace(token)
	t = parenthetic.ReplaceAllString(t, " ")
	t = majorTag.ReplaceAllString(t, "")
	t = strings.SplitN(t, "WITH_", 2)[0]
	if i := strings.LastIndex(t, ":"); i >= 0 {
		t = t[i+1:]
	}
	t = strings.ReplaceAll(t, "_", " ")
	return domain.CollapseSpaces(t)
}

// ExtractCodes finds every course code in one token, normalized and de-duplicated.
func ExtractCodes(token string) []string {
	matches := codePattern.FindAllString(strings.ToUpper(StripAnnotations(token)), -1)
	var out []string
	seen := map[string]bool{}
	for _, m := range matches {
		code := domain.NormalizeCode(m)
		if code != "" && !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

// NewGroup builds a group from raw tokens. ok is false when no token yields a code;
// such groups are dropped rather than surfacing as unsatisfiable constraints.
func NewGroup(kind Kind, tokens []string) (Group, bool) {
	if kind == Single && len(tokens) > 1 {
		kind = All
	}
	g := Group{Kind: kind, Tokens: append([]string(nil), tokens...)}
	for _, tok := range tokens {
		if codes := ExtractCodes(tok); len(codes) > 0 {
			g.Options = append(g.Options, codes)
		}
	}
	return g, len(g.Options) > 0
}

// Parse reads the raw JSON shape of a prerequisite or equivalence list: a string,
// a list of strings, or a list mixing strings and nested lists.
func Parse(raw any) Expression {
	p := &parser{kind: Single}
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		p.item(v)
	case []string:
		for _, s := range v {
			p.item(s)
		}
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case string:
				p.item(it)
			case []any:
				p.nested(toStrings(it))
			case []string:
				p.nested(it)
			}
		}
	}
	p.flush()
	return p.out
}

// ParseTokens is Parse for an already-typed token list.
func ParseTokens(tokens []string) Expression {
	return Parse(tokens)
}

type parser struct {
	out     Expression
	current []string
	kind    Kind
	marked  bool
}

func (p *parser) flush() {
	p.emit(p.kind, p.current)
	p.current = nil
	p.kind = Single
	p.marked = false
}

func (p *parser) emit(kind Kind, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	if g, ok := NewGroup(kind, tokens); ok {
		p.out = append(p.out, g)
	}
}

func (p *parser) start(kind Kind, first string) {
	p.flush()
	p.kind = kind
	p.marked = true
	if first = strings.TrimSpace(first); first != "" {
		p.current = []string{first}
	}
}

func (p *parser) item(tok string) {
	trimmed := strings.TrimSpace(tok)
	upper := strings.ToUpper(trimmed)
	switch {
	case trimmed == "":
		return
	case upper == "OR":
		p.start(Any, "")
	case upper == "AND":
		p.start(All, "")
	case strings.Contains(upper, " OR "):
		p.flush()
		p.emit(Any, splitPhrase(orSeparator, trimmed))
	case strings.Contains(upper, " AND "):
		p.flush()
		p.emit(All, splitPhrase(andSeparator, trimmed))
	case strings.HasPrefix(trimmed, anyMarker):
		p.start(Any, trimmed[len(anyMarker):])
	case strings.HasPrefix(trimmed, allMarker):
		p.start(All, trimmed[len(allMarker):])
	default:
		if len(p.current) == 0 && !p.marked {
			p.kind = Single
		}
		p.current = append(p.current, trimmed)
	}
}

func (p *parser) nested(items []string) {
	p.flush()
	kind := Single
	var tokens []string
	for _, it := range items {
		it = strings.TrimSpace(it)
		switch {
		case strings.HasPrefix(it, anyMarker):
			kind = Any
			it = it[len(anyMarker):]
		case strings.HasPrefix(it, allMarker):
			kind = All
			it = it[len(allMarker):]
		}
		if it != "" {
			tokens = append(tokens, it)
		}
	}
	p.emit(kind, tokens)
}

func splitPhrase(sep *regexp.Regexp, phrase string) []string {
	var out []string
	for _, part := range sep.Split(phrase, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toStrings(items []any) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
