package nlp

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Pattern syntax, modeled on tagged-token match languages:
//
//	favorite                  literal token
//	(like|love|kind of)       alternation; alternatives may be multi-word
//	#Noun #Adjective+ #Verb?  tag classes with optional quantifiers
//	[0-3]                     zero to three arbitrary tokens
//	.  .+                     one / one-or-more arbitrary tokens
//	(?P<value>#Noun+)         named capture around a sub-pattern
//
// Literals match the lowercased token or its base form. Wildcards are greedy,
// so a trailing `[0-10]` or `.+` swallows the rest of the utterance.

type elementKind int

const (
	kindLiteral elementKind = iota
	kindAlt
	kindTag
	kindWildcard
	kindAny
	kindCapture
)

type element struct {
	kind     elementKind
	literals []string    // kindLiteral: lowercased alternatives (single word)
	alts     [][]element // kindAlt: alternative sub-sequences
	tagClass string      // kindTag
	name     string      // kindCapture
	sub      []element   // kindCapture
	min, max int         // quantifier bounds; max < 0 means unbounded
}

// Pattern is a compiled token pattern, safe for concurrent use.
type Pattern struct {
	source   string
	elements []element
}

// MatchResult reports one pattern occurrence.
type MatchResult struct {
	Found    bool
	Captures map[string]string
	Terms    []Token
	Start    int
	End      int // exclusive token index
}

// Compile parses a pattern. Malformed patterns return an error.
func Compile(source string) (*Pattern, error) {
	elements, err := compileSequence(source)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", source, err)
	}
	return &Pattern{source: source, elements: elements}, nil
}

// MustCompile is Compile for pattern literals; it panics on malformed input.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

var (
	patternCacheMu sync.RWMutex
	patternCache   = map[string]*Pattern{}
)

func cachedPattern(source string) *Pattern {
	patternCacheMu.RLock()
	p, ok := patternCache[source]
	patternCacheMu.RUnlock()
	if ok {
		return p
	}
	p = MustCompile(source)
	patternCacheMu.Lock()
	patternCache[source] = p
	patternCacheMu.Unlock()
	return p
}

func compileSequence(source string) ([]element, error) {
	var elements []element
	units, err := splitUnits(source)
	if err != nil {
		return nil, err
	}
	for _, unit := range units {
		el, err := compileUnit(unit)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}

// splitUnits splits on spaces outside parentheses and brackets.
func splitUnits(source string) ([]string, error) {
	var units []string
	depth := 0
	current := strings.Builder{}
	for _, r := range source {
		switch {
		case r == '(' || r == '[':
			depth++
			current.WriteRune(r)
		case r == ')' || r == ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q", string(r))
			}
			current.WriteRune(r)
		case r == ' ' && depth == 0:
			if current.Len() > 0 {
				units = append(units, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	if current.Len() > 0 {
		units = append(units, current.String())
	}
	return units, nil
}

func compileUnit(unit string) (element, error) {
	min, max := 1, 1
	switch {
	case strings.HasSuffix(unit, "+") && !strings.HasPrefix(unit, "."):
		min, max = 1, -1
		unit = strings.TrimSuffix(unit, "+")
	case strings.HasSuffix(unit, "?") && len(unit) > 1:
		min, max = 0, 1
		unit = strings.TrimSuffix(unit, "?")
	}

	switch {
	case strings.HasPrefix(unit, "(?P<"):
		end := strings.Index(unit, ">")
		if end < 0 || !strings.HasSuffix(unit, ")") {
			return element{}, fmt.Errorf("malformed capture %q", unit)
		}
		name := unit[4:end]
		sub, err := compileSequence(unit[end+1 : len(unit)-1])
		if err != nil {
			return element{}, err
		}
		return element{kind: kindCapture, name: name, sub: sub, min: 1, max: 1}, nil

	case strings.HasPrefix(unit, "("):
		if !strings.HasSuffix(unit, ")") {
			return element{}, fmt.Errorf("malformed group %q", unit)
		}
		body := unit[1 : len(unit)-1]
		parts, err := splitAlternatives(body)
		if err != nil {
			return element{}, err
		}
		// Plain word alternatives compile to a flat literal set; anything
		// containing tags or nesting becomes alternative sub-sequences.
		if allPlainWords(parts) {
			literals := make([]string, 0, len(parts))
			for _, part := range parts {
				literals = append(literals, strings.ToLower(part))
			}
			return element{kind: kindLiteral, literals: literals, min: min, max: max}, nil
		}
		alts := make([][]element, 0, len(parts))
		for _, part := range parts {
			sub, err := compileSequence(part)
			if err != nil {
				return element{}, err
			}
			alts = append(alts, sub)
		}
		return element{kind: kindAlt, alts: alts, min: min, max: max}, nil

	case strings.HasPrefix(unit, "#"):
		return element{kind: kindTag, tagClass: unit[1:], min: min, max: max}, nil

	case strings.HasPrefix(unit, "[") && strings.HasSuffix(unit, "]"):
		body := unit[1 : len(unit)-1]
		bounds := strings.SplitN(body, "-", 2)
		if len(bounds) != 2 {
			return element{}, fmt.Errorf("malformed range %q", unit)
		}
		low, err := strconv.Atoi(bounds[0])
		if err != nil {
			return element{}, err
		}
		high, err := strconv.Atoi(bounds[1])
		if err != nil {
			return element{}, err
		}
		return element{kind: kindWildcard, min: low, max: high}, nil

	case unit == ".":
		return element{kind: kindAny, min: 1, max: 1}, nil

	case unit == ".+":
		return element{kind: kindAny, min: 1, max: -1}, nil

	default:
		return element{kind: kindLiteral, literals: []string{strings.ToLower(unit)}, min: min, max: max}, nil
	}
}

func splitAlternatives(body string) ([]string, error) {
	var parts []string
	depth := 0
	current := strings.Builder{}
	for _, r := range body {
		switch {
		case r == '(' || r == '[':
			depth++
			current.WriteRune(r)
		case r == ')' || r == ']':
			depth--
			current.WriteRune(r)
		case r == '|' && depth == 0:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	parts = append(parts, current.String())
	for i := range parts {
		if strings.TrimSpace(parts[i]) == "" {
			return nil, fmt.Errorf("empty alternative in %q", body)
		}
	}
	return parts, nil
}

func allPlainWords(parts []string) bool {
	for _, part := range parts {
		if strings.ContainsAny(part, "#([.?") {
			return false
		}
	}
	return true
}

type captureSpan struct {
	name       string
	start, end int
}

type matchState struct {
	tokens   []Token
	captures []captureSpan
}

// Match returns the first occurrence of pattern in the doc.
func (d *Doc) Match(pattern string) MatchResult {
	return d.match(cachedPattern(pattern))
}

// MatchAll returns every non-overlapping occurrence, left to right.
func (d *Doc) MatchAll(pattern string) []MatchResult {
	p := cachedPattern(pattern)
	var results []MatchResult
	start := 0
	for start < len(d.tokens) {
		result := d.matchFrom(p, start)
		if !result.Found {
			break
		}
		results = append(results, result)
		if result.End > start {
			start = result.End
		} else {
			start++
		}
	}
	return results
}

// Has reports whether the pattern occurs at least once.
func (d *Doc) Has(pattern string) bool {
	return d.Match(pattern).Found
}

func (d *Doc) match(p *Pattern) MatchResult {
	return d.matchFrom(p, 0)
}

func (d *Doc) matchFrom(p *Pattern, from int) MatchResult {
	for start := from; start <= len(d.tokens); start++ {
		state := &matchState{tokens: d.tokens}
		if end, ok := matchSequence(p.elements, 0, state, start); ok {
			if end == start {
				continue // zero-width match carries no information
			}
			captures := make(map[string]string, len(state.captures))
			for _, span := range state.captures {
				captures[span.name] = joinTokens(d.tokens[span.start:span.end])
			}
			return MatchResult{
				Found:    true,
				Captures: captures,
				Terms:    d.tokens[start:end],
				Start:    start,
				End:      end,
			}
		}
	}
	return MatchResult{}
}

func joinTokens(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

// matchSequence matches elements[ei:] against tokens at position ti, returning
// the end position of the full sequence match.
func matchSequence(elements []element, ei int, state *matchState, ti int) (int, bool) {
	if ei == len(elements) {
		return ti, true
	}
	el := elements[ei]

	for _, next := range elementEnds(el, state, ti) {
		saved := len(state.captures)
		if el.kind == kindCapture {
			state.captures = append(state.captures, captureSpan{name: el.name, start: ti, end: next})
		}
		if end, ok := matchSequence(elements, ei+1, state, next); ok {
			return end, true
		}
		state.captures = state.captures[:saved]
	}
	return 0, false
}

// elementEnds lists candidate end positions for one element starting at ti, in
// preference order.
func elementEnds(el element, state *matchState, ti int) []int {
	tokens := state.tokens
	switch el.kind {
	case kindLiteral:
		return repeatEnds(ti, el.min, el.max, false, func(pos int) []int {
			return literalEnds(el.literals, tokens, pos)
		})

	case kindTag:
		return repeatEnds(ti, el.min, el.max, el.max < 0, func(pos int) []int {
			if pos < len(tokens) && tokens[pos].HasClass(el.tagClass) {
				return []int{pos + 1}
			}
			return nil
		})

	case kindAlt:
		return repeatEnds(ti, el.min, el.max, el.max < 0, func(pos int) []int {
			var ends []int
			for _, alt := range el.alts {
				if end, ok := matchSequence(alt, 0, state, pos); ok {
					ends = append(ends, end)
				}
			}
			return ends
		})

	case kindWildcard, kindAny:
		max := el.max
		if max < 0 {
			max = len(tokens) - ti
		}
		// greedy: longest first, so a trailing wildcard swallows the rest of
		// the utterance instead of matching zero tokens.
		var ends []int
		for n := max; n >= el.min; n-- {
			if ti+n <= len(tokens) {
				ends = append(ends, ti+n)
			}
		}
		return ends

	case kindCapture:
		var ends []int
		if end, ok := matchSequence(el.sub, 0, state, ti); ok {
			ends = append(ends, end)
		}
		return ends
	}
	return nil
}

func literalEnds(literals []string, tokens []Token, pos int) []int {
	var ends []int
	for _, alt := range literals {
		words := strings.Fields(alt)
		if matchWords(words, tokens, pos) {
			ends = append(ends, pos+len(words))
		}
	}
	return ends
}

func matchWords(words []string, tokens []Token, pos int) bool {
	if pos+len(words) > len(tokens) {
		return false
	}
	for i, w := range words {
		t := tokens[pos+i]
		if t.Lower != w && baseForm(t.Lower) != w {
			return false
		}
	}
	return true
}

// repeatEnds expands a quantified single-step matcher into candidate sequence
// ends. greedy controls whether longer repetitions are preferred.
func repeatEnds(start, min, max int, greedy bool, step func(pos int) []int) []int {
	type frontier struct{ pos, count int }
	var ends []int
	seen := map[int]bool{}

	var walk func(f frontier)
	walk = func(f frontier) {
		if f.count >= min && !seen[f.pos] {
			seen[f.pos] = true
			ends = append(ends, f.pos)
		}
		if max >= 0 && f.count == max {
			return
		}
		for _, next := range step(f.pos) {
			if next > f.pos {
				walk(frontier{pos: next, count: f.count + 1})
			}
		}
	}
	walk(frontier{pos: start, count: 0})

	if greedy {
		for i, j := 0, len(ends)-1; i < j; i, j = i+1, j-1 {
			ends[i], ends[j] = ends[j], ends[i]
		}
	}
	return ends
}
