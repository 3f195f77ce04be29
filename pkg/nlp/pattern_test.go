package nlp

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *Parser {
	return NewParser(log.New(io.Discard))
}

func TestMatchLiterals(t *testing.T) {
	doc := testParser().Parse("i love pizza")

	assert.True(t, doc.Has("love pizza"))
	assert.False(t, doc.Has("hate pizza"))
}

func TestMatchLiteralBaseForm(t *testing.T) {
	// Literals match plural and inflected surface forms through the base form.
	doc := testParser().Parse("she likes games")

	assert.True(t, doc.Has("like game"))
}

func TestMatchAlternation(t *testing.T) {
	doc := testParser().Parse("i love pizza")

	m := doc.Match("(hate|love) pizza")
	require.True(t, m.Found)
	assert.Equal(t, "love pizza", joinTokens(m.Terms))
}

func TestMatchMultiWordAlternative(t *testing.T) {
	doc := testParser().Parse("that is kind of cool")

	assert.True(t, doc.Has("(sort of|kind of) cool"))
}

func TestMatchOptionalUnit(t *testing.T) {
	parser := testParser()

	assert.True(t, parser.Parse("my favorite food is pizza").Has("my (favorite)? food"))
	assert.True(t, parser.Parse("my food is pizza").Has("my (favorite)? food"))
}

func TestMatchBoundedWildcard(t *testing.T) {
	doc := testParser().Parse("i really truly love pizza")

	assert.True(t, doc.Has("i [0-3] love"))
	assert.False(t, doc.Has("i [0-1] love"))
}

func TestMatchTrailingWildcardIsGreedy(t *testing.T) {
	doc := testParser().Parse("i am a guitarist from osaka")

	m := doc.Match("(i|me) (am|was) [0-10]")
	require.True(t, m.Found)
	assert.Equal(t, "i am a guitarist from osaka", joinTokens(m.Terms))
}

func TestMatchNamedCapture(t *testing.T) {
	doc := testParser().Parse("my favorite food is pizza")

	m := doc.Match("my favorite food is (?P<value>.+)")
	require.True(t, m.Found)
	assert.Equal(t, "pizza", m.Captures["value"])
}

func TestMatchTitleCaseCapture(t *testing.T) {
	doc := testParser().Parse("i love Final Fantasy")

	m := doc.Match("love (?P<title>#TitleCase+)")
	require.True(t, m.Found)
	assert.Equal(t, "Final Fantasy", m.Captures["title"])
}

func TestMatchAllNonOverlapping(t *testing.T) {
	doc := testParser().Parse("i like cats and i like dogs")

	matches := doc.MatchAll("i like")
	assert.Len(t, matches, 2)
}

func TestMatchEmptyDoc(t *testing.T) {
	doc := testParser().Parse("")

	assert.False(t, doc.Has("anything"))
	assert.Empty(t, doc.MatchAll("anything"))
}

func TestCompileErrors(t *testing.T) {
	for _, source := range []string{"(a|b", "a)", "[2]", "(?P<x>", "(a||b)"} {
		_, err := Compile(source)
		assert.Error(t, err, "pattern %q", source)
	}
}

func TestMustCompilePanicsOnMalformedPattern(t *testing.T) {
	assert.Panics(t, func() { MustCompile("(a|b") })
}

func TestTokenHasClass(t *testing.T) {
	blue := Token{Text: "blue", Lower: "blue", Tag: "JJ"}
	assert.True(t, blue.HasClass("Color"))
	assert.True(t, blue.HasClass("Adjective"))
	assert.False(t, blue.HasClass("Noun"))

	swimming := Token{Text: "swimming", Lower: "swimming", Tag: "VBG"}
	assert.True(t, swimming.HasClass("Activity"))
	assert.True(t, swimming.HasClass("Verb"))

	dont := Token{Text: "don't", Lower: "don't", Tag: "VBP"}
	assert.True(t, dont.HasClass("Negative"))

	title := Token{Text: "Fantasy", Lower: "fantasy", Tag: "NNP"}
	assert.True(t, title.HasClass("TitleCase"))
	assert.False(t, Token{Text: "fantasy", Lower: "fantasy"}.HasClass("TitleCase"))
}

func TestIsQuestion(t *testing.T) {
	parser := testParser()

	assert.True(t, parser.Parse("do you like music?").IsQuestion())
	assert.True(t, parser.Parse("what do you like to do").IsQuestion())
	assert.False(t, parser.Parse("i like music").IsQuestion())
}
