package description

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kljensen/snowball"
	"github.com/kljensen/snowball/english"

	"github.com/registrar-labs/courserec/internal/core/domain"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Token length bounds: single characters carry no signal, and anything
// approaching maxTokenLen is a run-on artifact of broken markup.
const (
	minTokenLen = 2
	maxTokenLen = 1500
)

var (
	possessive = regexp.MustCompile(`'s\b`)
	lineBreaks = regexp.MustCompile(`[\r\n]+`)
	nonAlnum   = regexp.MustCompile(`[^a-z0-9\s]+`)
	spaces     = regexp.MustCompile(`\s+`)
	allTags    = regexp.MustCompile(`<[^>]*>`)
)

// Normaliser converts raw catalog descriptions into their normalised form.
type Normaliser struct{}

// New creates a description normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise cleans a raw description and derives its token sequence.
// An absent description yields an empty clean sentence and no tokens.
// Normalisation never fails: unparseable markup degrades to a plain tag
// strip of whatever text survives.
func (n *Normaliser) Normalise(raw string) domain.NormalizedDescription {
	if strings.TrimSpace(raw) == "" {
		return domain.NormalizedDescription{CleanSentence: ""}
	}

	text := stripMarkup(raw)

	clean := strings.ToLower(text)
	clean = possessive.ReplaceAllString(clean, "")
	clean = lineBreaks.ReplaceAllString(clean, " ")
	clean = nonAlnum.ReplaceAllString(clean, "")
	clean = spaces.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	return domain.NormalizedDescription{
		CleanSentence: clean,
		Tokens:        tokenise(clean),
	}
}

// stripMarkup extracts the text content of a possibly HTML-bearing string.
// Text outside tags is preserved, character references are decoded, and
// script/style payloads are discarded. Malformed markup is tolerated; if
// parsing fails outright the tags are removed with a plain regex pass.
func stripMarkup(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return allTags.ReplaceAllString(raw, " ")
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text()
}

// tokenise splits a clean sentence on whitespace and reduces each surviving
// token to its dictionary base form. Stopwords and out-of-bounds tokens are
// dropped; order and duplicates are preserved so term frequencies remain
// reproducible downstream.
func tokenise(clean string) []string {
	fields := strings.Fields(clean)
	if len(fields) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if english.IsStopWord(word) {
			continue
		}

		stem, err := snowball.Stem(word, "english", false)
		if err != nil || stem == "" {
			stem = word
		}

		if len(stem) < minTokenLen || len(stem) >= maxTokenLen {
			continue
		}
		tokens = append(tokens, stem)
	}

	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
