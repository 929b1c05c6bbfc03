package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern   = regexp.MustCompile(`(?i)</?(p|div|br|span|ul|ol|li|h[1-6]|strong|em|b|i|table|tr|td|body|html)\b[^>]*>`)
	inlineSpace      = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	excessiveNewline = regexp.MustCompile(`\n{3,}`)
)

// TextCleaner normalizes resume and cover letter text before it is sent to the model.
// Text pasted from a rich editor often arrives as HTML; that markup is reduced to text.
type TextCleaner struct {
	// Tags removed together with their content
	removeTags []string
	// Tags after which a line break is inserted
	blockTags []string
}

func NewTextCleaner() *TextCleaner {
	return &TextCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"svg", "meta", "link", "title", "head", "form", "button",
		},
		blockTags: []string{
			"p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6",
			"section", "article", "header", "footer",
		},
	}
}

// LooksLikeHTML reports whether the text carries common markup tags
func (tc *TextCleaner) LooksLikeHTML(text string) bool {
	return htmlTagPattern.MatchString(text)
}

// Clean returns plain text with whitespace collapsed and paragraph breaks kept
func (tc *TextCleaner) Clean(text string) string {
	if tc.LooksLikeHTML(text) {
		if extracted, err := tc.extractText(text); err == nil {
			text = extracted
		}
	}
	return tc.normalizeWhitespace(text)
}

func (tc *TextCleaner) extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range tc.removeTags {
		doc.Find(tag).Remove()
	}

	for _, tag := range tc.blockTags {
		doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
			if tag == "li" {
				s.PrependHtml("- ")
			}
			s.AppendHtml("\n")
		})
	}

	return doc.Text(), nil
}

func (tc *TextCleaner) normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = excessiveNewline.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
