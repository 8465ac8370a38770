package htmlutil

import (
	"regexp"
	"strings"

	"goodboard-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text returns the trimmed, whitespace-collapsed text of the first node in
// the selection. The closest equivalent of reading a single element's
// visible text.
func Text(sel *goquery.Selection) string {
	return textutil.CollapseWhitespace(sel.Text())
}

var blockTags = map[string]struct{}{
	"div": {}, "p": {}, "li": {}, "tr": {}, "td": {}, "th": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"ul": {}, "ol": {}, "table": {}, "section": {}, "article": {},
	"header": {}, "footer": {},
}

// InnerText approximates a browser's innerText: text content with line
// breaks at <br> and at block element boundaries. Extractors that split a
// node's text into lines depend on those breaks being present.
func InnerText(sel *goquery.Selection) string {
	var buffer strings.Builder
	for _, node := range sel.Nodes {
		innerTextRecursive(node, &buffer)
	}
	lines := strings.Split(buffer.String(), "\n")
	for i, line := range lines {
		lines[i] = textutil.CollapseWhitespace(line)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func innerTextRecursive(node *html.Node, buffer *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		innerTextRecursive(child, buffer)
	}
	if node.Type == html.ElementNode {
		if _, ok := blockTags[node.Data]; ok {
			buffer.WriteString("\n")
		}
	}
}

// FirstMatch evaluates selectors in order and returns the first non-empty
// match. Selector order encodes confidence: the most specific layout comes
// first, heuristics last.
func FirstMatch(root *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, selector := range selectors {
		found := root.Find(selector)
		if found.Length() > 0 {
			return found.First()
		}
	}
	return nil
}

// FirstText is FirstMatch for text content: the first selector yielding a
// non-empty trimmed text wins.
func FirstText(root *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		found := root.Find(selector)
		if found.Length() == 0 {
			continue
		}
		text := Text(found.First())
		if text != "" {
			return text
		}
	}
	return ""
}

// ClassWithPrefix returns the first class token of the selection's first
// node starting with the given prefix, or "".
func ClassWithPrefix(sel *goquery.Selection, prefix string) string {
	for _, token := range strings.Fields(sel.AttrOr("class", "")) {
		if strings.HasPrefix(token, prefix) {
			return token
		}
	}
	return ""
}

var (
	scriptBlockRegex   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	javascriptUrlRegex = regexp.MustCompile(`(?i)javascript:`)
)

// Sanitize strips script blocks and javascript: urls from an HTML fragment
// before it is persisted. Feedback HTML comes from an attribute on a page
// this process does not control.
func Sanitize(fragment string) string {
	fragment = scriptBlockRegex.ReplaceAllString(fragment, "")
	fragment = javascriptUrlRegex.ReplaceAllString(fragment, "")
	return fragment
}
