package fetch

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

// Pre-compiled regexes; runtime compilation on attacker-supplied HTML risks
// ReDoS.
var (
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var converter = newConverter()

func newConverter() *md.Converter {
	c := md.NewConverter("", true, nil)
	c.Use(plugin.GitHubFlavored())
	return c
}

// ExtractExcerpt strips markup from an HTML document, collapses whitespace,
// and hard-truncates to limit characters. The cutoff is not sentence-aware:
// the text is weak context for a summarization step, not a source of truth,
// and a fixed budget bounds completion cost predictably.
func ExtractExcerpt(htmlContent []byte, limit int) string {
	cleaned := stripBoilerplate(htmlContent)

	text, err := converter.ConvertString(cleaned)
	if err != nil {
		// Converter failure degrades to a crude tag strip.
		text = basicHTMLCleanup(string(htmlContent))
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return text
}

// stripBoilerplate removes non-content elements before markdown conversion.
func stripBoilerplate(content []byte) string {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return basicHTMLCleanup(string(content))
	}

	removeElements(doc, []string{
		"nav", "header", "footer", "aside", "script", "style", "noscript",
		"iframe", "object", "embed", "form", "input", "button",
	})

	if body := findElement(doc, "body"); body != nil {
		return renderNode(body)
	}
	return string(content)
}

func findElement(n *html.Node, tag string) *html.Node {
	var result *html.Node
	var find func(*html.Node)
	find = func(node *html.Node) {
		if result != nil {
			return
		}
		if node.Type == html.ElementNode && node.Data == tag {
			result = node
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(n)
	return result
}

func removeElements(n *html.Node, tags []string) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}

	var toRemove []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && tagSet[node.Data] {
			toRemove = append(toRemove, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range toRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	html.Render(&sb, n)
	return sb.String()
}

func basicHTMLCleanup(content string) string {
	content = scriptRe.ReplaceAllString(content, "")
	content = styleRe.ReplaceAllString(content, "")
	return content
}
