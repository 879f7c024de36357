package services

import (
	"github.com/microcosm-cc/bluemonday"
)

// contentPolicy is the allowlist for post bodies: basic formatting tags
// survive, scripts, iframes and event handlers do not. Links get
// target="_blank" with the matching rel attributes forced on.
var contentPolicy = buildContentPolicy()

func buildContentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "h1", "h2", "h3",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AllowURLSchemes("http", "https")
	p.RequireNoFollowOnLinks(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	p.AllowAttrs("src", "alt").OnElements("img")

	return p
}

// SanitizeContent strips unsafe HTML from a post body. Idempotent.
func SanitizeContent(raw string) string {
	return contentPolicy.Sanitize(raw)
}
