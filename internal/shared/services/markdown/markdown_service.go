// Package markdown renders the markdown email templates into the two bodies
// of a multipart message.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Body is one rendered template.
type Body struct {
	HTML string
	Text string
}

// Renderer is safe for concurrent use once built.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)

	// template payloads carry member names and references, never markup
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(false)
	policy.AllowAttrs("align").OnElements("td", "th")

	return &Renderer{md: md, policy: policy}
}

// Render converts src to sanitized HTML and a plain-text fallback.
func (r *Renderer) Render(src string) (Body, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return Body{}, fmt.Errorf("failed to render email body: %w", err)
	}
	return Body{
		HTML: r.policy.Sanitize(buf.String()),
		Text: PlainText(src),
	}, nil
}

var (
	mdLink     = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	mdEmphasis = regexp.MustCompile("\\*\\*|__|`")
)

// PlainText drops the inline markdown the templates use. Links keep their
// target so text-only clients can still follow them.
func PlainText(src string) string {
	out := mdLink.ReplaceAllString(src, "$1 ($2)")
	out = mdEmphasis.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
