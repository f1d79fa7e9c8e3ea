package service

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/newsportal/internal/news"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

var videoEmbedSrcPattern = regexp.MustCompile(
	`^https://(?:www\.)?(?:youtube\.com/embed/|youtube-nocookie\.com/embed/|player\.vimeo\.com/video/)`,
)

// Renderer turns editor output into the HTML stored with an article.
type Renderer interface {
	Render(src string) (string, error)
}

// HTMLRenderer sanitizes rich-text editor HTML.
type HTMLRenderer struct {
	policy *bluemonday.Policy
}

func (r HTMLRenderer) Render(src string) (string, error) {
	return r.policy.Sanitize(src), nil
}

// MarkdownRenderer renders GitHub flavoured markdown and sanitizes the result.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func (r MarkdownRenderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return r.policy.Sanitize(buf.String()), nil
}

// ContentPolicy picks a Renderer by the submitted content format.
type ContentPolicy struct {
	renderers map[string]Renderer
}

// NewContentPolicy registers the html and markdown renderers.
func NewContentPolicy() *ContentPolicy {
	policy := buildContentSanitizer()
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	return &ContentPolicy{renderers: map[string]Renderer{
		FormatHTML:     HTMLRenderer{policy: policy},
		FormatMarkdown: MarkdownRenderer{md: md, policy: policy},
	}}
}

// Render runs src through the renderer registered for format. An empty
// format means html.
func (p *ContentPolicy) Render(format, src string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatHTML
	}
	r, ok := p.renderers[format]
	if !ok {
		return "", &news.ValidationError{Field: "contentFormat", Message: "unsupported content format " + format}
	}
	return r.Render(src)
}

func buildContentSanitizer() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class").OnElements("div", "span", "p", "pre", "code")
	policy.AllowAttrs("src").Matching(videoEmbedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}
