package engine

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/hintscan/hintscan/internal/model"
)

// Resource is one fetched target handed to hints for evaluation.
type Resource struct {
	// Target is the normalized URL string of the fetched target.
	Target string

	// StatusCode is the HTTP status, or 200 for local files.
	StatusCode int

	// Headers holds the response headers. Empty for local files.
	Headers http.Header

	// Body is the raw response body, capped by the connector.
	Body []byte

	// doc caches the parsed HTML tree.
	doc *html.Node
}

// HTML lazily parses and caches the resource body as HTML.
// The html package never fails on malformed input, it repairs it the
// way browsers do, so the only error source is the reader.
func (r *Resource) HTML() (*html.Node, error) {
	if r.doc != nil {
		return r.doc, nil
	}
	doc, err := html.Parse(strings.NewReader(string(r.Body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	r.doc = doc
	return doc, nil
}

// Hint evaluates one rule against a fetched resource.
// Hints return raw problems without severities; the analyzer stamps the
// configured severity on before emitting them.
type Hint interface {
	// ID returns the hint's identifier, e.g. "content-type".
	ID() string

	// Check evaluates the hint and returns its findings.
	Check(resource *Resource) []model.Problem
}

// builtinHints is the registry of hints this engine knows about, keyed
// by hint ID. Configuration entries naming IDs outside this registry
// fail analyzer construction with a hint error.
var builtinHints = map[string]Hint{
	"content-type":       contentTypeHint{},
	"html-title":         htmlTitleHint{},
	"no-x-powered-by":    noXPoweredByHint{},
	"disallowed-headers": disallowedHeadersHint{},
}

// contentTypeHint checks that HTML responses declare a Content-Type
// header with a charset. Local files have no headers and pass trivially.
type contentTypeHint struct{}

func (contentTypeHint) ID() string { return "content-type" }

func (contentTypeHint) Check(resource *Resource) []model.Problem {
	if len(resource.Headers) == 0 {
		return nil
	}

	ct := resource.Headers.Get("Content-Type")
	if ct == "" {
		return []model.Problem{{
			HintID:   "content-type",
			Message:  "response has no Content-Type header",
			Resource: resource.Target,
		}}
	}
	if strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "charset=") {
		return []model.Problem{{
			HintID:   "content-type",
			Message:  fmt.Sprintf("Content-Type %q should declare a charset", ct),
			Resource: resource.Target,
		}}
	}
	return nil
}

// htmlTitleHint checks that the document has a non-empty <title>.
type htmlTitleHint struct{}

func (htmlTitleHint) ID() string { return "html-title" }

func (h htmlTitleHint) Check(resource *Resource) []model.Problem {
	doc, err := resource.HTML()
	if err != nil {
		return []model.Problem{{
			HintID:   "html-title",
			Message:  err.Error(),
			Resource: resource.Target,
		}}
	}

	title := findTitle(doc)
	if strings.TrimSpace(title) == "" {
		return []model.Problem{{
			HintID:   "html-title",
			Message:  "document has no non-empty <title> element",
			Resource: resource.Target,
		}}
	}
	return nil
}

// findTitle returns the text of the first <title> element, or "".
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// noXPoweredByHint flags the X-Powered-By header, which discloses the
// technology stack for no benefit.
type noXPoweredByHint struct{}

func (noXPoweredByHint) ID() string { return "no-x-powered-by" }

func (noXPoweredByHint) Check(resource *Resource) []model.Problem {
	if v := resource.Headers.Get("X-Powered-By"); v != "" {
		return []model.Problem{{
			HintID:   "no-x-powered-by",
			Message:  fmt.Sprintf("response discloses X-Powered-By: %s", v),
			Resource: resource.Target,
		}}
	}
	return nil
}

// disallowedHeadersHint flags headers that leak server internals.
type disallowedHeadersHint struct{}

func (disallowedHeadersHint) ID() string { return "disallowed-headers" }

// disallowedHeaderNames are headers that should not reach clients.
var disallowedHeaderNames = []string{
	"X-AspNet-Version",
	"X-AspNetMvc-Version",
	"X-Runtime",
	"X-Version",
}

func (disallowedHeadersHint) Check(resource *Resource) []model.Problem {
	var problems []model.Problem
	for _, name := range disallowedHeaderNames {
		if v := resource.Headers.Get(name); v != "" {
			problems = append(problems, model.Problem{
				HintID:   "disallowed-headers",
				Message:  fmt.Sprintf("disallowed header %s: %s", name, v),
				Resource: resource.Target,
			})
		}
	}

	// A Server header with a version number is as leaky as the
	// explicitly versioned headers above.
	if server := resource.Headers.Get("Server"); strings.ContainsAny(server, "0123456789") {
		problems = append(problems, model.Problem{
			HintID:   "disallowed-headers",
			Message:  fmt.Sprintf("Server header discloses a version: %s", server),
			Resource: resource.Target,
		})
	}
	return problems
}
