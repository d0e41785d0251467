package file

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// frontMatter holds the recognised front matter keys.
type frontMatter struct {
	Title string `yaml:"title"`
}

// splitFrontMatter separates a leading YAML block fenced by "---" lines
// from the body. Content that does not open with a fence, never closes it,
// or whose block is not a YAML mapping is returned unchanged with ok=false
// so a leading horizontal rule survives.
func splitFrontMatter(content string) (meta frontMatter, body string, ok bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, fence+"\n") {
		return frontMatter{}, content, false
	}
	rest := normalized[len(fence)+1:]

	var block string
	switch {
	case rest == fence || strings.HasPrefix(rest, fence+"\n"):
		block, body = "", strings.TrimPrefix(rest[len(fence):], "\n")
	default:
		idx := strings.Index(rest, "\n"+fence+"\n")
		switch {
		case idx >= 0:
			block, body = rest[:idx], rest[idx+len(fence)+2:]
		case strings.HasSuffix(rest, "\n"+fence):
			block, body = strings.TrimSuffix(rest, "\n"+fence), ""
		default:
			return frontMatter{}, content, false
		}
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
		return frontMatter{}, content, false
	}
	if strings.TrimSpace(block) != "" && raw == nil {
		return frontMatter{}, content, false
	}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return frontMatter{}, content, false
	}
	meta.Title = strings.TrimSpace(meta.Title)
	return meta, strings.TrimLeft(body, "\n"), true
}
