package docfile

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// HTMLInfo is the validation view of an HTML artifact.
type HTMLInfo struct {
	Text string
	// IDs holds every id attribute in the document, for resolving
	// fragment links.
	IDs map[string]bool
	// Links holds every href value, in document order.
	Links []string
}

// ReadHTML parses the artifact and collects text, anchors, and link
// targets.
func ReadHTML(path string) (*HTMLInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	info := &HTMLInfo{IDs: map[string]bool{}}
	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			for _, attr := range n.Attr {
				switch attr.Key {
				case "id":
					info.IDs[attr.Val] = true
				case "href":
					info.Links = append(info.Links, attr.Val)
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	info.Text = text.String()

	return info, nil
}
