package linkcheck

import (
	"bytes"

	"golang.org/x/net/html"
)

// collectAnchorIDs parses rendered HTML and returns every element id, the
// fragment targets a link can legally point at.
func collectAnchorIDs(rendered []byte) map[string]bool {
	ids := map[string]bool{}
	doc, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		return ids
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val != "" {
					ids[a.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ids
}
