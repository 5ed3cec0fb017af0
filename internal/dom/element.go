package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a handle to one node of a page.
// Handles keep pointing at the document they were resolved from; after an
// Update they describe the old document.
type Element struct {
	sel  *goquery.Selection
	page *Page
	pos  int
}

// Valid reports whether the handle refers to a node.
func (e Element) Valid() bool {
	return e.sel != nil && e.sel.Length() > 0
}

// Text returns the element's text content, trimmed.
func (e Element) Text() string {
	if !e.Valid() {
		return ""
	}
	return strings.TrimSpace(e.sel.Text())
}

// Attr returns the named attribute.
func (e Element) Attr(name string) (string, bool) {
	if !e.Valid() {
		return "", false
	}
	return e.sel.Attr(name)
}

// Tag returns the lowercased element name.
func (e Element) Tag() string {
	if !e.Valid() {
		return ""
	}
	return goquery.NodeName(e.sel)
}

// Is reports whether the element matches selector.
func (e Element) Is(selector string) bool {
	return e.Valid() && e.sel.Is(selector)
}

// Closest reports whether the element or one of its ancestors matches selector.
func (e Element) Closest(selector string) bool {
	return e.Valid() && e.sel.Closest(selector).Length() > 0
}

// Nested reports whether a proper ancestor of the element matches selector.
func (e Element) Nested(selector string) bool {
	return e.Valid() && e.sel.Parent().Closest(selector).Length() > 0
}

// Find returns the first descendant matching selector.
func (e Element) Find(selector string) (Element, bool) {
	if !e.Valid() {
		return Element{}, false
	}
	sel := e.sel.Find(selector).First()
	if sel.Length() == 0 {
		return Element{}, false
	}
	return Element{sel: sel, page: e.page, pos: -1}, true
}

// Position is the element's pre-order index in its document, which matches its
// vertical order on a page in normal flow. -1 when unknown.
func (e Element) Position() int {
	return e.pos
}

// Focus records the element as the page's focused element.
func (e Element) Focus() {
	if !e.Valid() || e.page == nil {
		return
	}
	e.page.mu.Lock()
	e.page.focused = e.sel
	e.page.mu.Unlock()
}

// Click records the element as the page's last clicked element.
func (e Element) Click() {
	if !e.Valid() || e.page == nil {
		return
	}
	e.page.mu.Lock()
	e.page.clicked = e.sel
	e.page.mu.Unlock()
}
