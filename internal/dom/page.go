// Package dom models a rendered chat page: read-only structural queries over
// a parsed HTML document plus a mutation subscription primitive.
package dom

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is a live view of one browser tab's document.
// Update swaps the document and notifies subscribers, standing in for DOM mutations.
type Page struct {
	mu   sync.RWMutex
	host string
	doc  *goquery.Document
	all  *goquery.Selection

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int

	focused *goquery.Selection
	clicked *goquery.Selection
}

// Load parses HTML from r into a page served from host.
func Load(host string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	p := &Page{host: strings.ToLower(strings.TrimSpace(host)), subs: make(map[int]func())}
	p.setDoc(doc)
	return p, nil
}

// LoadString parses an HTML string into a page served from host.
func LoadString(host, html string) (*Page, error) {
	return Load(host, strings.NewReader(html))
}

// LoadFile parses an HTML file into a page served from host.
func LoadFile(host, path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return Load(host, f)
}

func (p *Page) setDoc(doc *goquery.Document) {
	p.doc = doc
	p.all = doc.Find("*")
}

// Host returns the lowercased host name the page was loaded from.
func (p *Page) Host() string {
	return p.host
}

// QueryAll returns every element matching selector, in document order.
func (p *Page) QueryAll(selector string) []Element {
	p.mu.RLock()
	defer p.mu.RUnlock()

	sel := p.doc.Find(selector)
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s, page: p, pos: p.all.IndexOfSelection(s)})
	})
	return out
}

// QueryFirst returns the first element matched by the earliest selector that matches anything.
func (p *Page) QueryFirst(selectors ...string) (Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, selector := range selectors {
		sel := p.doc.Find(selector).First()
		if sel.Length() > 0 {
			return Element{sel: sel, page: p, pos: p.all.IndexOfSelection(sel)}, true
		}
	}
	return Element{}, false
}

// Update replaces the document with html and notifies mutation subscribers.
func (p *Page) Update(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}

	p.mu.Lock()
	p.setDoc(doc)
	p.mu.Unlock()

	p.notify()
	return nil
}

// Subscribe registers fn to run after every structural mutation.
// The returned function removes the subscription; calling it twice is safe.
func (p *Page) Subscribe(fn func()) (unsubscribe func()) {
	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subs, id)
			p.subMu.Unlock()
		})
	}
}

// Subscribers returns the number of active mutation subscriptions.
func (p *Page) Subscribers() int {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	return len(p.subs)
}

func (p *Page) notify() {
	p.subMu.Lock()
	fns := make([]func(), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Focused returns the element that last received focus, if any.
func (p *Page) Focused() (Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.focused == nil {
		return Element{}, false
	}
	return Element{sel: p.focused, page: p, pos: -1}, true
}

// Clicked returns the element that was last clicked, if any.
func (p *Page) Clicked() (Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.clicked == nil {
		return Element{}, false
	}
	return Element{sel: p.clicked, page: p, pos: -1}, true
}
