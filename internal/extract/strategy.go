package extract

import (
	"cmp"
	"slices"
	"time"

	"github.com/hpungsan/bridgeai/internal/dom"
	"github.com/hpungsan/bridgeai/internal/message"
)

// minTextBlockChars rejects UI chrome in the loosest lookups.
const minTextBlockChars = 20

// candidate is an element picked by a lookup, before it becomes a Message.
type candidate struct {
	role  message.Role // empty when the structure gives no hint
	index int          // position within its own lookup, used for alternation
	pos   int          // document position, used for merging
	text  string
}

// Strategy is one named lookup in an adapter's fallback chain.
type Strategy struct {
	Name    string
	collect func(page *dom.Page) []candidate
}

// run turns the strategy's candidates into messages. Unknown roles alternate
// by lookup position starting with user; empty content is dropped.
func (s Strategy) run(page *dom.Page, now time.Time) []message.Message {
	candidates := s.collect(page)
	out := make([]message.Message, 0, len(candidates))
	for _, c := range candidates {
		role := c.role
		if role == "" {
			role = message.AlternatingRole(c.index)
		}
		if m, ok := message.New(role, c.text, now); ok {
			out = append(out, m)
		}
	}
	return out
}

// query returns the outermost matches of selector, skipping matches nested in another match.
func query(page *dom.Page, selector string) []dom.Element {
	all := page.QueryAll(selector)
	out := make([]dom.Element, 0, len(all))
	for _, el := range all {
		if !el.Nested(selector) {
			out = append(out, el)
		}
	}
	return out
}

// contentOf returns the text of the first descendant matching contentSelector,
// falling back to the element's own text.
func contentOf(el dom.Element, contentSelector string) string {
	if contentSelector != "" {
		if inner, ok := el.Find(contentSelector); ok {
			return inner.Text()
		}
	}
	return el.Text()
}

// byAttribute reads the role from attr on each element matching selector.
// Elements with an unrecognized role value fall back to alternation.
func byAttribute(name, selector, attr, contentSelector string) Strategy {
	return Strategy{
		Name: name,
		collect: func(page *dom.Page) []candidate {
			els := query(page, selector)
			out := make([]candidate, 0, len(els))
			for i, el := range els {
				c := candidate{index: i, pos: el.Position(), text: contentOf(el, contentSelector)}
				if v, ok := el.Attr(attr); ok && message.Role(v).Valid() {
					c.role = message.Role(v)
				}
				out = append(out, c)
			}
			return out
		},
	}
}

// alternating assigns roles purely by position. minChars > 0 drops short blocks.
func alternating(name, selector string, minChars int) Strategy {
	return Strategy{
		Name: name,
		collect: func(page *dom.Page) []candidate {
			els := query(page, selector)
			out := make([]candidate, 0, len(els))
			idx := 0
			for _, el := range els {
				text := el.Text()
				if minChars > 0 && message.CountChars(text) < minChars {
					continue
				}
				out = append(out, candidate{index: idx, pos: el.Position(), text: text})
				idx++
			}
			return out
		},
	}
}

// classified lets classify decide each element's role; false means unknown.
func classified(name, selector string, classify func(dom.Element) (message.Role, bool)) Strategy {
	return Strategy{
		Name: name,
		collect: func(page *dom.Page) []candidate {
			els := query(page, selector)
			out := make([]candidate, 0, len(els))
			for i, el := range els {
				c := candidate{index: i, pos: el.Position(), text: el.Text()}
				if role, ok := classify(el); ok {
					c.role = role
				}
				out = append(out, c)
			}
			return out
		},
	}
}

// merged combines disjoint user-only and assistant-only lookups into
// conversation order by page position.
func merged(name, userSelector, assistantSelector string) Strategy {
	return Strategy{
		Name: name,
		collect: func(page *dom.Page) []candidate {
			users := query(page, userSelector)
			assistants := query(page, assistantSelector)
			out := make([]candidate, 0, len(users)+len(assistants))
			for _, el := range users {
				out = append(out, candidate{role: message.RoleUser, pos: el.Position(), text: el.Text()})
			}
			for _, el := range assistants {
				out = append(out, candidate{role: message.RoleAssistant, pos: el.Position(), text: el.Text()})
			}
			return mergeByPosition(out)
		},
	}
}

// mergeByPosition orders candidates by ascending page position. Ties keep input order.
func mergeByPosition(candidates []candidate) []candidate {
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(a.pos, b.pos)
	})
	for i := range candidates {
		candidates[i].index = i
	}
	return candidates
}
