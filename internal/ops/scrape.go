package ops

import (
	"github.com/hpungsan/bridgeai/internal/message"
)

// ScrapeInput contains parameters for the Scrape operation.
type ScrapeInput struct {
	PageInput
}

// ScrapeOutput contains the result of the Scrape operation.
type ScrapeOutput struct {
	Platform string            `json:"platform"`
	Host     string            `json:"host"`
	Count    int               `json:"count"`
	Messages []message.Message `json:"messages"`
}

// Scrape extracts the conversation rendered on a page. An empty conversation
// is not an error here; Transfer is where emptiness is rejected.
func Scrape(d *Deps, input ScrapeInput) (*ScrapeOutput, error) {
	e, page, err := resolvePage(d, input.PageInput)
	if err != nil {
		return nil, err
	}

	messages := e.ScrapeMessages(page)
	if messages == nil {
		messages = []message.Message{}
	}
	return &ScrapeOutput{
		Platform: e.Platform().ID,
		Host:     page.Host(),
		Count:    len(messages),
		Messages: messages,
	}, nil
}
