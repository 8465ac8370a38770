package goodboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"goodboard-backend/lib/scrapers/blackboard"
)

// InstructionsFetcher retrieves an assignment page over the network and
// extracts its instruction sections.
type InstructionsFetcher struct {
	client *resty.Client
}

func NewInstructionsFetcher() InstructionsFetcher {
	return InstructionsFetcher{client: resty.New()}
}

// Fetch downloads the page and extracts its instruction sections.
// Relative image sources are rewritten against the page's origin so the
// stored html renders outside the portal.
func (f InstructionsFetcher) Fetch(ctx context.Context, pageUrl string) ([]blackboard.InstructionSection, error) {
	res, err := f.client.R().SetContext(ctx).Get(pageUrl)
	if err != nil {
		return nil, fmt.Errorf("fetch instructions: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch instructions: status %s", res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.String()))
	if err != nil {
		return nil, fmt.Errorf("parse instructions page: %w", err)
	}

	sections := blackboard.ExtractInstructions(doc, origin(pageUrl))
	if len(sections) == 0 {
		return nil, errors.New("no instructions container found")
	}
	return sections, nil
}
