package goodboard

import (
	"context"
	"fmt"

	"goodboard-backend/lib/scrapers/blackboard"
)

// Actions understood by the messaging surface. The uppercase names are
// part of the wire contract with the dashboard.
const (
	ActionScrape             = "scrape"
	ActionScrapeGradeDetails = "SCRAPE_GRADE_DETAILS"
	ActionScrapeInstructions = "SCRAPE_INSTRUCTIONS"
	ActionFetchInstructions  = "FETCH_INSTRUCTIONS"
)

const (
	StatusScraped = "scraped"
	StatusSuccess = "success"
	StatusError   = "error"
)

type Request struct {
	Action     string `json:"action"`
	CourseName string `json:"courseName,omitempty"`
	Url        string `json:"url,omitempty"`
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Service answers the named actions of the messaging surface. Several
// extraction contexts may receive the same question, so the detail and
// instruction actions deliberately withhold their response (answered
// false) when they found nothing, leaving the answer to whichever
// context holds the data.
type Service struct {
	router  *Router
	fetcher InstructionsFetcher
	load    PageLoader
}

func NewService(router *Router, fetcher InstructionsFetcher, load PageLoader) Service {
	return Service{router: router, fetcher: fetcher, load: load}
}

func (s Service) Handle(ctx context.Context, req Request) (Response, bool, error) {
	switch req.Action {
	case ActionScrape:
		doc, pageUrl, err := s.load()
		if err != nil {
			return Response{}, false, fmt.Errorf("load page: %w", err)
		}
		err = s.router.Route(ctx, doc, pageUrl)
		if err != nil {
			return Response{}, false, err
		}
		return Response{Status: StatusScraped}, true, nil

	case ActionScrapeGradeDetails:
		doc, _, err := s.load()
		if err != nil {
			return Response{}, false, fmt.Errorf("load page: %w", err)
		}
		result := blackboard.ExtractGradeDetails(doc, req.CourseName)
		if result.Empty() {
			return Response{}, false, nil
		}
		return Response{Status: StatusSuccess, Data: result}, true, nil

	case ActionScrapeInstructions:
		doc, _, err := s.load()
		if err != nil {
			return Response{}, false, fmt.Errorf("load page: %w", err)
		}
		sections := blackboard.ExtractInstructions(doc, "")
		if len(sections) == 0 {
			return Response{}, false, nil
		}
		return Response{Status: StatusSuccess, Data: sections}, true, nil

	case ActionFetchInstructions:
		if req.Url == "" {
			return Response{Status: StatusError, Message: "missing url"}, true, nil
		}
		sections, err := s.fetcher.Fetch(ctx, req.Url)
		if err != nil {
			return Response{Status: StatusError, Message: err.Error()}, true, nil
		}
		return Response{Status: StatusSuccess, Data: sections}, true, nil
	}

	return Response{}, false, nil
}
