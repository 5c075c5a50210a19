package search

import (
	"context"
	"math/rand"

	"github.com/Shadpls/Eat-Already/internal/components/session"
)

type (
	servicer interface {
		Pick(ctx context.Context, location, category string) (*session.Result, error)
	}

	service struct {
		yelp *YelpClient
	}
)

func NewService(yelp *YelpClient) servicer {
	return &service{yelp: yelp}
}

// Pick queries Yelp for businesses near location and selects one uniformly
// at random. An empty category means an unconstrained search. Zero hits fail
// with ErrNoResults, any upstream failure with ErrUpstream.
func (s *service) Pick(ctx context.Context, location, category string) (*session.Result, error) {
	businesses, err := s.yelp.Search(ctx, location, category, resultLimit)
	if err != nil {
		return nil, err
	}
	if len(businesses) == 0 {
		return nil, ErrNoResults
	}

	pick := businesses[rand.Intn(len(businesses))]

	return &session.Result{
		Name:     pick.Name,
		Address:  pick.Location.DisplayAddress,
		ImageURL: pick.ImageURL,
		Phone:    pick.DisplayPhone,
		URL:      pick.URL,
	}, nil
}
