package search

import (
	"context"

	"github.com/rs/zerolog"
)

// Validator decides whether a free-text location string is resolvable. It is
// a best-effort heuristic: a Yelp "food" probe first, then a postal-code
// lookup, and any failure on both legs means invalid.
type Validator struct {
	yelp    *YelpClient
	zipcode *ZipcodeClient
	logger  zerolog.Logger
}

func NewValidator(yelp *YelpClient, zipcode *ZipcodeClient, logger zerolog.Logger) *Validator {
	return &Validator{yelp: yelp, zipcode: zipcode, logger: logger}
}

func (v *Validator) IsValid(ctx context.Context, location string) bool {
	businesses, err := v.yelp.Search(ctx, location, probeTerm, probeLimit)
	if err == nil && len(businesses) > 0 {
		return true
	}
	if err != nil {
		v.logger.Debug().Err(err).Str("location", location).Msg("Location probe failed, trying postal-code fallback")
	}

	city, err := v.zipcode.CityForZip(ctx, location)
	if err != nil {
		v.logger.Debug().Err(err).Str("location", location).Msg("Postal-code fallback failed")
		return false
	}
	return city != ""
}
