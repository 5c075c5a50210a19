package search

import "errors"

// Search parameters fixed by the product: businesses within 6500 m, at most
// 20 candidates for the random pick, and a 1-result probe for location
// validation.
const (
	searchRadius = 6500
	resultLimit  = 20
	probeLimit   = 1
	probeTerm    = "food"
)

var (
	ErrUpstream  = errors.New("upstream search failed")
	ErrNoResults = errors.New("no restaurants found")
)

// Categories is the category choice list offered on the search form. Values
// are Yelp category aliases, passed through as the search term.
var Categories = []string{
	"mexican",
	"chinese",
	"italian",
	"pizza",
	"burgers",
	"sushi",
	"thai",
	"indian",
	"bbq",
	"breakfast_brunch",
	"seafood",
	"vegan",
}

type (
	// Business is the subset of a Yelp search hit this app consumes.
	Business struct {
		Name     string `json:"name"`
		Location struct {
			DisplayAddress []string `json:"display_address"`
		} `json:"location"`
		ImageURL     string `json:"image_url"`
		DisplayPhone string `json:"display_phone"`
		URL          string `json:"url"`
	}

	// SearchForm carries the search form fields. An empty category means
	// an unconstrained search.
	SearchForm struct {
		Location string `validate:"required,max=80"`
		Category string `validate:"omitempty,oneof=mexican chinese italian pizza burgers sushi thai indian bbq breakfast_brunch seafood vegan"`
	}
)
