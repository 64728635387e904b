package domain

// SearchStatus classifies the outcome of a fuzzy product search
type SearchStatus string

const (
	StatusFound    SearchStatus = "found"
	StatusNotFound SearchStatus = "not_found"
	StatusNoQuery  SearchStatus = "no_query" // query had no words
)

// SearchResult is the ordered, de-duplicated list of "name by brand" labels
// produced by a fuzzy search. Products is never nil.
type SearchResult struct {
	Products []string     `json:"products"`
	Status   SearchStatus `json:"-"`
}

// Message returns the human readable summary sent to clients
func (r *SearchResult) Message() string {
	switch r.Status {
	case StatusFound:
		return "Products found"
	case StatusNoQuery:
		return "Please provide a valid product name"
	default:
		return "No products found"
	}
}
