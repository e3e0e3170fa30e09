package pagination

import "strconv"

const DefaultPage = 1

// Pagination carries the requested page through to the rendered links.
// Result sets are not sliced by page.
type Pagination struct {
	CurrentPage int
}

func New(raw string) *Pagination {
	return &Pagination{
		CurrentPage: ParsePage(raw),
	}
}

// ParsePage returns DefaultPage for an empty, non-numeric or non-positive value.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}
