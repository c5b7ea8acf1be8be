package utils

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PageSize is the fixed number of items per page.
const PageSize = 5

// Page is the paginated response envelope.
type Page struct {
	Total    int64       `json:"total"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// ParsePage reads the page query param, defaulting to the first page.
func ParsePage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page <= 0 {
		return 1
	}
	return page
}

// Offset converts a page number into a record offset.
func Offset(page int) int {
	return (page - 1) * PageSize
}

// NewPage assembles the response envelope with next/previous links for the
// current request path.
func NewPage(c *fiber.Ctx, page int, total int64, results interface{}) Page {
	next, previous := PageLinks(c.BaseURL()+c.Path(), page, total)
	return Page{Total: total, Next: next, Previous: previous, Results: results}
}

// PageLinks computes the next and previous page URLs, nil when absent.
func PageLinks(base string, page int, total int64) (next, previous *string) {
	if int64(page*PageSize) < total {
		link := fmt.Sprintf("%s?page=%d", base, page+1)
		next = &link
	}
	if page > 1 {
		link := fmt.Sprintf("%s?page=%d", base, page-1)
		previous = &link
	}
	return next, previous
}
