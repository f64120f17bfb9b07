package rows

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultLimit is the page size used when none is requested.
const DefaultLimit = 50

// AllSentinel disables limit and offset.
const AllSentinel = "all"

// ErrInvalidPagination is returned for malformed page or limit values.
var ErrInvalidPagination = errors.New("invalid pagination")

// Limit is either a positive row cap or "all".
type Limit struct {
	N   int
	All bool
}

// LimitAll is the "no limit" value.
var LimitAll = Limit{All: true}

// String renders the limit as it appears in a query string.
func (l Limit) String() string {
	if l.All {
		return AllSentinel
	}
	return strconv.Itoa(l.N)
}

// MarshalJSON renders a number, or the string "all".
func (l Limit) MarshalJSON() ([]byte, error) {
	if l.All {
		return json.Marshal(AllSentinel)
	}
	return json.Marshal(l.N)
}

// PageRequest selects a page of rows.
type PageRequest struct {
	Page  int
	Limit Limit
}

// Offset returns the number of rows skipped before this page.
func (r PageRequest) Offset() int {
	if r.Limit.All {
		return 0
	}
	return (r.Page - 1) * r.Limit.N
}

// ParsePageRequest parses request-supplied page and limit strings. Empty
// strings take defaults (page 1, defaultLimit rows). Anything other than a
// positive base-10 integer, or "all" for the limit, is rejected.
func ParsePageRequest(page, limit string, defaultLimit int) (PageRequest, error) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	req := PageRequest{Page: 1, Limit: Limit{N: defaultLimit}}

	if page = strings.TrimSpace(page); page != "" {
		n, err := parsePositive(page)
		if err != nil {
			return PageRequest{}, fmt.Errorf("%w: page %q must be a positive integer", ErrInvalidPagination, page)
		}
		req.Page = n
	}

	if limit = strings.TrimSpace(limit); limit != "" {
		if strings.EqualFold(limit, AllSentinel) {
			req.Limit = LimitAll
			return req, nil
		}
		n, err := parsePositive(limit)
		if err != nil {
			return PageRequest{}, fmt.Errorf("%w: limit %q must be a positive integer or %q", ErrInvalidPagination, limit, AllSentinel)
		}
		req.Limit = Limit{N: n}
	}

	// The offset (page-1)*limit must fit in an int.
	if req.Page-1 > math.MaxInt/req.Limit.N {
		return PageRequest{}, fmt.Errorf("%w: page %d is out of range for limit %d", ErrInvalidPagination, req.Page, req.Limit.N)
	}

	return req, nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// Pagination is the metadata reported alongside a page of rows.
type Pagination struct {
	Page  int   `json:"page"`
	Limit Limit `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes page counts for a request and a row total.
// Pages is never less than 1.
func NewPagination(req PageRequest, total int64) Pagination {
	pages := int64(1)
	if !req.Limit.All && req.Limit.N > 0 {
		limit := int64(req.Limit.N)
		pages = total / limit
		if total%limit != 0 {
			pages++
		}
	}
	if pages < 1 {
		pages = 1
	}
	return Pagination{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
		Pages: pages,
	}
}
