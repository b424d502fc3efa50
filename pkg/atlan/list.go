package atlan

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// DefaultListLimit is the page size of user, group and role listings.
const DefaultListLimit = 20

// ListOptions narrows and orders a user, group or role listing.
type ListOptions struct {
	Limit   int      // page size, default DefaultListLimit
	Filter  string   // JSON filter, see Filter
	Sort    string   // attribute to sort on, prefixed with "-" for descending
	Columns []string // attributes to return
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

func (o ListOptions) query(offset, limit int) url.Values {
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
		"count":  {"true"},
	}
	if o.Filter != "" {
		q.Set("filter", o.Filter)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if len(o.Columns) > 0 {
		q.Set("columns", strings.Join(o.Columns, ","))
	}
	return q
}

// Filter encodes a listing filter, for example
//
//	atlan.Filter(map[string]any{"email": map[string]string{"$ilike": "%@acme.com"}})
func Filter(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
