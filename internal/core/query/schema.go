package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrashScope selects how soft-deleted rows take part in a query.
type TrashScope int

const (
	TrashActive TrashScope = iota // deleted rows excluded (default)
	TrashWith                     // deleted rows included alongside active ones
	TrashOnly                     // deleted rows exclusively
)

type FilterKind int

const (
	FilterExact FilterKind = iota
	FilterScope
	FilterSearch
	FilterDateRange
)

// AllowedFilter is one entry of a declarative filter allow-list.
type AllowedFilter struct {
	Name         string
	Kind         FilterKind
	Field        string
	SearchFields []string
}

// Exact matches a field against one or more literal values, OR'ed.
func Exact(field string) AllowedFilter {
	return AllowedFilter{Name: field, Kind: FilterExact, Field: field}
}

// Scoped activates a named parameterless predicate when the parameter
// carries a truthy value.
func Scoped(name string) AllowedFilter {
	return AllowedFilter{Name: name, Kind: FilterScope}
}

// Search matches a single term as a case-insensitive substring across the
// given fields, OR'ed among themselves and AND'ed with other filters.
func Search(name string, fields ...string) AllowedFilter {
	return AllowedFilter{Name: name, Kind: FilterSearch, SearchFields: fields}
}

// DateRange bounds a field between two timestamps, given either as two
// values or one comma-separated pair.
func DateRange(field string) AllowedFilter {
	return AllowedFilter{Name: field, Kind: FilterDateRange, Field: field}
}

// Schema is the full allow-list for one listing endpoint.
type Schema struct {
	Filters     []AllowedFilter
	Sorts       []string
	Includes    []string
	DefaultSort string
}

type Range struct {
	From time.Time
	To   time.Time
}

type Sort struct {
	Field string
	Desc  bool
}

type SearchClause struct {
	Fields []string
	Term   string
}

// Criteria is the normalized outcome of resolving request parameters
// against a Schema. Repositories translate it into storage queries.
type Criteria struct {
	Exact       map[string][]string
	Scopes      []string
	Searches    []SearchClause
	Ranges      map[string]Range
	Sort        Sort
	Includes    []string
	Trash       TrashScope
	SelectedIDs []uuid.UUID
	Page        Page
}

func (c Criteria) hasScope(name string) bool {
	for _, s := range c.Scopes {
		if s == name {
			return true
		}
	}
	return false
}

func (c Criteria) HasInclude(name string) bool {
	for _, inc := range c.Includes {
		if inc == name {
			return true
		}
	}
	return false
}

// Parameters the parser consumes itself; everything else must resolve
// against the filter allow-list.
var reservedKeys = map[string]bool{
	"sort":         true,
	"direction":    true,
	"include":      true,
	"page":         true,
	"per_page":     true,
	"page[size]":   true,
	"page[number]": true,
	"trashed":      true,
	"only_trashed": true,
	"deleted_mode": true,
}

// Parse resolves incoming query parameters against the schema. Unknown
// filter, sort and include keys and malformed date ranges are rejected;
// the caller surfaces them as a 400.
func (s Schema) Parse(params url.Values) (Criteria, error) {
	c := Criteria{
		Exact:  make(map[string][]string),
		Ranges: make(map[string]Range),
		Trash:  parseTrashScope(params),
	}

	if err := s.parseSort(params, &c); err != nil {
		return Criteria{}, err
	}
	if err := s.parseIncludes(params, &c); err != nil {
		return Criteria{}, err
	}

	// Deterministic order keeps error reporting stable.
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		key := strings.TrimSuffix(rawKey, "[]")
		if reservedKeys[key] {
			continue
		}

		values := cleanValues(params[rawKey])
		if len(values) == 0 {
			continue
		}

		filter, ok := s.lookupFilter(key)
		if !ok {
			return Criteria{}, &UnknownKeyError{Kind: "filter", Key: key}
		}

		switch filter.Kind {
		case FilterExact:
			c.Exact[filter.Field] = append(c.Exact[filter.Field], values...)
		case FilterScope:
			if truthy(values[0]) {
				c.Scopes = append(c.Scopes, filter.Name)
			}
		case FilterSearch:
			c.Searches = append(c.Searches, SearchClause{Fields: filter.SearchFields, Term: values[0]})
		case FilterDateRange:
			r, err := parseRange(key, values)
			if err != nil {
				return Criteria{}, err
			}
			c.Ranges[filter.Field] = r
		}
	}

	return c, nil
}

func (s Schema) lookupFilter(name string) (AllowedFilter, bool) {
	for _, f := range s.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return AllowedFilter{}, false
}

func (s Schema) parseSort(params url.Values, c *Criteria) error {
	raw := strings.TrimSpace(params.Get("sort"))
	if raw == "" {
		raw = s.DefaultSort
	}

	field := raw
	desc := false
	if strings.HasPrefix(raw, "-") {
		field = raw[1:]
		desc = true
	}
	if strings.EqualFold(params.Get("direction"), "desc") {
		desc = true
	}

	allowed := false
	for _, name := range s.Sorts {
		if name == field {
			allowed = true
			break
		}
	}
	if !allowed {
		return &UnknownKeyError{Kind: "sort", Key: field}
	}

	c.Sort = Sort{Field: field, Desc: desc}
	return nil
}

func (s Schema) parseIncludes(params url.Values, c *Criteria) error {
	var requested []string
	for _, raw := range params["include"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				requested = append(requested, name)
			}
		}
	}

	for _, name := range requested {
		allowed := false
		for _, inc := range s.Includes {
			if inc == name {
				allowed = true
				break
			}
		}
		if !allowed {
			return &UnknownKeyError{Kind: "include", Key: name}
		}
		if !c.HasInclude(name) {
			c.Includes = append(c.Includes, name)
		}
	}
	return nil
}

// parseTrashScope reads the soft-delete toggles. only_trashed wins when
// both are set; deleted_mode is an alias for trashed kept for the
// frontend's deleted view.
func parseTrashScope(params url.Values) TrashScope {
	if truthy(params.Get("only_trashed")) {
		return TrashOnly
	}
	if truthy(params.Get("trashed")) || truthy(params.Get("deleted_mode")) {
		return TrashWith
	}
	return TrashActive
}

func parseRange(key string, values []string) (Range, error) {
	parts := values
	if len(parts) == 1 {
		parts = strings.Split(parts[0], ",")
	}
	if len(parts) != 2 {
		return Range{}, &MalformedFilterError{Key: key, Reason: "expected exactly two values"}
	}

	from, err := parseTime(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, &MalformedFilterError{Key: key, Reason: "invalid start date"}
	}
	to, err := parseTime(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, &MalformedFilterError{Key: key, Reason: "invalid end date"}
	}
	if to.Before(from) {
		return Range{}, &MalformedFilterError{Key: key, Reason: "end date before start date"}
	}

	return Range{From: from, To: to}, nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

func parseTime(value string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ValuesFromMap converts a JSON filters object, as posted to the export
// endpoint, into the url.Values shape Parse expects.
func ValuesFromMap(filters map[string]any) url.Values {
	params := url.Values{}
	for key, value := range filters {
		switch v := value.(type) {
		case string:
			params.Add(key, v)
		case bool:
			if v {
				params.Add(key, "true")
			}
		case float64:
			params.Add(key, formatJSONNumber(v))
		case []any:
			for _, item := range v {
				switch elem := item.(type) {
				case string:
					params.Add(key, elem)
				case float64:
					params.Add(key, formatJSONNumber(elem))
				}
			}
		}
	}
	return params
}

func formatJSONNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
