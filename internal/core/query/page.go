package query

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPageSize is the generic listing default; task endpoints use
	// the larger DefaultTaskPageSize. The asymmetry is deliberate.
	DefaultPageSize     = 15
	DefaultTaskPageSize = 25
	MaxPageSize         = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage reads both parameter shapes: flat (per_page, page) and
// structured (page[size], page[number]). The structured form wins when
// both are present. Non-positive sizes fall back to defaultSize and the
// size is capped at MaxPageSize.
func ParsePage(params url.Values, defaultSize int) Page {
	size := intParam(params, "per_page", defaultSize)
	if params.Has("page[size]") {
		size = intParam(params, "page[size]", size)
	}

	number := intParam(params, "page", 1)
	if params.Has("page[number]") {
		number = intParam(params, "page[number]", number)
	}

	if size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if number < 1 {
		number = 1
	}

	return Page{Number: number, Size: size}
}

func intParam(params url.Values, key string, fallback int) int {
	raw := params.Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Meta describes where a page sits inside the full filtered set.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
	Total       int64 `json:"total"`
}

// NewMeta computes page metadata for a page request against total matching
// rows. Pages past the end are valid and yield From/To of zero.
func NewMeta(p Page, total int64) Meta {
	lastPage := int((total + int64(p.Size) - 1) / int64(p.Size))
	if lastPage < 1 {
		lastPage = 1
	}

	onPage := total - int64(p.Offset())
	if onPage > int64(p.Size) {
		onPage = int64(p.Size)
	}

	meta := Meta{
		CurrentPage: p.Number,
		LastPage:    lastPage,
		PerPage:     p.Size,
		Total:       total,
	}
	if onPage > 0 {
		meta.From = p.Offset() + 1
		meta.To = p.Offset() + int(onPage)
	}
	return meta
}
