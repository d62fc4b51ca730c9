package sorttable

import "go.uber.org/zap"

// DefaultPageSize is the number of records loaded per page.
const DefaultPageSize = 30

// Options for New.
type Options struct {
	// Source provides the records.
	// A nil Source makes a static table
	// of the pre-seeded Records that is sorted locally.
	Source PageLoader
	// SortLocally sorts the record buffer with a Comparator
	// instead of requesting sorted pages from Source.
	// If Source is set, the first page is loaded unsorted on Init
	// and no further pages are loaded on scroll.
	SortLocally bool
	// Sorted is the initial sort state.
	Sorted SortState
	// PageSize defaults to DefaultPageSize.
	PageSize int
	// ScrollMargin defaults to DefaultScrollMargin.
	ScrollMargin float64
	// Records pre-seed the buffer.
	Records []Record
	// View defaults to NopView.
	View View
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ScrollMargin <= 0 {
		opts.ScrollMargin = DefaultScrollMargin
	}
	if opts.View == nil {
		opts.View = NopView{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}
