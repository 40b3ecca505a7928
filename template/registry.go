package template

import (
	"fmt"
	"sort"

	"github.com/orayew2002/paperwork/domain"
)

// Capacities are the row counts of the current template generation.
type Capacities struct {
	Cars         int
	InlineLoads  int
	OverflowRows int
}

// Registry holds document type → layout mappings. It is built once at
// startup and only read afterwards.
type Registry struct {
	layouts map[domain.DocumentType]Layout
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{layouts: make(map[domain.DocumentType]Layout)}
}

// NewDefault registers the built-in loadsheet and timesheet layouts and
// validates them.
func NewDefault(c Capacities) (*Registry, error) {
	r := New()
	r.Register(DefaultLoadsheet(c.Cars))
	r.Register(DefaultTimesheet(c.InlineLoads, c.OverflowRows))
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds or replaces the layout for its document type.
func (r *Registry) Register(l Layout) {
	r.layouts[l.Document()] = l
}

// Lookup returns the layout for doc.
func (r *Registry) Lookup(doc domain.DocumentType) (Layout, error) {
	l, ok := r.layouts[doc]
	if !ok {
		return nil, &domain.FieldError{Field: "document_type", Reason: fmt.Sprintf("no layout for %q", doc)}
	}
	return l, nil
}

// Loadsheet returns the registered loadsheet layout.
func (r *Registry) Loadsheet() (*LoadsheetLayout, error) {
	l, err := r.Lookup(domain.Loadsheet)
	if err != nil {
		return nil, err
	}
	ls, ok := l.(*LoadsheetLayout)
	if !ok {
		return nil, fmt.Errorf("loadsheet layout has type %T", l)
	}
	return ls, nil
}

// Timesheet returns the registered timesheet layout.
func (r *Registry) Timesheet() (*TimesheetLayout, error) {
	l, err := r.Lookup(domain.Timesheet)
	if err != nil {
		return nil, err
	}
	ts, ok := l.(*TimesheetLayout)
	if !ok {
		return nil, fmt.Errorf("timesheet layout has type %T", l)
	}
	return ts, nil
}

// Layouts returns every registered layout, ordered by document type.
func (r *Registry) Layouts() []Layout {
	docs := make([]domain.DocumentType, 0, len(r.layouts))
	for doc := range r.layouts {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })

	out := make([]Layout, 0, len(docs))
	for _, doc := range docs {
		out = append(out, r.layouts[doc])
	}
	return out
}

// Validate validates every registered layout.
func (r *Registry) Validate() error {
	for doc, l := range r.layouts {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("layout %s: %w", doc, err)
		}
	}
	return nil
}
