package liststore

import (
	"context"

	"github.com/Undertaker4032/secret-lab-app/internal/filters"
	"github.com/Undertaker4032/secret-lab-app/internal/i18n"
	"github.com/Undertaker4032/secret-lab-app/internal/model"
	"github.com/Undertaker4032/secret-lab-app/internal/observable"
)

// EmployeeLister is implemented by the API client.
type EmployeeLister interface {
	GetEmployees(ctx context.Context, set filters.Set) (*model.Page[model.Employee], error)
}

// DocumentationLister is implemented by the API client.
type DocumentationLister interface {
	GetDocumentation(ctx context.Context, set filters.Set) (*model.Page[model.Documentation], error)
}

// ResearchLister is implemented by the API client.
type ResearchLister interface {
	GetResearch(ctx context.Context, set filters.Set) (*model.Page[model.Research], error)
}

// Employees is the employee directory store with its active/inactive split.
type Employees struct {
	*Store[model.Employee]

	Active   *observable.Derived[[]model.Employee]
	Inactive *observable.Derived[[]model.Employee]
}

// NewEmployees creates the employee directory store.
func NewEmployees(src EmployeeLister, loc *i18n.Localizer, opts ...Option) *Employees {
	opts = append([]Option{WithErrorMessage(localizer(loc).T(i18n.EmployeesLoadFailed))}, opts...)
	store := New[model.Employee](filters.Employees, src.GetEmployees, opts...)
	return &Employees{
		Store:    store,
		Active:   observable.Derive[[]model.Employee](store.Items, partition(true)),
		Inactive: observable.Derive[[]model.Employee](store.Items, partition(false)),
	}
}

// Stop detaches the derived views.
func (e *Employees) Stop() {
	e.Active.Stop()
	e.Inactive.Stop()
}

func partition(active bool) func([]model.Employee) []model.Employee {
	return func(items []model.Employee) []model.Employee {
		out := []model.Employee{}
		for _, e := range items {
			if e.IsActive == active {
				out = append(out, e)
			}
		}
		return out
	}
}

// NewDocumentation creates the document library store.
func NewDocumentation(src DocumentationLister, loc *i18n.Localizer, opts ...Option) *Store[model.Documentation] {
	opts = append([]Option{WithErrorMessage(localizer(loc).T(i18n.DocumentationLoadFailed))}, opts...)
	return New[model.Documentation](filters.Documentation, src.GetDocumentation, opts...)
}

// NewResearch creates the research registry store.
func NewResearch(src ResearchLister, loc *i18n.Localizer, opts ...Option) *Store[model.Research] {
	opts = append([]Option{WithErrorMessage(localizer(loc).T(i18n.ResearchLoadFailed))}, opts...)
	return New[model.Research](filters.Research, src.GetResearch, opts...)
}

func localizer(loc *i18n.Localizer) *i18n.Localizer {
	if loc == nil {
		return i18n.Default()
	}
	return loc
}
