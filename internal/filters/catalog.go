package filters

// Common keys shared by every list resource.
const (
	KeySearch   = "search"
	KeyOrdering = "ordering"
)

// SortOption is one allowed ordering directive and its display label.
type SortOption struct {
	Value string
	Label string
}

// Catalog describes which constraints a list resource accepts.
type Catalog struct {
	Resource    string
	Path        string
	Keys        []string
	SortOptions []SortOption
}

// Allows reports whether key is accepted by the resource.
func (c Catalog) Allows(key string) bool {
	for _, k := range c.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// AllowsOrdering reports whether value is one of the resource's sort options.
func (c Catalog) AllowsOrdering(value string) bool {
	for _, o := range c.SortOptions {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Restrict drops constraints the resource does not accept, including unknown
// ordering directives.
func (c Catalog) Restrict(s Set) Set {
	out := s
	for _, p := range s.pairs {
		if !c.Allows(p.Key) || (p.Key == KeyOrdering && !c.AllowsOrdering(p.Value)) {
			out = out.Without(p.Key)
		}
	}
	return out
}

// Employees is the employee directory catalog.
var Employees = Catalog{
	Resource: "employees",
	Path:     "/api/employees/",
	Keys:     []string{"is_active", "cluster", "department", "division", "position", "clearance_level", KeySearch, KeyOrdering},
	SortOptions: []SortOption{
		{Value: "name", Label: "По имени (А-Я)"},
		{Value: "-name", Label: "По имени (Я-А)"},
		{Value: "clearance_level__number", Label: "По уровню допуска (возр.)"},
		{Value: "-clearance_level__number", Label: "По уровню допуска (убыв.)"},
		{Value: "division__department__cluster__name", Label: "По кластеру (А-Я)"},
		{Value: "-division__department__cluster__name", Label: "По кластеру (Я-А)"},
		{Value: "division__name", Label: "По отделу (А-Я)"},
		{Value: "-division__name", Label: "По отделу (Я-А)"},
		{Value: "position__name", Label: "По должности (А-Я)"},
		{Value: "-position__name", Label: "По должности (Я-А)"},
	},
}

// Documentation is the document library catalog.
var Documentation = Catalog{
	Resource: "documentation",
	Path:     "/api/documentation/",
	Keys:     []string{"type__name", "author__division__name", "required_clearance__number", "created_date", KeySearch, KeyOrdering},
	SortOptions: []SortOption{
		{Value: "title", Label: "По названию (А-Я)"},
		{Value: "-title", Label: "По названию (Я-А)"},
		{Value: "author__division__name", Label: "По отделу автора (А-Я)"},
		{Value: "-author__division__name", Label: "По отделу автора (Я-А)"},
		{Value: "type__name", Label: "По типу (А-Я)"},
		{Value: "-type__name", Label: "По типу (Я-А)"},
		{Value: "required_clearance__number", Label: "По уровню допуска (возр.)"},
		{Value: "-required_clearance__number", Label: "По уровню допуска (убыв.)"},
		{Value: "created_date", Label: "По дате создания (сначала старые)"},
		{Value: "-created_date", Label: "По дате создания (сначала новые)"},
		{Value: "updated_date", Label: "По дате обновления (сначала старые)"},
		{Value: "-updated_date", Label: "По дате обновления (сначала новые)"},
	},
}

// Research is the research registry catalog.
var Research = Catalog{
	Resource: "research",
	Path:     "/api/research/",
	Keys:     []string{"lead__division__name", "status__name", "required_clearance__number", "created_date", KeySearch, KeyOrdering},
	SortOptions: []SortOption{
		{Value: "title", Label: "По названию (А-Я)"},
		{Value: "-title", Label: "По названию (Я-А)"},
		{Value: "lead__division__name", Label: "По отделу руководителя (А-Я)"},
		{Value: "-lead__division__name", Label: "По отделу руководителя (Я-А)"},
		{Value: "status__name", Label: "По статусу (А-Я)"},
		{Value: "-status__name", Label: "По статусу (Я-А)"},
		{Value: "required_clearance__number", Label: "По уровню допуска (возр.)"},
		{Value: "-required_clearance__number", Label: "По уровню допуска (убыв.)"},
		{Value: "created_date", Label: "По дате создания (сначала старые)"},
		{Value: "-created_date", Label: "По дате создания (сначала новые)"},
		{Value: "updated_date", Label: "По дате обновления (сначала старые)"},
		{Value: "-updated_date", Label: "По дате обновления (сначала новые)"},
	},
}
