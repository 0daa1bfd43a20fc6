package fakeapi

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

const defaultPageSize = 20

// listing describes how a collection is filtered and ordered.
type listing[T any] struct {
	fields map[string]func(T) string
	search func(T) string
}

// apply filters, orders and paginates items according to r's query.
func (l listing[T]) apply(r *http.Request, items []T) model.Page[T] {
	q := r.URL.Query()

	out := make([]T, 0, len(items))
	for _, item := range items {
		if l.matches(q, item) {
			out = append(out, item)
		}
	}

	if ordering := q.Get("ordering"); ordering != "" {
		key := strings.TrimPrefix(ordering, "-")
		desc := strings.HasPrefix(ordering, "-")
		if field, ok := l.fields[key]; ok {
			sort.SliceStable(out, func(i, j int) bool {
				if desc {
					return field(out[j]) < field(out[i])
				}
				return field(out[i]) < field(out[j])
			})
		}
	}

	return paginate(r, out)
}

func (l listing[T]) matches(q url.Values, item T) bool {
	for key, field := range l.fields {
		want := q.Get(key)
		if want == "" {
			continue
		}
		if !strings.EqualFold(strings.TrimLeft(field(item), "0"), strings.TrimLeft(want, "0")) {
			return false
		}
	}
	if term := q.Get("search"); term != "" && l.search != nil {
		if !strings.Contains(strings.ToLower(l.search(item)), strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func paginate[T any](r *http.Request, items []T) model.Page[T] {
	q := r.URL.Query()
	size, err := strconv.Atoi(q.Get("page_size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page <= 0 {
		page = 1
	}

	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	result := model.Page[T]{Count: len(items), Results: items[start:end]}
	if end < len(items) {
		result.Next = pageLink(r, page+1)
	}
	if page > 1 {
		result.Previous = pageLink(r, page-1)
	}
	return result
}

func pageLink(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

// number renders n so that string order matches numeric order.
func number(n int) string {
	return fmt.Sprintf("%08d", n)
}

func (s *Server) employeeListing() listing[model.Employee] {
	return listing[model.Employee]{
		fields: map[string]func(model.Employee) string{
			"is_active": func(e model.Employee) string { return strconv.FormatBool(e.IsActive) },
			"cluster": func(e model.Employee) string {
				if e.Cluster == nil {
					return ""
				}
				return number(e.Cluster.ID)
			},
			"department": func(e model.Employee) string {
				if e.Department == nil {
					return ""
				}
				return number(e.Department.ID)
			},
			"division": func(e model.Employee) string {
				if e.Division == nil {
					return ""
				}
				return number(e.Division.ID)
			},
			"position": func(e model.Employee) string {
				if e.Position == nil {
					return ""
				}
				return number(e.Position.ID)
			},
			"name": func(e model.Employee) string { return e.Name },
			"division__name": func(e model.Employee) string {
				if e.Division == nil {
					return ""
				}
				return e.Division.Name
			},
			"position__name": func(e model.Employee) string {
				if e.Position == nil {
					return ""
				}
				return e.Position.Name
			},
			"division__department__cluster__name": func(e model.Employee) string {
				if e.Cluster == nil {
					return ""
				}
				return e.Cluster.Name
			},
			"clearance_level": func(e model.Employee) string {
				if e.ClearanceLevel == nil {
					return ""
				}
				return number(e.ClearanceLevel.ID)
			},
			"clearance_level__number": func(e model.Employee) string {
				if e.ClearanceLevel == nil {
					return ""
				}
				return number(e.ClearanceLevel.Number)
			},
		},
		search: func(e model.Employee) string { return e.Name },
	}
}

func (s *Server) documentListing() listing[model.Documentation] {
	return listing[model.Documentation]{
		fields: map[string]func(model.Documentation) string{
			"title":                      func(d model.Documentation) string { return d.Title },
			"type__name":                 func(d model.Documentation) string { return d.TypeName },
			"author__division__name":     func(d model.Documentation) string { return s.data.divisionOf(d.Author) },
			"required_clearance__number": func(d model.Documentation) string { return number(s.data.clearanceNumber(d.RequiredClearance)) },
			"created_date":               func(d model.Documentation) string { return d.CreatedDate },
			"updated_date":               func(d model.Documentation) string { return d.UpdatedDate },
		},
		search: func(d model.Documentation) string { return d.Title + " " + d.Content },
	}
}

func (s *Server) researchListing() listing[model.Research] {
	return listing[model.Research]{
		fields: map[string]func(model.Research) string{
			"title":                      func(r model.Research) string { return r.Title },
			"status__name":               func(r model.Research) string { return r.StatusName },
			"lead__division__name":       func(r model.Research) string { return s.data.divisionOf(r.Lead) },
			"required_clearance__number": func(r model.Research) string { return number(s.data.clearanceNumber(r.RequiredClearance)) },
			"created_date":               func(r model.Research) string { return r.CreatedDate },
			"updated_date":               func(r model.Research) string { return r.UpdatedDate },
		},
		search: func(r model.Research) string { return r.Title },
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.employeeListing().apply(r, s.data.employees))
}

func (s *Server) handleEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, ok := s.data.employee(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.EmployeeID == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Employee profile not found"})
		return
	}
	e, ok := s.data.employee(*user.EmployeeID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Employee profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleEmployeeFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.EmployeeFilters{
		Clusters:        s.data.clusters,
		Departments:     s.data.departments,
		Divisions:       s.data.divisions,
		Positions:       s.data.positions,
		ClearanceLevels: s.data.clearanceLevels,
	})
}

// Some vocabularies are paginated and some are bare arrays, as in production.

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paginate(r, s.data.clusters))
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.departments)
}

func (s *Server) handleDivisions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.divisions)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.positions)
}

func (s *Server) handleClearanceLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, paginate(r, s.data.clearanceLevels))
}

func (s *Server) handleDocumentation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.documentListing().apply(r, s.data.documents))
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	for _, d := range s.data.documents {
		if d.ID == id {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.documentTypes)
}

func (s *Server) handleResearchList(w http.ResponseWriter, r *http.Request) {
	summaries := make([]model.Research, 0, len(s.data.research))
	for _, item := range s.data.research {
		summaries = append(summaries, s.data.researchSummary(item))
	}
	writeJSON(w, http.StatusOK, s.researchListing().apply(r, summaries))
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	for _, item := range s.data.research {
		if item.ID == id {
			writeJSON(w, http.StatusOK, item)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleResearchStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.researchStatus)
}
