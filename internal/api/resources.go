package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/Undertaker4032/secret-lab-app/internal/filters"
	"github.com/Undertaker4032/secret-lab-app/internal/model"
)

// Lookup endpoints
const (
	PathEmployeeFilters  = "/api/employees/employee-filters/"
	PathClusters         = "/api/employees/clusters/"
	PathDepartments      = "/api/employees/departments/"
	PathDivisions        = "/api/employees/divisions/"
	PathPositions        = "/api/employees/positions/"
	PathClearanceLevels  = "/api/employees/clearance-level/"
	PathDocumentTypes    = "/api/documentation/document-types/"
	PathResearchStatuses = "/api/research/research-statuses/"
)

// Get issues a GET and decodes the result into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

func getPage[T any](ctx context.Context, c *Client, base string, set filters.Set) (*model.Page[T], error) {
	var page model.Page[T]
	if err := c.Get(ctx, filters.BuildURL(base, set), &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return &page, nil
}

// GetEmployees fetches one page of the employee directory.
func (c *Client) GetEmployees(ctx context.Context, set filters.Set) (*model.Page[model.Employee], error) {
	return getPage[model.Employee](ctx, c, filters.Employees.Path, set)
}

// GetEmployeeByID fetches one employee.
func (c *Client) GetEmployeeByID(ctx context.Context, id int) (*model.Employee, error) {
	var e model.Employee
	if err := c.Get(ctx, fmt.Sprintf("%s%d/", filters.Employees.Path, id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetDocumentation fetches one page of the document library.
func (c *Client) GetDocumentation(ctx context.Context, set filters.Set) (*model.Page[model.Documentation], error) {
	return getPage[model.Documentation](ctx, c, filters.Documentation.Path, set)
}

// GetDocumentationObject fetches one document.
func (c *Client) GetDocumentationObject(ctx context.Context, id int) (*model.DocumentObject, error) {
	var d model.DocumentObject
	if err := c.Get(ctx, fmt.Sprintf("%s%d/", filters.Documentation.Path, id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetResearch fetches one page of the research registry.
func (c *Client) GetResearch(ctx context.Context, set filters.Set) (*model.Page[model.Research], error) {
	return getPage[model.Research](ctx, c, filters.Research.Path, set)
}

// GetResearchObject fetches one research project.
func (c *Client) GetResearchObject(ctx context.Context, id int) (*model.ResearchObject, error) {
	var r model.ResearchObject
	if err := c.Get(ctx, fmt.Sprintf("%s%d/", filters.Research.Path, id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// lookup fetches a vocabulary endpoint. Concurrent requests for the same path
// share one call. The shared call is not cancelled when one caller's ctx ends.
func (c *Client) lookup(ctx context.Context, path string) (json.RawMessage, error) {
	ch := c.lookups.DoChan(path, func() (any, error) {
		var raw json.RawMessage
		err := c.Get(context.WithoutCancel(ctx), path, &raw)
		return raw, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

// lookupList fetches a vocabulary that is served either as a bare array or as
// a paginated object.
func lookupList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	raw, err := c.lookup(ctx, path)
	if err != nil {
		return nil, err
	}

	items := []T{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &Error{Kind: KindMalformed, Status: http.StatusOK, Detail: "failed to parse " + path, Err: err}
		}
		return items, nil
	}

	var page model.Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, &Error{Kind: KindMalformed, Status: http.StatusOK, Detail: "failed to parse " + path, Err: err}
	}
	if page.Results != nil {
		items = page.Results
	}
	return items, nil
}

// GetEmployeeFilters fetches every employee filter vocabulary in one call.
func (c *Client) GetEmployeeFilters(ctx context.Context) (*model.EmployeeFilters, error) {
	raw, err := c.lookup(ctx, PathEmployeeFilters)
	if err != nil {
		return nil, err
	}
	var f model.EmployeeFilters
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, &Error{Kind: KindMalformed, Status: http.StatusOK, Detail: "failed to parse employee filters", Err: err}
	}
	return &f, nil
}

// GetClusters lists clusters.
func (c *Client) GetClusters(ctx context.Context) ([]model.Cluster, error) {
	return lookupList[model.Cluster](ctx, c, PathClusters)
}

// GetDepartments lists departments.
func (c *Client) GetDepartments(ctx context.Context) ([]model.Department, error) {
	return lookupList[model.Department](ctx, c, PathDepartments)
}

// GetDivisions lists divisions.
func (c *Client) GetDivisions(ctx context.Context) ([]model.Division, error) {
	return lookupList[model.Division](ctx, c, PathDivisions)
}

// GetPositions lists positions.
func (c *Client) GetPositions(ctx context.Context) ([]model.Position, error) {
	return lookupList[model.Position](ctx, c, PathPositions)
}

// GetClearanceLevels lists clearance levels.
func (c *Client) GetClearanceLevels(ctx context.Context) ([]model.ClearanceLevel, error) {
	return lookupList[model.ClearanceLevel](ctx, c, PathClearanceLevels)
}

// GetDocumentTypes lists document types.
func (c *Client) GetDocumentTypes(ctx context.Context) ([]model.DocumentType, error) {
	return lookupList[model.DocumentType](ctx, c, PathDocumentTypes)
}

// GetResearchStatuses lists research statuses.
func (c *Client) GetResearchStatuses(ctx context.Context) ([]model.ResearchStatus, error) {
	return lookupList[model.ResearchStatus](ctx, c, PathResearchStatuses)
}

// LoadEmployeeVocabularies fetches the five employee vocabularies from their
// individual endpoints in parallel. The first failure cancels the rest.
func (c *Client) LoadEmployeeVocabularies(ctx context.Context) (*model.EmployeeFilters, error) {
	var f model.EmployeeFilters
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		f.Clusters, err = c.GetClusters(gctx)
		return err
	})
	g.Go(func() (err error) {
		f.Departments, err = c.GetDepartments(gctx)
		return err
	})
	g.Go(func() (err error) {
		f.Divisions, err = c.GetDivisions(gctx)
		return err
	})
	g.Go(func() (err error) {
		f.Positions, err = c.GetPositions(gctx)
		return err
	})
	g.Go(func() (err error) {
		f.ClearanceLevels, err = c.GetClearanceLevels(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &f, nil
}
