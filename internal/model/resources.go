package model

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Documentation is a document as it appears in list results.
type Documentation struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	Type                  int    `json:"type"`
	TypeName              string `json:"type_name"`
	Content               string `json:"content"`
	Author                int    `json:"author"`
	AuthorName            string `json:"author_name"`
	CreatedDate           string `json:"created_date"`
	UpdatedDate           string `json:"updated_date"`
	RequiredClearance     int    `json:"required_clearance"`
	RequiredClearanceName string `json:"required_clearance_name"`
}

// DocumentObject is the detail view of a document.
type DocumentObject = Documentation

// DocumentType classifies documents.
type DocumentType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Research is a research project as it appears in list results.
type Research struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	Lead                  int    `json:"lead"`
	LeadName              string `json:"lead_name"`
	Status                int    `json:"status"`
	StatusName            string `json:"status_name"`
	RequiredClearance     int    `json:"required_clearance"`
	RequiredClearanceName string `json:"required_clearance_name"`
	CreatedDate           string `json:"created_date"`
	UpdatedDate           string `json:"updated_date"`
}

// ResearchObject is the detail view of a research project.
type ResearchObject struct {
	ID                    int      `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Objectives            string   `json:"objectives"`
	Lead                  int      `json:"lead"`
	LeadName              string   `json:"lead_name"`
	Team                  []int    `json:"team"`
	TeamMembers           []string `json:"team_members"`
	Status                int      `json:"status"`
	StatusName            string   `json:"status_name"`
	RequiredClearance     int      `json:"required_clearance"`
	RequiredClearanceName string   `json:"required_clearance_name"`
	Findings              string   `json:"findings"`
	CreatedDate           string   `json:"created_date"`
	UpdatedDate           string   `json:"updated_date"`
}

// ResearchStatus is a research lifecycle state.
type ResearchStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// EmployeeFilters is the combined vocabulary for the employee list filters.
type EmployeeFilters struct {
	Clusters        []Cluster        `json:"clusters"`
	Departments     []Department     `json:"departments"`
	Divisions       []Division       `json:"divisions"`
	Positions       []Position       `json:"positions"`
	ClearanceLevels []ClearanceLevel `json:"clearance_levels"`
}
