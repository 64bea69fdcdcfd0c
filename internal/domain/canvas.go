package domain

import "strings"

// Course is an active enrollment as returned by GET /courses.
type Course struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	CourseCode       string  `json:"course_code"`
	EnrollmentTermID int64   `json:"enrollment_term_id"`
	StartAt          *string `json:"start_at"`
	EndAt            *string `json:"end_at"`
	TotalStudents    int     `json:"total_students,omitempty"`
	IsPublic         bool    `json:"is_public"`
	WorkflowState    string  `json:"workflow_state"`
}

type Module struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Position   int          `json:"position"`
	ItemsCount int          `json:"items_count"`
	ItemsURL   string       `json:"items_url"`
	Items      []ModuleItem `json:"items,omitempty"`
}

type CompletionRequirement struct {
	Type     string   `json:"type"`
	MinScore *float64 `json:"min_score,omitempty"`
}

// ModuleItem is one entry of a module. For pages, URL is the API url of the page
// resource and is what the content endpoint is called with.
type ModuleItem struct {
	ID                    int64                  `json:"id"`
	Title                 string                 `json:"title"`
	Type                  string                 `json:"type"`
	ContentID             int64                  `json:"content_id,omitempty"`
	HTMLURL               string                 `json:"html_url,omitempty"`
	URL                   string                 `json:"url,omitempty"`
	PageURL               string                 `json:"page_url,omitempty"`
	ExternalURL           string                 `json:"external_url,omitempty"`
	CompletionRequirement *CompletionRequirement `json:"completion_requirement,omitempty"`
}

const ItemTypePage = "Page"

func (i ModuleItem) IsPage() bool { return i.Type == ItemTypePage }

// Page is the subset of a Canvas wiki page the orchestrator reads.
type Page struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Body  string `json:"body"`
}

// CanvasErrorBody is the error shape Canvas returns on non-2xx responses.
type CanvasErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FirstMessage returns the first non-blank message, or "".
func (b CanvasErrorBody) FirstMessage() string {
	for _, e := range b.Errors {
		if m := strings.TrimSpace(e.Message); m != "" {
			return m
		}
	}
	return ""
}
