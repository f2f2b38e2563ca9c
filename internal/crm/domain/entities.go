package domain

// Backend collection names for the records below.
const (
	CollectionRequests         = "requests"
	CollectionProjects         = "projects"
	CollectionTasks            = "tasks"
	CollectionTaskDeliverables = "task_deliverables"
	CollectionFaculties        = "faculties"
	CollectionServices         = "services"
	CollectionServiceCats      = "service_categories"
	CollectionProjectTypes     = "project_types"
	CollectionDeliverableTypes = "deliverable_types"
)

// Request is an incoming production request from a department, before it is
// converted into a project.
type Request struct {
	ID               int64   `json:"id"`
	Status           string  `json:"status"`
	RequestDate      string  `json:"request_date"`
	DepartmentID     int64   `json:"department_name"`
	RequesterName    string  `json:"requester_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	EventName        string  `json:"event_name"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	EventDate        string  `json:"event_date"`
	Location         string  `json:"location"`
	Notes            string  `json:"notes"`
	ConvertedProject *int64  `json:"converted_project"`
	Services         []int64 `json:"services"`
}

// Project is an accepted piece of production work for a faculty.
type Project struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	ProjectType int64  `json:"project_type"`
	Faculty     int64  `json:"faculty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

// Task is a unit of work inside a project, assigned to a collaborator by
// their backend user ID.
type Task struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Project  int64  `json:"project"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
}

// TaskDeliverable is a produced artifact linked to a task, referenced by URL.
type TaskDeliverable struct {
	ID              int64  `json:"id"`
	Status          string `json:"status"`
	Task            int64  `json:"task"`
	Label           string `json:"label"`
	URL             string `json:"url"`
	DeliverableType int64  `json:"deliverable_type"`
}

// Faculty is a requesting academic unit.
type Faculty struct {
	ID        int64   `json:"id"`
	Status    string  `json:"status"`
	Name      string  `json:"name"`
	ShortName string  `json:"short_name"`
	Email     *string `json:"email"`
	Notes     *string `json:"notes"`
}

// ServiceCategory groups services offered by the production team.
type ServiceCategory struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Service is a single offering, e.g. video recording or graphic design.
type Service struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Name        string `json:"name"`
	Category    int64  `json:"category"`
	Description string `json:"description"`
}

// ProjectType classifies projects, e.g. event coverage or campaign.
type ProjectType struct {
	ID          int64   `json:"id"`
	Status      string  `json:"status"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// DeliverableType classifies deliverables for display.
type DeliverableType struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
}
