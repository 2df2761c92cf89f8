package employee

type CreateEmployeeRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Role         string  `json:"role" binding:"required,oneof=EMPLOYEE MANAGER DEPARTMENT_DIRECTOR EXECUTIVE HR ADMIN"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	ManagerID    *string `json:"manager_id" binding:"omitempty,uuid"`
	DirectorID   *string `json:"director_id" binding:"omitempty,uuid"`
}

// ListEmployeesQuery filters the company directory. Q matches name or email.
type ListEmployeesQuery struct {
	Q            string `form:"q" binding:"omitempty,max=100"`
	Role         string `form:"role" binding:"omitempty,oneof=EMPLOYEE MANAGER DEPARTMENT_DIRECTOR EXECUTIVE HR ADMIN"`
	ManagerID    string `form:"manager_id" binding:"omitempty,uuid"`
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
	Active       *bool  `form:"active"`
	SortBy       string `form:"sort_by" binding:"omitempty,oneof=name email role"`
	SortDir      string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	CompanyID    string `json:"company_id"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
	DepartmentID string `json:"department_id,omitempty"`
	ManagerID    string `json:"manager_id,omitempty"`
	DirectorID   string `json:"director_id,omitempty"`
}
