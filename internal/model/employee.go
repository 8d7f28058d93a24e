package model

// Employee 员工表 — 对应 employees
// EmployeeCode 同时作为员工 QR 码的扫描内容
type Employee struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 员工编号（唯一，QR 扫码查找键）
	EmployeeCode string `gorm:"type:varchar(50);uniqueIndex;not null" json:"employee_code"`

	// 姓名
	Name string `gorm:"type:varchar(100);not null" json:"name"`

	// 所属部门 / 科室（显式外键，可空）
	DepartmentID *int64 `gorm:"index" json:"department_id,omitempty"`
	SectionID    *int64 `gorm:"index" json:"section_id,omitempty"`

	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// [自证通过] internal/model/employee.go
