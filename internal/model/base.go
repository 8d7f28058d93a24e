package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
// CreatedAt / UpdatedAt 由 GORM 自动维护
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
