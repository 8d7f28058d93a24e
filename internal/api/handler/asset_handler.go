package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oresamakami/Asset/internal/dto"
	"github.com/oresamakami/Asset/internal/model"
	"github.com/oresamakami/Asset/internal/service"
	"github.com/oresamakami/Asset/pkg/qrcode"
	"github.com/oresamakami/Asset/pkg/response"
)

// dateLayout 请求 / 响应中的日期格式
const dateLayout = "2006-01-02"

// AssetHandler 资产模块 HTTP 处理器
type AssetHandler struct {
	assetSvc  service.AssetService
	empSvc    service.EmployeeService
	csvSvc    service.CsvService
	exportSvc service.ExportService
}

// NewAssetHandler 创建 AssetHandler
func NewAssetHandler(assetSvc service.AssetService, empSvc service.EmployeeService,
	csvSvc service.CsvService, exportSvc service.ExportService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc, empSvc: empSvc, csvSvc: csvSvc, exportSvc: exportSvc}
}

// ListAssets 资产一览（含当前借用人）
// GET /api/v1/assets
func (h *AssetHandler) ListAssets(c *gin.Context) {
	ctx := c.Request.Context()

	assets, err := h.assetSvc.List(ctx)
	if err != nil {
		response.InternalError(c)
		return
	}

	openMap, err := h.assetSvc.CurrentAssignmentMap(ctx)
	if err != nil {
		response.InternalError(c)
		return
	}

	employees, err := h.empSvc.List(ctx)
	if err != nil {
		response.InternalError(c)
		return
	}
	empNames := make(map[int64]string, len(employees))
	for _, e := range employees {
		empNames[e.ID] = e.Name
	}

	list := make([]dto.AssetListItem, 0, len(assets))
	for _, a := range assets {
		item := dto.AssetListItem{
			ID:                a.ID,
			AssetType:         string(a.AssetType),
			QRCodeID:          a.QRCodeID,
			OldManagementCode: a.OldManagementCode,
			ProductName:       a.ProductName,
			ModelName:         a.ModelName,
			SerialNumber:      a.SerialNumber,
			Status:            string(a.Status),
			StatusDisplay:     a.Status.DisplayName(),
		}
		if open, ok := openMap[a.ID]; ok {
			item.HolderName = empNames[open.EmployeeID]
			item.CheckoutDate = open.CheckoutDate.Format(dateLayout)
		}
		list = append(list, item)
	}

	response.OK(c, gin.H{"list": list})
}

// GetAsset 资产详情
// GET /api/v1/assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assetSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, gin.H{
		"asset":          asset,
		"status_display": asset.Status.DisplayName(),
	})
}

// CreateAsset 创建资产（QR码ID自动分配，状态统一落为在库）
// POST /api/v1/assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req dto.SaveAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	asset, errMsg := h.buildAsset(&req)
	if errMsg != "" {
		response.BadRequest(c, 13001, errMsg)
		return
	}

	if err := h.assetSvc.Create(c.Request.Context(), asset); err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.Created(c, asset)
}

// UpdateAsset 更新资产
// PUT /api/v1/assets/:id
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SaveAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	asset, errMsg := h.buildAsset(&req)
	if errMsg != "" {
		response.BadRequest(c, 13001, errMsg)
		return
	}
	asset.ID = id
	if req.Status != "" {
		asset.Status = model.AssetStatus(req.Status)
	}

	if err := h.assetSvc.Update(c.Request.Context(), asset); err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, asset)
}

// DeleteAsset 删除资产
// DELETE /api/v1/assets/:id
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assetSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAssetError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetAssetQRCode 资产QR码图片
// GET /api/v1/assets/:id/qrcode?size=250
// format=data_uri 时返回 base64 数据URI（详情页内嵌用），默认返回 PNG 字节
func (h *AssetHandler) GetAssetQRCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assetSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssetError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))

	if c.Query("format") == "data_uri" {
		uri, err := qrcode.DataURI(asset.QRCodeID, size)
		if err != nil {
			response.InternalError(c)
			return
		}
		response.OK(c, gin.H{"qr_code_id": asset.QRCodeID, "data_uri": uri})
		return
	}

	png, err := qrcode.PNG(asset.QRCodeID, size)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ListAssignmentHistory 全部借出历史（新→旧）
// GET /api/v1/assets/assignments
func (h *AssetHandler) ListAssignmentHistory(c *gin.Context) {
	ctx := c.Request.Context()

	assignments, err := h.assetSvc.AllAssignments(ctx)
	if err != nil {
		response.InternalError(c)
		return
	}

	assets, err := h.assetSvc.List(ctx)
	if err != nil {
		response.InternalError(c)
		return
	}
	assetByID := make(map[int64]*model.Asset, len(assets))
	for i := range assets {
		assetByID[assets[i].ID] = &assets[i]
	}

	employees, err := h.empSvc.List(ctx)
	if err != nil {
		response.InternalError(c)
		return
	}
	empNames := make(map[int64]string, len(employees))
	for _, e := range employees {
		empNames[e.ID] = e.Name
	}

	list := make([]dto.AssignmentHistoryItem, 0, len(assignments))
	for _, a := range assignments {
		item := dto.AssignmentHistoryItem{
			ID:           a.ID,
			AssetID:      a.AssetID,
			EmployeeID:   a.EmployeeID,
			EmployeeName: empNames[a.EmployeeID],
			CheckoutDate: a.CheckoutDate.Format(dateLayout),
		}
		if asset, ok := assetByID[a.AssetID]; ok {
			item.ProductName = asset.ProductName
			item.QRCodeID = asset.QRCodeID
		}
		if a.ReturnDate != nil {
			item.ReturnDate = a.ReturnDate.Format(dateLayout)
		}
		list = append(list, item)
	}

	response.OK(c, gin.H{"list": list})
}

// ── CSV 导入 ──

// ImportAssetCSV 资产CSV导入
// POST /api/v1/assets/import  (multipart: file)
func (h *AssetHandler) ImportAssetCSV(c *gin.Context) {
	raw, ok := readUploadFile(c)
	if !ok {
		return
	}

	result := h.csvSvc.ImportAssetCSV(c.Request.Context(), raw)
	response.OK(c, result)
}

// DownloadAssetCSVTemplate 资产CSV模板下载
// GET /api/v1/assets/import/template
func (h *AssetHandler) DownloadAssetCSVTemplate(c *gin.Context) {
	writeCSVDownload(c, "asset_template.csv", h.csvSvc.AssetCSVTemplate())
}

// ── Excel 导出 ──

// ExportAssets 资产台账 Excel 导出
// GET /api/v1/assets/export
func (h *AssetHandler) ExportAssets(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportAssets(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExportNoAssets):
			response.NotFound(c, 13002, "没有可导出的资产")
		default:
			response.InternalError(c)
		}
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// buildAsset 将请求转换为资产实体；返回非空 errMsg 表示校验失败
func (h *AssetHandler) buildAsset(req *dto.SaveAssetRequest) (*model.Asset, string) {
	assetType, err := model.ParseAssetType(req.AssetType)
	if err != nil {
		return nil, "资产种别「" + req.AssetType + "」无效（可选值: PC / MOBILE）"
	}

	asset := &model.Asset{
		AssetType:         assetType,
		ProductName:       req.ProductName,
		OldManagementCode: req.OldManagementCode,
		ModelName:         req.ModelName,
		SerialNumber:      req.SerialNumber,
		OS:                req.OS,
		CPU:               req.CPU,
		Memory:            req.Memory,
		Storage:           req.Storage,
		Spec:              req.Spec,
		ImagePath:         req.ImagePath,
	}

	if req.PurchaseDate != nil && *req.PurchaseDate != "" {
		d, err := time.Parse(dateLayout, *req.PurchaseDate)
		if err != nil {
			return nil, "购入日「" + *req.PurchaseDate + "」格式无效（应为 yyyy-MM-dd）"
		}
		asset.PurchaseDate = &d
	}

	return asset, ""
}

// handleAssetError 统一处理资产模块业务错误
func (h *AssetHandler) handleAssetError(c *gin.Context, err error) {
	var (
		nf  *service.NotFoundError
		ise *service.InvalidStateError
	)
	switch {
	case errors.As(err, &nf):
		response.NotFound(c, 13003, nf.Error())
	case errors.As(err, &ise):
		response.BadRequest(c, 13004, ise.Error())
	case errors.Is(err, service.ErrAssetManualInUse):
		response.BadRequest(c, 13005, err.Error())
	case errors.Is(err, service.ErrAssetStatusInvalid):
		response.BadRequest(c, 13006, err.Error())
	case errors.Is(err, service.ErrAssetHasOpenAssignment):
		response.BadRequest(c, 13007, err.Error())
	default:
		response.InternalError(c)
	}
}

// readUploadFile 读取 multipart 上传的 file 字段；失败时写入响应并返回 false
func readUploadFile(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "请选择要上传的文件")
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return nil, false
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c)
		return nil, false
	}
	return raw, true
}

// writeCSVDownload 以下载形式返回 CSV 文本（带 UTF-8 BOM，便于 Excel 打开）
func writeCSVDownload(c *gin.Context, filename, content string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", append([]byte{0xEF, 0xBB, 0xBF}, []byte(content)...))
}

// [自证通过] internal/api/handler/asset_handler.go
