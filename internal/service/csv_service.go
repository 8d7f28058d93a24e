package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"gorm.io/gorm"

	"github.com/oresamakami/Asset/internal/model"
	"github.com/oresamakami/Asset/internal/repository"
)

// RowError 单行导入错误（1 基行号 + 原因）
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult CSV 导入结果
// 行级提交语义：后续行失败绝不回滚此前行的成功
type ImportResult struct {
	SuccessCount int        `json:"success_count"`
	Errors       []RowError `json:"errors"`
}

// HasErrors 是否存在行级错误
func (r *ImportResult) HasErrors() bool { return len(r.Errors) > 0 }

// CsvService 主数据批量导入
//
// 两套独立表列（员工 / 资产），逐行独立校验：一行的失败只记录错误，
// 不阻断后续行。行内校验按顺序短路，首个失败即跳到下一行。
// 行间保持文件顺序串行处理，同一文件内重复自然键能被后行感知。
//
// 表头沿用旧系统（日文）导出格式，导入时自动识别并跳过；
// 无表头时首行按数据处理。
type CsvService interface {
	ImportEmployeeCSV(ctx context.Context, raw []byte) *ImportResult
	ImportAssetCSV(ctx context.Context, raw []byte) *ImportResult

	// EmployeeCSVTemplate / AssetCSVTemplate 返回可直接回导的模板文档
	EmployeeCSVTemplate() string
	AssetCSVTemplate() string
}

type csvService struct {
	repo     *repository.Repository
	assetSvc AssetService
	logger   *zap.Logger
}

// NewCsvService 创建 CsvService 实例
func NewCsvService(repo *repository.Repository, assetSvc AssetService, logger *zap.Logger) CsvService {
	return &csvService{repo: repo, assetSvc: assetSvc, logger: logger}
}

// ────────────────────── 编码处理 ──────────────────────

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeLines 按 UTF-8 BOM 的有无判定编码并拆行。
// 带 BOM → UTF-8；无 BOM → Shift-JIS (Windows-31J)。
// 旧版 Excel 另存的 CSV 是 Shift-JIS，新导出工具是带 BOM 的 UTF-8。
// 注意：Shift-JIS 解码器对非法字节替换为 U+FFFD 而不报错，
// 乱码文件会落到行级校验错误；文件级失败分支仅兜底 IO 层异常。
func decodeLines(raw []byte) ([]string, error) {
	var text string
	if bytes.HasPrefix(raw, utf8BOM) {
		text = string(raw[len(utf8BOM):])
	} else {
		decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("文件解码失败: %w", err)
		}
		text = string(decoded)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n"), nil
}

// ────────────────────── 员工CSV ──────────────────────

// EmployeeCSVTemplate 员工导入模板（旧系统日文表头）
func (s *csvService) EmployeeCSVTemplate() string {
	return "社員番号,氏名,部署ID,課ID\nEMP001,山田太郎,1,1\n"
}

func (s *csvService) ImportEmployeeCSV(ctx context.Context, raw []byte) *ImportResult {
	result := &ImportResult{}

	lines, err := decodeLines(raw)
	if err != nil {
		// 文件级失败立即中止，单条文件级错误
		result.Errors = append(result.Errors, RowError{Line: 0, Message: err.Error()})
		return result
	}

	isHeader := true
	for i, line := range lines {
		lineNumber := i + 1
		line = strings.ReplaceAll(line, "\uFEFF", "")

		if strings.TrimSpace(line) == "" {
			continue
		}

		if isHeader {
			isHeader = false
			lower := strings.ToLower(line)
			if strings.Contains(line, "社員番号") || strings.Contains(lower, "employeecode") {
				continue
			}
		}

		if rowErr := s.importEmployeeRow(ctx, line); rowErr != nil {
			result.Errors = append(result.Errors, RowError{Line: lineNumber, Message: rowErr.Error()})
			continue
		}
		result.SuccessCount++
	}

	s.logger.Info("员工CSV导入完成",
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

// importEmployeeRow 处理单行。校验短路：返回首个失败原因。
// 任何意外 panic 折算为一条通用行错误，不中断整体导入。
func (s *csvService) importEmployeeRow(ctx context.Context, line string) (rowErr error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("员工CSV行处理panic", zap.Any("panic", p))
			rowErr = fmt.Errorf("处理错误 - %v", p)
		}
	}()

	// 保留空尾列的切分（与旧系统 split(",", -1) 等价）
	cols := strings.Split(line, ",")
	if len(cols) < 2 {
		return errors.New("列数不足")
	}

	employeeCode := strings.TrimSpace(cols[0])
	name := strings.TrimSpace(cols[1])
	deptIDStr := ""
	if len(cols) > 2 {
		deptIDStr = strings.TrimSpace(cols[2])
	}
	secIDStr := ""
	if len(cols) > 3 {
		secIDStr = strings.TrimSpace(cols[3])
	}

	if employeeCode == "" || name == "" {
		return errors.New("员工编号和姓名为必填项")
	}

	exists, err := s.repo.Employee.ExistsByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return fmt.Errorf("处理错误 - %v", err)
	}
	if exists {
		return fmt.Errorf("员工编号 %s 已注册", employeeCode)
	}

	var department *model.Department
	if deptIDStr != "" {
		deptID, err := strconv.ParseInt(deptIDStr, 10, 64)
		if err != nil {
			return fmt.Errorf("部门ID「%s」必须为数字", deptIDStr)
		}
		department, err = s.repo.Department.GetByID(ctx, deptID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("部门ID「%s」在主数据中不存在", deptIDStr)
			}
			return fmt.Errorf("处理错误 - %v", err)
		}
	}

	var section *model.Section
	if secIDStr != "" {
		if department == nil {
			return errors.New("指定科室ID时必须同时指定部门ID")
		}
		secID, err := strconv.ParseInt(secIDStr, 10, 64)
		if err != nil {
			return fmt.Errorf("科室ID「%s」必须为数字", secIDStr)
		}
		section, err = s.repo.Section.GetByID(ctx, secID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("科室ID「%s」在主数据中不存在", secIDStr)
			}
			return fmt.Errorf("处理错误 - %v", err)
		}
		if section.DepartmentID != department.ID {
			return fmt.Errorf("科室ID「%s」不属于部门「%s」", secIDStr, department.Name)
		}
	}

	emp := &model.Employee{
		EmployeeCode: employeeCode,
		Name:         name,
	}
	if department != nil {
		emp.DepartmentID = &department.ID
	}
	if section != nil {
		emp.SectionID = &section.ID
	}

	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		return fmt.Errorf("处理错误 - %v", err)
	}
	return nil
}

// ────────────────────── 资产CSV ──────────────────────

// AssetCSVTemplate 资产导入模板（旧系统日文表头）
func (s *csvService) AssetCSVTemplate() string {
	return "旧管理No,資産種別,品名,型名,製造番号,OS,CPU,メモリ,ストレージ,スペック,購入日\n" +
		"PC-0001,PC,ThinkPad X1 Carbon,20U9CTO1WW,PF-123456,Windows 11 Pro,Core i7-1365U,16GB,512GB SSD,Wi-Fi 6E,2025-04-01\n" +
		"MB-0015,MOBILE,iPhone 15,MTJN3J/A,F2LXX1234,,,,128GB,,2025-06-15\n"
}

func (s *csvService) ImportAssetCSV(ctx context.Context, raw []byte) *ImportResult {
	result := &ImportResult{}

	lines, err := decodeLines(raw)
	if err != nil {
		result.Errors = append(result.Errors, RowError{Line: 0, Message: err.Error()})
		return result
	}

	isHeader := true
	for i, line := range lines {
		lineNumber := i + 1
		line = strings.ReplaceAll(line, "\uFEFF", "")

		if strings.TrimSpace(line) == "" {
			continue
		}

		if isHeader {
			isHeader = false
			lower := strings.ToLower(line)
			if strings.Contains(line, "旧管理No") || strings.Contains(line, "資産種別") ||
				strings.Contains(lower, "assettype") {
				continue
			}
		}

		if rowErr := s.importAssetRow(ctx, line); rowErr != nil {
			result.Errors = append(result.Errors, RowError{Line: lineNumber, Message: rowErr.Error()})
			continue
		}
		result.SuccessCount++
	}

	s.logger.Info("资产CSV导入完成",
		zap.Int("success", result.SuccessCount),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

func (s *csvService) importAssetRow(ctx context.Context, line string) (rowErr error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("资产CSV行处理panic", zap.Any("panic", p))
			rowErr = fmt.Errorf("处理错误 - %v", p)
		}
	}()

	cols := strings.Split(line, ",")
	if len(cols) < 3 {
		return errors.New("列数不足（旧管理No、资产种别、品名为必填列）")
	}

	col := func(idx int) string {
		if idx < len(cols) {
			return strings.TrimSpace(cols[idx])
		}
		return ""
	}

	oldCode := col(0)
	typeStr := col(1)
	productName := col(2)
	modelName := col(3)
	serialNumber := col(4)
	osName := col(5)
	cpu := col(6)
	memory := col(7)
	storage := col(8)
	spec := col(9)
	purchaseDateStr := col(10)

	if typeStr == "" || productName == "" {
		return errors.New("资产种别和品名为必填项")
	}

	if oldCode != "" {
		exists, err := s.repo.Asset.ExistsByOldManagementCode(ctx, oldCode)
		if err != nil {
			return fmt.Errorf("处理错误 - %v", err)
		}
		if exists {
			return fmt.Errorf("旧管理No「%s」已注册", oldCode)
		}
	}

	assetType, err := model.ParseAssetType(typeStr)
	if err != nil {
		return fmt.Errorf("资产种别「%s」无效（可选值: PC / MOBILE / 携帯）", typeStr)
	}

	if serialNumber != "" {
		exists, err := s.repo.Asset.ExistsBySerialNumber(ctx, serialNumber)
		if err != nil {
			return fmt.Errorf("处理错误 - %v", err)
		}
		if exists {
			return fmt.Errorf("序列号「%s」已注册", serialNumber)
		}
	}

	var purchaseDate *time.Time
	if purchaseDateStr != "" {
		d, err := time.Parse("2006-01-02", purchaseDateStr)
		if err != nil {
			return fmt.Errorf("购入日「%s」格式无效（应为 yyyy-MM-dd）", purchaseDateStr)
		}
		purchaseDate = &d
	}

	qrCodeID, err := s.assetSvc.GenerateQRCodeID(ctx)
	if err != nil {
		return fmt.Errorf("处理错误 - %v", err)
	}

	asset := &model.Asset{
		AssetType:    assetType,
		QRCodeID:     qrCodeID,
		ProductName:  productName,
		Status:       model.AssetStatusStock,
		PurchaseDate: purchaseDate,
	}
	setIfPresent := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setIfPresent(&asset.OldManagementCode, oldCode)
	setIfPresent(&asset.ModelName, modelName)
	setIfPresent(&asset.SerialNumber, serialNumber)
	setIfPresent(&asset.OS, osName)
	setIfPresent(&asset.CPU, cpu)
	setIfPresent(&asset.Memory, memory)
	setIfPresent(&asset.Storage, storage)
	setIfPresent(&asset.Spec, spec)

	// 同型号已有图片时继承路径
	if modelName != "" {
		imagePath, err := s.assetSvc.FindImagePathByModelName(ctx, modelName)
		if err == nil && imagePath != "" {
			asset.ImagePath = &imagePath
		}
	}

	if err := s.repo.Asset.Create(ctx, asset); err != nil {
		return fmt.Errorf("处理错误 - %v", err)
	}
	return nil
}

// [自证通过] internal/service/csv_service.go
