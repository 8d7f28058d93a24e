package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/oresamakami/Asset/internal/model"
)

// ── 测试辅助 ──

func setupTestAssetService() (AssetService, *testRepos) {
	repo, repos := newTestRepository()
	svc := NewAssetService(repo, zap.NewNop())
	return svc, repos
}

// ── QR码ID生成 ──

var qrCodeIDPattern = regexp.MustCompile(`^AST-[0-9A-F]{8}$`)

func TestAssetService_GenerateQRCodeID_Format(t *testing.T) {
	svc, _ := setupTestAssetService()

	id, err := svc.GenerateQRCodeID(context.Background())
	if err != nil {
		t.Fatalf("GenerateQRCodeID 应成功: %v", err)
	}
	if !qrCodeIDPattern.MatchString(id) {
		t.Errorf("格式不符（应为 AST-XXXXXXXX，8位大写十六进制）: %s", id)
	}
}

func TestAssetService_GenerateQRCodeID_Distinct(t *testing.T) {
	svc, _ := setupTestAssetService()

	const n = 10000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id, err := svc.GenerateQRCodeID(context.Background())
		if err != nil {
			t.Fatalf("第%d次生成失败: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("第%d次生成出现重复: %s", i, id)
		}
		seen[id] = true
	}
}

// 已注册的ID在生成时被避开
func TestAssetService_GenerateQRCodeID_AvoidsRegistered(t *testing.T) {
	svc, repos := setupTestAssetService()

	// 预先注册一批资产再连续生成，新ID不得与库内任何ID重合
	registered := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := svc.GenerateQRCodeID(context.Background())
		if err != nil {
			t.Fatalf("生成失败: %v", err)
		}
		asset := &model.Asset{
			AssetType:   model.AssetTypePC,
			QRCodeID:    id,
			ProductName: "ThinkPad X1",
			Status:      model.AssetStatusStock,
		}
		if err := repos.asset.Create(context.Background(), asset); err != nil {
			t.Fatalf("seed资产失败: %v", err)
		}
		registered[id] = true
	}

	for i := 0; i < 200; i++ {
		id, err := svc.GenerateQRCodeID(context.Background())
		if err != nil {
			t.Fatalf("生成失败: %v", err)
		}
		if registered[id] {
			t.Fatalf("生成了已注册的ID: %s", id)
		}
	}
}

// ── Create ──

func TestAssetService_Create_Defaults(t *testing.T) {
	svc, _ := setupTestAssetService()

	asset := &model.Asset{
		AssetType:   model.AssetTypePC,
		ProductName: "ThinkPad X1",
	}
	if err := svc.Create(context.Background(), asset); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if asset.Status != model.AssetStatusStock {
		t.Errorf("新建资产默认状态应为STOCK，实际=%s", asset.Status)
	}
	if !qrCodeIDPattern.MatchString(asset.QRCodeID) {
		t.Errorf("新建资产应自动分配QR码ID，实际=%s", asset.QRCodeID)
	}
}

// ── Update 状态防护 ──

func TestAssetService_Update_ManualInUseRejected(t *testing.T) {
	svc, _ := setupTestAssetService()

	asset := &model.Asset{AssetType: model.AssetTypePC, ProductName: "ThinkPad X1"}
	if err := svc.Create(context.Background(), asset); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	asset.Status = model.AssetStatusInUse
	err := svc.Update(context.Background(), asset)
	if !errors.Is(err, ErrAssetManualInUse) {
		t.Errorf("期望 ErrAssetManualInUse，实际: %v", err)
	}
}

func TestAssetService_Update_InUseAssetStatusLocked(t *testing.T) {
	svc, repos := setupTestAssetService()

	asset := seedAsset(t, repos, "AST-A1B2C3D4", model.AssetStatusInUse)

	// 使用中的资产不允许直接改状态，需先归还
	asset.Status = model.AssetStatusBroken
	err := svc.Update(context.Background(), asset)
	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("期望 InvalidStateError，实际: %v", err)
	}
	if ise.Status != model.AssetStatusInUse {
		t.Errorf("错误应携带当前状态IN_USE，实际=%s", ise.Status)
	}
}

func TestAssetService_Update_StockToBrokenAllowed(t *testing.T) {
	svc, repos := setupTestAssetService()

	asset := seedAsset(t, repos, "AST-A1B2C3D4", model.AssetStatusStock)

	asset.Status = model.AssetStatusBroken
	if err := svc.Update(context.Background(), asset); err != nil {
		t.Fatalf("STOCK→BROKEN 应被允许: %v", err)
	}

	stored, _ := repos.asset.GetByID(context.Background(), asset.ID)
	if stored.Status != model.AssetStatusBroken {
		t.Errorf("期望持久化状态=BROKEN，实际=%s", stored.Status)
	}
}

func TestAssetService_Update_QRCodeIDImmutable(t *testing.T) {
	svc, repos := setupTestAssetService()

	asset := seedAsset(t, repos, "AST-A1B2C3D4", model.AssetStatusStock)

	asset.QRCodeID = "AST-HACKED00"
	if err := svc.Update(context.Background(), asset); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	stored, _ := repos.asset.GetByID(context.Background(), asset.ID)
	if stored.QRCodeID != "AST-A1B2C3D4" {
		t.Errorf("QR码ID分配后不可变，实际=%s", stored.QRCodeID)
	}
}

// 编辑接口传入的是重建实体，审计字段不得被零值覆盖
func TestAssetService_Update_PreservesCreatedAt(t *testing.T) {
	svc, repos := setupTestAssetService()

	asset := seedAsset(t, repos, "AST-A1B2C3D4", model.AssetStatusStock)
	createdAt := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	asset.CreatedAt = createdAt
	if err := repos.asset.Update(context.Background(), asset); err != nil {
		t.Fatalf("seed审计字段失败: %v", err)
	}

	edit := &model.Asset{
		ID:          asset.ID,
		AssetType:   asset.AssetType,
		QRCodeID:    asset.QRCodeID,
		ProductName: "ThinkPad X1 Gen2",
		Status:      model.AssetStatusStock,
	}
	if err := svc.Update(context.Background(), edit); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	stored, _ := repos.asset.GetByID(context.Background(), asset.ID)
	if !stored.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at 应沿用已存行，实际=%v", stored.CreatedAt)
	}
	if stored.ProductName != "ThinkPad X1 Gen2" {
		t.Errorf("业务字段应被更新，实际=%s", stored.ProductName)
	}
}

// 编辑时省略状态字段 → 沿用当前状态而不是报错
func TestAssetService_Update_StatusOmittedKeepsCurrent(t *testing.T) {
	svc, repos := setupTestAssetService()

	asset := seedAsset(t, repos, "AST-A1B2C3D4", model.AssetStatusBroken)

	edit := &model.Asset{
		ID:          asset.ID,
		AssetType:   asset.AssetType,
		QRCodeID:    asset.QRCodeID,
		ProductName: "ThinkPad X1",
	}
	if err := svc.Update(context.Background(), edit); err != nil {
		t.Fatalf("状态省略时 Update 应成功: %v", err)
	}

	stored, _ := repos.asset.GetByID(context.Background(), asset.ID)
	if stored.Status != model.AssetStatusBroken {
		t.Errorf("期望沿用状态BROKEN，实际=%s", stored.Status)
	}
}

// ── Delete 防护 ──

func TestAssetService_Delete_OpenAssignmentRejected(t *testing.T) {
	svc, repos := setupTestAssetService()

	asset := seedAsset(t, repos, "AST-A1B2C3D4", model.AssetStatusInUse)
	assignment := &model.Assignment{
		EmployeeID:   1,
		AssetID:      asset.ID,
		CheckoutDate: time.Now(),
	}
	if err := repos.assignment.Create(context.Background(), assignment); err != nil {
		t.Fatalf("seed台账失败: %v", err)
	}

	err := svc.Delete(context.Background(), asset.ID)
	if !errors.Is(err, ErrAssetHasOpenAssignment) {
		t.Errorf("期望 ErrAssetHasOpenAssignment，实际: %v", err)
	}
}

// ── 库存查询 ──

func TestAssetService_CurrentAssignmentMap(t *testing.T) {
	svc, repos := setupTestAssetService()

	emp := seedEmployee(t, repos, "EMP001", "山田太郎")
	inUse := seedAsset(t, repos, "AST-00000001", model.AssetStatusInUse)
	seedAsset(t, repos, "AST-00000002", model.AssetStatusStock)

	now := time.Now()
	returned := now.AddDate(0, 0, -1)

	// 未归还记录 + 一条已归还的历史
	open := &model.Assignment{EmployeeID: emp.ID, AssetID: inUse.ID, CheckoutDate: now}
	if err := repos.assignment.Create(context.Background(), open); err != nil {
		t.Fatalf("seed台账失败: %v", err)
	}
	closed := &model.Assignment{
		EmployeeID:   emp.ID,
		AssetID:      inUse.ID,
		CheckoutDate: now.AddDate(0, 0, -10),
		ReturnDate:   &returned,
	}
	if err := repos.assignment.Create(context.Background(), closed); err != nil {
		t.Fatalf("seed台账失败: %v", err)
	}

	m, err := svc.CurrentAssignmentMap(context.Background())
	if err != nil {
		t.Fatalf("CurrentAssignmentMap 应成功: %v", err)
	}

	if len(m) != 1 {
		t.Fatalf("期望1个条目，实际=%d", len(m))
	}
	entry, ok := m[inUse.ID]
	if !ok {
		t.Fatal("使用中资产应出现在映射中")
	}
	if entry.ID != open.ID {
		t.Errorf("映射应指向未归还记录，期望ID=%d，实际=%d", open.ID, entry.ID)
	}
}

// [自证通过] internal/service/asset_service_test.go
