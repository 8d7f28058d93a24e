package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oresamakami/Asset/internal/dto"
	"github.com/oresamakami/Asset/internal/model"
	"github.com/oresamakami/Asset/internal/service"
	"github.com/oresamakami/Asset/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock OperationService ──

type mockOperationService struct {
	checkoutResult *service.OperationResult
	checkoutErr    error
	checkinResult  *service.OperationResult
	checkinErr     error
}

func (m *mockOperationService) Checkout(_ context.Context, _, _ string) (*service.OperationResult, error) {
	return m.checkoutResult, m.checkoutErr
}
func (m *mockOperationService) Checkin(_ context.Context, _ string) (*service.OperationResult, error) {
	return m.checkinResult, m.checkinErr
}

// ── Mock AssetService ──

type mockAssetService struct {
	getByQRResult *model.Asset
	getByQRErr    error
}

func (m *mockAssetService) GenerateQRCodeID(_ context.Context) (string, error) {
	return "AST-00000000", nil
}
func (m *mockAssetService) Create(_ context.Context, _ *model.Asset) error { return nil }
func (m *mockAssetService) GetByID(_ context.Context, _ int64) (*model.Asset, error) {
	return m.getByQRResult, m.getByQRErr
}
func (m *mockAssetService) GetByQRCodeID(_ context.Context, _ string) (*model.Asset, error) {
	return m.getByQRResult, m.getByQRErr
}
func (m *mockAssetService) List(_ context.Context) ([]model.Asset, error)      { return nil, nil }
func (m *mockAssetService) Update(_ context.Context, _ *model.Asset) error     { return nil }
func (m *mockAssetService) Delete(_ context.Context, _ int64) error            { return nil }
func (m *mockAssetService) FindImagePathByModelName(_ context.Context, _ string) (string, error) {
	return "", nil
}
func (m *mockAssetService) CurrentAssignmentMap(_ context.Context) (map[int64]*model.Assignment, error) {
	return nil, nil
}
func (m *mockAssetService) OpenAssignmentsForEmployee(_ context.Context, _ int64) ([]model.Assignment, error) {
	return nil, nil
}
func (m *mockAssetService) AllAssignments(_ context.Context) ([]model.Assignment, error) {
	return nil, nil
}

// ── Mock EmployeeService ──

type mockEmployeeService struct {
	getByCodeResult *model.Employee
	getByCodeErr    error
}

func (m *mockEmployeeService) Create(_ context.Context, _ *model.Employee) error { return nil }
func (m *mockEmployeeService) GetByID(_ context.Context, _ int64) (*model.Employee, error) {
	return m.getByCodeResult, m.getByCodeErr
}
func (m *mockEmployeeService) GetByEmployeeCode(_ context.Context, _ string) (*model.Employee, error) {
	return m.getByCodeResult, m.getByCodeErr
}
func (m *mockEmployeeService) List(_ context.Context) ([]model.Employee, error) { return nil, nil }
func (m *mockEmployeeService) Update(_ context.Context, _ *model.Employee) error {
	return nil
}
func (m *mockEmployeeService) Delete(_ context.Context, _ int64) error { return nil }

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	logoutErr     error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ int64, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func sampleOperationResult() *service.OperationResult {
	return &service.OperationResult{
		Assignment: &model.Assignment{ID: 7, EmployeeID: 1, AssetID: 2},
		Employee:   &model.Employee{ID: 1, EmployeeCode: "EMP001", Name: "山田太郎"},
		Asset: &model.Asset{
			ID:          2,
			QRCodeID:    "AST-A1B2C3D4",
			ProductName: "ThinkPad X1",
			Status:      model.AssetStatusInUse,
		},
	}
}

// ═══════════════════════════════════════════════════════════
// OperationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestOperationHandler_Checkout_Success(t *testing.T) {
	mock := &mockOperationService{checkoutResult: sampleOperationResult()}
	h := NewOperationHandler(mock, &mockAssetService{}, &mockEmployeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/operations/checkout", jsonBody(dto.CheckoutRequest{
		EmployeeCode: "EMP001",
		QRCodeID:     "AST-A1B2C3D4",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/operations/checkout", h.Checkout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Code int                   `json:"code"`
		Data dto.OperationResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Data.Success {
		t.Error("期望 success=true")
	}
	if resp.Data.Message != "已将 ThinkPad X1 借出给 山田太郎" {
		t.Errorf("确认消息不符: %s", resp.Data.Message)
	}
	if resp.Data.AssignmentID != 7 {
		t.Errorf("期望 assignment_id=7，实际=%d", resp.Data.AssignmentID)
	}
}

func TestOperationHandler_Checkout_BadJSON(t *testing.T) {
	h := NewOperationHandler(&mockOperationService{}, &mockAssetService{}, &mockEmployeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/operations/checkout", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/operations/checkout", h.Checkout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// 业务失败（状态不符）按 400 返回，消息可直接展示
func TestOperationHandler_Checkout_InvalidState(t *testing.T) {
	mock := &mockOperationService{
		checkoutErr: &service.InvalidStateError{Op: "借出", Status: model.AssetStatusInUse},
	}
	h := NewOperationHandler(mock, &mockAssetService{}, &mockEmployeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/operations/checkout", jsonBody(dto.CheckoutRequest{
		EmployeeCode: "EMP001",
		QRCodeID:     "AST-A1B2C3D4",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/operations/checkout", h.Checkout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12004 {
		t.Errorf("expected error code 12004, got %d", resp.Code)
	}
	// 消息携带当前状态展示名
	if !bytes.Contains(w.Body.Bytes(), []byte("使用中")) {
		t.Errorf("错误消息应携带当前状态: %s", w.Body.String())
	}
}

func TestOperationHandler_Checkout_NotFound(t *testing.T) {
	mock := &mockOperationService{
		checkoutErr: &service.NotFoundError{Entity: "员工", Key: "NOBODY"},
	}
	h := NewOperationHandler(mock, &mockAssetService{}, &mockEmployeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/operations/checkout", jsonBody(dto.CheckoutRequest{
		EmployeeCode: "NOBODY",
		QRCodeID:     "AST-A1B2C3D4",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/operations/checkout", h.Checkout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12003 {
		t.Errorf("expected error code 12003, got %d", resp.Code)
	}
}

// 数据异常（台账不变式被破坏）按 500 返回
func TestOperationHandler_Checkin_InconsistentState(t *testing.T) {
	mock := &mockOperationService{
		checkinErr: &service.InconsistentStateError{Detail: "台账缺失"},
	}
	h := NewOperationHandler(mock, &mockAssetService{}, &mockEmployeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/operations/checkin", jsonBody(dto.CheckinRequest{
		QRCodeID: "AST-A1B2C3D4",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/operations/checkin", h.Checkin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestOperationHandler_Checkin_Success(t *testing.T) {
	result := sampleOperationResult()
	result.Asset.Status = model.AssetStatusStock
	mock := &mockOperationService{checkinResult: result}
	h := NewOperationHandler(mock, &mockAssetService{}, &mockEmployeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/operations/checkin", jsonBody(dto.CheckinRequest{
		QRCodeID: "AST-A1B2C3D4",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/operations/checkin", h.Checkin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("已归还")) {
		t.Errorf("确认消息不符: %s", w.Body.String())
	}
}

// 查找类接口：不存在按 404 返回
func TestOperationHandler_LookupAsset_NotFound(t *testing.T) {
	mock := &mockAssetService{
		getByQRErr: &service.NotFoundError{Entity: "资产", Key: "AST-MISSING0"},
	}
	h := NewOperationHandler(&mockOperationService{}, mock, &mockEmployeeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/operations/assets/AST-MISSING0", nil)

	r := gin.New()
	r.GET("/operations/assets/:qr_code_id", h.LookupAsset)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestOperationHandler_LookupEmployee_Success(t *testing.T) {
	mock := &mockEmployeeService{
		getByCodeResult: &model.Employee{ID: 1, EmployeeCode: "EMP001", Name: "山田太郎"},
	}
	h := NewOperationHandler(&mockOperationService{}, &mockAssetService{}, mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/operations/employees/EMP001", nil)

	r := gin.New()
	r.GET("/operations/employees/:code", h.LookupEmployee)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("山田太郎")) {
		t.Errorf("响应应包含员工姓名: %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// EmployeeHandler Tests
// ═══════════════════════════════════════════════════════════

// 工牌QR码：内容为员工编号，默认返回PNG字节
func TestEmployeeHandler_GetEmployeeQRCode_PNG(t *testing.T) {
	mock := &mockEmployeeService{
		getByCodeResult: &model.Employee{ID: 1, EmployeeCode: "EMP001", Name: "山田太郎"},
	}
	h := NewEmployeeHandler(mock, nil, nil, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/employees/1/qrcode", nil)

	r := gin.New()
	r.GET("/employees/:id/qrcode", h.GetEmployeeQRCode)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %s", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("PNG 响应体不应为空")
	}
}

func TestEmployeeHandler_GetEmployeeQRCode_DataURI(t *testing.T) {
	mock := &mockEmployeeService{
		getByCodeResult: &model.Employee{ID: 1, EmployeeCode: "EMP001", Name: "山田太郎"},
	}
	h := NewEmployeeHandler(mock, nil, nil, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/employees/1/qrcode?format=data_uri", nil)

	r := gin.New()
	r.GET("/employees/:id/qrcode", h.GetEmployeeQRCode)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("data:image/png;base64,")) {
		t.Errorf("响应应包含数据URI前缀: %s", w.Body.String())
	}
}

func TestEmployeeHandler_GetEmployeeQRCode_NotFound(t *testing.T) {
	mock := &mockEmployeeService{
		getByCodeErr: &service.NotFoundError{Entity: "员工", Key: "999"},
	}
	h := NewEmployeeHandler(mock, nil, nil, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/employees/999/qrcode", nil)

	r := gin.New()
	r.GET("/employees/:id/qrcode", h.GetEmployeeQRCode)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12001 {
		t.Errorf("expected error code 12001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin",
		Password: "admin123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "admin",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
