package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/oresamakami/Asset/internal/model"
	"github.com/oresamakami/Asset/internal/repository"
)

// newTestRepository 基于内存 mock 构造 Repository 聚合。
// Tx 以互斥锁串行执行，模拟数据库事务对同一资产行的 FOR UPDATE 排队。
func newTestRepository() (*repository.Repository, *testRepos) {
	repos := &testRepos{
		asset:      newMockAssetRepo(),
		employee:   newMockEmployeeRepo(),
		assignment: newMockAssignmentRepo(),
		department: newMockDepartmentRepo(),
		section:    newMockSectionRepo(),
		user:       newMockUserRepo(),
	}

	var txMu sync.Mutex
	agg := &repository.Repository{
		Asset:      repos.asset,
		Employee:   repos.employee,
		Assignment: repos.assignment,
		Department: repos.department,
		Section:    repos.section,
		User:       repos.user,
	}
	agg.Tx = func(ctx context.Context, fn func(txRepo *repository.Repository) error) error {
		txMu.Lock()
		defer txMu.Unlock()
		return fn(agg)
	}

	return agg, repos
}

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	asset      *mockAssetRepo
	employee   *mockEmployeeRepo
	assignment *mockAssignmentRepo
	department *mockDepartmentRepo
	section    *mockSectionRepo
	user       *mockUserRepo
}

// ── Mock AssetRepository ──

type mockAssetRepo struct {
	mu     sync.Mutex
	assets map[int64]*model.Asset
	nextID int64
}

func newMockAssetRepo() *mockAssetRepo {
	return &mockAssetRepo{assets: make(map[int64]*model.Asset), nextID: 1}
}

func (m *mockAssetRepo) Create(_ context.Context, asset *model.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if asset.ID == 0 {
		asset.ID = m.nextID
		m.nextID++
	} else if asset.ID >= m.nextID {
		m.nextID = asset.ID + 1
	}
	cp := *asset
	m.assets[asset.ID] = &cp
	return nil
}

func (m *mockAssetRepo) GetByID(_ context.Context, id int64) (*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assets[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssetRepo) GetByQRCodeID(_ context.Context, qrCodeID string) (*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assets {
		if a.QRCodeID == qrCodeID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssetRepo) GetByQRCodeIDForUpdate(ctx context.Context, qrCodeID string) (*model.Asset, error) {
	return m.GetByQRCodeID(ctx, qrCodeID)
}

func (m *mockAssetRepo) List(_ context.Context) ([]model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Asset, 0, len(m.assets))
	for _, a := range m.assets {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockAssetRepo) Update(_ context.Context, asset *model.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[asset.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *asset
	m.assets[asset.ID] = &cp
	return nil
}

func (m *mockAssetRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, id)
	return nil
}

func (m *mockAssetRepo) ExistsByQRCodeID(_ context.Context, qrCodeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assets {
		if a.QRCodeID == qrCodeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssetRepo) ExistsByOldManagementCode(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assets {
		if a.OldManagementCode != nil && *a.OldManagementCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssetRepo) ExistsBySerialNumber(_ context.Context, serial string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assets {
		if a.SerialNumber != nil && *a.SerialNumber == serial {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAssetRepo) FirstImagePathByModelName(_ context.Context, modelName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assets {
		if a.ModelName != nil && *a.ModelName == modelName && a.ImagePath != nil {
			return *a.ImagePath, nil
		}
	}
	return "", nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	mu        sync.Mutex
	employees map[int64]*model.Employee
	nextID    int64
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[int64]*model.Employee), nextID: 1}
}

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if emp.ID == 0 {
		emp.ID = m.nextID
		m.nextID++
	} else if emp.ID >= m.nextID {
		m.nextID = emp.ID + 1
	}
	cp := *emp
	m.employees[emp.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id int64) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmployeeCode(_ context.Context, code string) (*model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.EmployeeCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ExistsByEmployeeCode(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[emp.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *emp
	m.employees[emp.ID] = &cp
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.employees, id)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[int64]*model.Assignment
	nextID      int64
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[int64]*model.Assignment), nextID: 1}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if assignment.ID == 0 {
		assignment.ID = m.nextID
		m.nextID++
	}
	cp := *assignment
	m.assignments[assignment.ID] = &cp
	return nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *assignment
	m.assignments[assignment.ID] = &cp
	return nil
}

func (m *mockAssignmentRepo) FindOpenByAssetID(_ context.Context, assetID int64) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.AssetID == assetID && a.ReturnDate == nil {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListOpenByEmployeeID(_ context.Context, employeeID int64) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.EmployeeID == employeeID && a.ReturnDate == nil {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListOpen(_ context.Context) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.ReturnDate == nil {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListAll(_ context.Context) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CheckoutDate.After(result[j].CheckoutDate)
	})
	return result, nil
}

func (m *mockAssignmentRepo) CountOpenByAssetID(_ context.Context, assetID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.assignments {
		if a.AssetID == assetID && a.ReturnDate == nil {
			n++
		}
	}
	return n, nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	mu          sync.Mutex
	departments map[int64]*model.Department
	nextID      int64
	// employeeCount 按部门ID返回员工数（删除前校验用，默认0）
	employeeCount map[int64]int64
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments:   make(map[int64]*model.Department),
		nextID:        1,
		employeeCount: make(map[int64]int64),
	}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if dept.ID == 0 {
		dept.ID = m.nextID
		m.nextID++
	} else if dept.ID >= m.nextID {
		m.nextID = dept.ID + 1
	}
	cp := *dept
	m.departments[dept.ID] = &cp
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id int64) (*model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.departments {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Department, 0, len(m.departments))
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.departments[dept.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *dept
	m.departments[dept.ID] = &cp
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) CountEmployees(_ context.Context, departmentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.employeeCount[departmentID], nil
}

// ── Mock SectionRepository ──

type mockSectionRepo struct {
	mu       sync.Mutex
	sections map[int64]*model.Section
	nextID   int64
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{sections: make(map[int64]*model.Section), nextID: 1}
}

func (m *mockSectionRepo) Create(_ context.Context, section *model.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if section.ID == 0 {
		section.ID = m.nextID
		m.nextID++
	} else if section.ID >= m.nextID {
		m.nextID = section.ID + 1
	}
	cp := *section
	m.sections[section.ID] = &cp
	return nil
}

func (m *mockSectionRepo) GetByID(_ context.Context, id int64) (*model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sections[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) List(_ context.Context) ([]model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.Section, 0, len(m.sections))
	for _, s := range m.sections {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockSectionRepo) ListByDepartmentID(_ context.Context, departmentID int64) ([]model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Section
	for _, s := range m.sections {
		if s.DepartmentID == departmentID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSectionRepo) Update(_ context.Context, section *model.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sections[section.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *section
	m.sections[section.ID] = &cp
	return nil
}

func (m *mockSectionRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sections, id)
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
