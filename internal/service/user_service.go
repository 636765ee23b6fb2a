package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/util"
	"time"

	"baggage_quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// UserService 管理端的账号审批与维护
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByIDWithProgress(userID)
	if err != nil {
		return nil, userLookupErr(err)
	}
	return user, nil
}

func (s *UserService) ListUsers(page, pageSize int, filter repository.UserFilter) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.UserRepo.List(page, pageSize, filter)
}

// ApproveUser 把账号置为 active，清除历史封禁信息
func (s *UserService) ApproveUser(adminID, userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, userLookupErr(err)
	}

	now := time.Now()
	user.ApprovalState = model.ApprovalActive
	user.ApprovedBy = &adminID
	user.ApprovedAt = &now
	user.BlockedAt = nil
	user.BlockedReason = ""

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user approved",
		zap.Uint("userId", userID),
		zap.Uint("adminId", adminID),
	)
	return user, nil
}

// DisapproveUser 撤回批准，账号回到 pending。管理员不能撤回自己。
func (s *UserService) DisapproveUser(adminID, userID uint) (*model.User, error) {
	if adminID == userID {
		return nil, util.ErrSelfAction
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, userLookupErr(err)
	}

	user.ApprovalState = model.ApprovalPending
	user.ApprovedBy = nil
	user.ApprovedAt = nil

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("user approval revoked",
		zap.Uint("userId", userID),
		zap.Uint("adminId", adminID),
	)
	return user, nil
}

// BlockUser 封禁账号。管理员不能封禁自己。
func (s *UserService) BlockUser(adminID, userID uint, reason string) (*model.User, error) {
	if adminID == userID {
		return nil, util.ErrSelfAction
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, userLookupErr(err)
	}

	now := time.Now()
	user.ApprovalState = model.ApprovalBlocked
	user.BlockedAt = &now
	user.BlockedReason = reason

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Warn("user blocked",
		zap.Uint("userId", userID),
		zap.Uint("adminId", adminID),
		zap.String("reason", reason),
	)
	return user, nil
}

// ChangePassword 管理员重置任意账号的密码
func (s *UserService) ChangePassword(adminID, userID uint, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return util.ErrPasswordTooShort
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return userLookupErr(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)

	if err := s.UserRepo.Update(user); err != nil {
		return err
	}

	logger.Log.Info("password changed by admin",
		zap.Uint("userId", userID),
		zap.Uint("adminId", adminID),
	)
	return nil
}

// DeleteUser 软删除账号。管理员不能删除自己。
func (s *UserService) DeleteUser(adminID, userID uint) error {
	if adminID == userID {
		return util.ErrSelfAction
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return userLookupErr(err)
	}

	if err := s.UserRepo.Delete(user.ID); err != nil {
		return err
	}

	logger.Log.Warn("user deleted",
		zap.Uint("userId", userID),
		zap.String("username", user.Username),
		zap.Uint("adminId", adminID),
	)
	return nil
}
