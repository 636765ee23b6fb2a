package service

import (
	"baggage_quiz_backend/internal/config"
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/util"
	"errors"
	"fmt"
	"time"

	"baggage_quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ThrottledError 登录来源被限流
type ThrottledError struct {
	RetryAfter int // 秒
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry after %ds", e.RetryAfter)
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Guard    *LoginGuard
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, guard *LoginGuard, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Guard:    guard,
		Cfg:      cfg,
	}
}

// ipRecorder 来源地址记录的最小依赖面
type ipRecorder interface {
	RecordIP(userID uint, ip string) error
}

// recordSourceIP 来源地址是辅助的审计数据，
// 写入失败不阻断注册和登录，只留告警。
func recordSourceIP(r ipRecorder, userID uint, ip string) {
	if ip == "" {
		return
	}
	if err := r.RecordIP(userID, ip); err != nil {
		logger.Log.Warn("failed to record source ip",
			zap.Uint("userId", userID),
			zap.String("ip", ip),
			zap.Error(err),
		)
	}
}

// Register 创建 pending 状态的账号并签发令牌。
// 账号在管理员批准前不能使用学员功能，但令牌可用于查询自身状态。
func (s *AuthService) Register(user *model.User, ip string) (string, error) {
	_, err := s.UserRepo.FindByUsernameOrEmail(user.Username, user.Email)
	if err == nil {
		return "", util.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user.Password = string(hashedPassword)
	user.Role = model.RoleUser
	user.ApprovalState = model.ApprovalPending
	user.CurrentLevel = 1

	if err := s.UserRepo.Create(user); err != nil {
		return "", err
	}
	recordSourceIP(s.UserRepo, user.ID, ip)

	logger.Log.Info("new user registered",
		zap.String("username", user.Username),
		zap.String("email", user.Email),
		zap.String("ip", ip),
	)

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// Login 校验凭据并签发令牌。
// 未知邮箱和错误密码返回同一个错误，避免账号枚举；
// 失败计入来源限流，成功则清零。
func (s *AuthService) Login(email, password, ip string) (string, *model.User, error) {
	if retryAfter, ok := s.Guard.Check(ip); !ok {
		logger.Log.Warn("login throttled", zap.String("ip", ip), zap.Int("retryAfter", retryAfter))
		return "", nil, &ThrottledError{RetryAfter: retryAfter}
	}

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		s.Guard.RecordFailure(ip)
		logger.Log.Warn("failed login for unknown email", zap.String("email", email), zap.String("ip", ip))
		return "", nil, util.ErrInvalidCredentials
	}

	if user.IsBlocked() {
		logger.Log.Warn("blocked user login attempt", zap.String("email", email), zap.String("ip", ip))
		return "", nil, util.ErrAccountBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.Guard.RecordFailure(ip)
		logger.Log.Warn("failed login attempt", zap.String("email", email), zap.String("ip", ip))
		return "", nil, util.ErrInvalidCredentials
	}

	s.Guard.Clear(ip)

	now := time.Now()
	user.LastLogin = now
	user.LastActivity = now
	if err := s.UserRepo.Update(user); err != nil {
		return "", nil, err
	}
	recordSourceIP(s.UserRepo, user.ID, ip)

	logger.Log.Info("successful login",
		zap.String("username", user.Username),
		zap.String("email", email),
		zap.String("ip", ip),
	)

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
