package controller

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/service"
	"baggage_quiz_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// RegisterRequest 注册请求体
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register godoc
// @Summary 注册新学员
// @Description 创建待审批账号并返回令牌，批准前无法使用学员功能
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名或邮箱已存在"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	token, err := c.AuthService.Register(user, ctx.ClientIP())
	if err != nil {
		if errors.Is(err, util.ErrUserExists) {
			util.ErrorCode(ctx, http.StatusConflict, util.CodeConflict, "username or email already registered")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"email":         user.Email,
			"role":          user.Role,
			"approvalState": user.ApprovalState,
			"currentLevel":  user.CurrentLevel,
		},
	})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验凭据并返回JWT令牌，失败次数过多会被限流
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "凭据错误"
// @Failure 403 {object} util.Response "账号被封禁"
// @Failure 429 {object} util.Response "尝试次数过多"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Email, req.Password, ctx.ClientIP())
	if err != nil {
		var throttled *service.ThrottledError
		switch {
		case errors.As(err, &throttled):
			util.Throttled(ctx, throttled.RetryAfter)
		case errors.Is(err, util.ErrInvalidCredentials):
			util.ErrorCode(ctx, http.StatusBadRequest, util.CodeInvalidCredentials, "invalid email or password")
		case errors.Is(err, util.ErrAccountBlocked):
			util.ErrorCode(ctx, http.StatusForbidden, util.CodeAccountBlocked, "account is blocked")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":            user.ID,
			"username":      user.Username,
			"email":         user.Email,
			"role":          user.Role,
			"approvalState": user.ApprovalState,
			"currentLevel":  user.CurrentLevel,
			"totalScore":    user.TotalScore,
		},
	})
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Description 返回当前账号及进度信息
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"id":              user.ID,
		"username":        user.Username,
		"email":           user.Email,
		"role":            user.Role,
		"approvalState":   user.ApprovalState,
		"currentLevel":    user.CurrentLevel,
		"totalScore":      user.TotalScore,
		"completedLevels": user.CompletedLevels,
		"lastLogin":       user.LastLogin,
		"createdAt":       user.CreatedAt,
	})
}
