package controller

import (
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/service"
	"baggage_quiz_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// ListUsers godoc
// @Summary 用户列表
// @Description 支持按角色、审批状态筛选和用户名/邮箱搜索
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param role query string false "角色 user/admin"
// @Param approvalState query string false "审批状态 pending/active/blocked"
// @Param search query string false "用户名或邮箱关键字"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filter := repository.UserFilter{
		Role:          ctx.Query("role"),
		ApprovalState: ctx.Query("approvalState"),
		Search:        ctx.Query("search"),
	}

	users, total, err := c.UserService.ListUsers(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ApproveUser godoc
// @Summary 批准账号
// @Description 账号置为 active，清除历史封禁信息
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/approve [post]
func (c *UserController) ApproveUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	user, err := c.UserService.ApproveUser(claims.UserID, uint(id))
	if err != nil {
		userError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": user.ID, "approvalState": user.ApprovalState})
}

// DisapproveUser godoc
// @Summary 撤回批准
// @Description 账号回到 pending 状态
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/disapprove [post]
func (c *UserController) DisapproveUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	user, err := c.UserService.DisapproveUser(claims.UserID, uint(id))
	if err != nil {
		userError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": user.ID, "approvalState": user.ApprovalState})
}

// BlockRequest 封禁请求体
// swagger:model BlockRequest
type BlockRequest struct {
	Reason string `json:"reason"`
}

// BlockUser godoc
// @Summary 封禁账号
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body BlockRequest false "封禁原因"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "不能封禁自己"
// @Router /api/admin/users/{id}/block [post]
func (c *UserController) BlockUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req BlockRequest
	ctx.ShouldBindJSON(&req)

	user, err := c.UserService.BlockUser(claims.UserID, uint(id), req.Reason)
	if err != nil {
		userError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": user.ID, "approvalState": user.ApprovalState})
}

// ChangePasswordRequest 重置密码请求体
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword godoc
// @Summary 重置用户密码
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param body body ChangePasswordRequest true "新密码"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/users/{id}/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangePassword(claims.UserID, uint(id), req.NewPassword); err != nil {
		userError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": id})
}

// DeleteUser godoc
// @Summary 删除账号
// @Description 软删除，管理员不能删除自己
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "不能删除自己"
// @Router /api/admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.UserService.DeleteUser(claims.UserID, uint(id)); err != nil {
		userError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

func userError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound):
		util.ErrorCode(ctx, http.StatusNotFound, util.CodeUserNotFound, "user not found")
	case errors.Is(err, util.ErrSelfAction):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPasswordTooShort):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
