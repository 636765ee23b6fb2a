package controller

import (
	"baggage_quiz_backend/internal/service"
	"baggage_quiz_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LevelController struct {
	LevelService *service.LevelService
}

func NewLevelController(levelService *service.LevelService) *LevelController {
	return &LevelController{LevelService: levelService}
}

// ListLevels godoc
// @Summary 学员可见关卡列表
// @Description 激活关卡按序号升序，附带每关激活题目数
// @Tags 关卡
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.LevelWithCount} "成功"
// @Router /api/levels [get]
func (c *LevelController) ListLevels(ctx *gin.Context) {
	levels, err := c.LevelService.ListForLearner()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, levels)
}

// ListLevelsAdmin godoc
// @Summary 管理端关卡列表
// @Description 含停用关卡和题目总数
// @Tags 关卡管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.LevelWithCount} "成功"
// @Router /api/admin/levels [get]
func (c *LevelController) ListLevelsAdmin(ctx *gin.Context) {
	levels, err := c.LevelService.ListForAdmin()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, levels)
}

// CreateLevel godoc
// @Summary 创建关卡
// @Tags 关卡管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LevelCreateRequest true "关卡信息"
// @Success 201 {object} util.Response "创建成功"
// @Failure 409 {object} util.Response "关卡序号已存在"
// @Router /api/admin/levels [post]
func (c *LevelController) CreateLevel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LevelCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	level, err := c.LevelService.CreateLevel(claims.UserID, req)
	if err != nil {
		levelError(ctx, err)
		return
	}

	util.Created(ctx, level)
}

// GetLevel godoc
// @Summary 获取关卡详情
// @Tags 关卡管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "关卡ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/levels/{id} [get]
func (c *LevelController) GetLevel(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	level, err := c.LevelService.GetLevel(uint(id))
	if err != nil {
		levelError(ctx, err)
		return
	}
	util.Success(ctx, level)
}

// UpdateLevel godoc
// @Summary 更新关卡
// @Tags 关卡管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "关卡ID"
// @Param body body service.LevelCreateRequest true "关卡信息"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/levels/{id} [put]
func (c *LevelController) UpdateLevel(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.LevelCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	level, err := c.LevelService.UpdateLevel(uint(id), req)
	if err != nil {
		levelError(ctx, err)
		return
	}
	util.Success(ctx, level)
}

// ToggleLevel godoc
// @Summary 启用/停用关卡
// @Tags 关卡管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "关卡ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/levels/{id}/toggle [patch]
func (c *LevelController) ToggleLevel(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	level, err := c.LevelService.ToggleLevel(uint(id))
	if err != nil {
		levelError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": level.ID, "isActive": level.IsActive})
}

// DeleteLevel godoc
// @Summary 删除关卡
// @Description 仍有题目引用的关卡不允许删除
// @Tags 关卡管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "关卡ID"
// @Success 200 {object} util.Response "成功"
// @Failure 409 {object} util.Response "关卡仍有题目"
// @Router /api/admin/levels/{id} [delete]
func (c *LevelController) DeleteLevel(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.LevelService.DeleteLevel(uint(id)); err != nil {
		levelError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

func levelError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLevelNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrLevelExists):
		util.ErrorCode(ctx, http.StatusConflict, util.CodeConflict, "level number already exists")
	case errors.Is(err, util.ErrLevelHasQuestions):
		util.ErrorCode(ctx, http.StatusConflict, util.CodeConflict, "level still has questions")
	default:
		util.LogInternalError(ctx, err)
	}
}
