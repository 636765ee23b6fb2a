package controller

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/service"
	"baggage_quiz_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// ListQuestions godoc
// @Summary 管理端题目列表
// @Description 全部题目按创建时间倒序，含答案字段
// @Tags 题目管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Question} "成功"
// @Router /api/admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.ListQuestions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CreateQuestion godoc
// @Summary 创建题目
// @Description dirty 题目必须带原因和包含正确项的选项列表
// @Tags 题目管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response "创建成功"
// @Failure 400 {object} util.Response "题目字段不满足约束"
// @Router /api/admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.CreateQuestion(claims.UserID, req)
	if err != nil {
		questionError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// GetQuestion godoc
// @Summary 获取题目详情
// @Tags 题目管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	question, err := c.QuestionService.GetQuestion(uint(id))
	if err != nil {
		questionError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 题目管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.UpdateQuestion(uint(id), req)
	if err != nil {
		questionError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// ToggleQuestion godoc
// @Summary 启用/停用题目
// @Description 软停用，历史测验记录不受影响
// @Tags 题目管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/questions/{id}/toggle [patch]
func (c *QuestionController) ToggleQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	question, err := c.QuestionService.ToggleQuestion(uint(id))
	if err != nil {
		questionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": question.ID, "isActive": question.IsActive})
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 题目管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.QuestionService.DeleteQuestion(uint(id)); err != nil {
		questionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// ListForLevel godoc
// @Summary 学员视角的关卡题目
// @Description 某关卡的激活题目，已剥离答案字段
// @Tags 题目
// @Produce json
// @Security BearerAuth
// @Param level path int true "关卡序号"
// @Success 200 {object} util.Response{data=[]model.PublicQuestion} "成功"
// @Router /api/levels/{level}/questions [get]
func (c *QuestionController) ListForLevel(ctx *gin.Context) {
	level, err := strconv.Atoi(ctx.Param("level"))
	if err != nil {
		util.BadRequest(ctx, "invalid level number")
		return
	}

	questions, err := c.QuestionService.ListForLevel(level)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// DirtyReasons godoc
// @Summary 脏行李原因枚举
// @Description 客户端构造脏选项时的合法取值
// @Tags 题目管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/questions/dirty-reasons [get]
func (c *QuestionController) DirtyReasons(ctx *gin.Context) {
	util.Success(ctx, gin.H{"reasons": model.AllDirtyReasons})
}

func questionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuestionNotFound), errors.Is(err, util.ErrLevelNotFound):
		util.NotFound(ctx)
	case errors.Is(err, model.ErrDirtyReasonRequired),
		errors.Is(err, model.ErrDirtyReasonUnknown),
		errors.Is(err, model.ErrDirtyOptionsRequired),
		errors.Is(err, model.ErrDirtyOptionsMissing),
		errors.Is(err, model.ErrDirtyFieldsOnClean):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
