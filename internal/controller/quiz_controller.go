package controller

import (
	"baggage_quiz_backend/internal/service"
	"baggage_quiz_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// StartQuiz godoc
// @Summary 开始关卡测验
// @Description 返回关卡信息和去除答案的题目列表
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param levelId path int true "关卡ID"
// @Success 200 {object} util.Response{data=service.QuizStart} "成功"
// @Failure 403 {object} util.Response "关卡未解锁"
// @Failure 404 {object} util.Response "关卡不存在"
// @Router /api/quiz/start/{levelId} [get]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	levelID, err := strconv.Atoi(ctx.Param("levelId"))
	if err != nil {
		util.BadRequest(ctx, "invalid level id")
		return
	}

	start, err := c.QuizService.StartQuiz(claims.UserID, uint(levelID))
	if err != nil {
		quizError(ctx, err)
		return
	}

	util.Success(ctx, start)
}

// SubmitRequest 提交测验的请求体
// swagger:model SubmitRequest
type SubmitRequest struct {
	LevelID   uint                       `json:"levelId" binding:"required"`
	Answers   []service.AnswerSubmission `json:"answers" binding:"required"`
	TimeSpent int                        `json:"timeSpent"` // 秒
}

// SubmitQuiz godoc
// @Summary 提交测验答案
// @Description 按题目ID配对评分，返回逐题结果并更新进度
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitRequest true "答案列表"
// @Success 200 {object} util.Response{data=service.SubmitResult} "成功"
// @Failure 400 {object} util.Response "答案引用了未知题目或重复"
// @Failure 403 {object} util.Response "关卡未解锁"
// @Router /api/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(claims.UserID, req.LevelID, req.Answers, req.TimeSpent)
	if err != nil {
		quizError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetStats godoc
// @Summary 学员进度概览
// @Description 当前关卡、已完成关卡、通过率等
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.QuizStats} "成功"
// @Router /api/quiz/stats [get]
func (c *QuizController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.QuizService.GetStats(claims.UserID)
	if err != nil {
		quizError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// quizError 把测验领域错误翻译成 HTTP 响应
func quizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLevelNotFound), errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrLevelInactive):
		util.Error(ctx, http.StatusForbidden, "level is not active")
	case errors.Is(err, util.ErrLevelLocked):
		util.Error(ctx, http.StatusForbidden, "level is locked")
	case errors.Is(err, util.ErrNoQuestions):
		util.BadRequest(ctx, "level has no active questions")
	case errors.Is(err, util.ErrUnknownQuestionID):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrDuplicateAnswer):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrConcurrentConflict):
		util.Error(ctx, http.StatusConflict, "progress was modified concurrently, retry")
	default:
		util.LogInternalError(ctx, err)
	}
}
