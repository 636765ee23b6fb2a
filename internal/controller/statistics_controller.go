package controller

import (
	"baggage_quiz_backend/internal/service"
	"baggage_quiz_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StatisticsController struct {
	StatisticsService *service.StatisticsService
}

func NewStatisticsController(statisticsService *service.StatisticsService) *StatisticsController {
	return &StatisticsController{StatisticsService: statisticsService}
}

// GeneralStats godoc
// @Summary 平台总览统计
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.GeneralStats} "成功"
// @Router /api/statistics/general [get]
func (c *StatisticsController) GeneralStats(ctx *gin.Context) {
	stats, err := c.StatisticsService.GetGeneralStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Leaderboard godoc
// @Summary 排行榜
// @Description 已批准学员按当前关卡、总分、注册时间排序
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "成功"
// @Router /api/statistics/leaderboard [get]
func (c *StatisticsController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	entries, err := c.StatisticsService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// MyPerformance godoc
// @Summary 当前学员的表现汇总
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.UserPerformance} "成功"
// @Router /api/statistics/performance [get]
func (c *StatisticsController) MyPerformance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	perf, err := c.StatisticsService.GetUserPerformance(claims.UserID)
	if err != nil {
		statsError(ctx, err)
		return
	}
	util.Success(ctx, perf)
}

// UserPerformance godoc
// @Summary 指定学员的表现汇总
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.UserPerformance} "成功"
// @Router /api/admin/statistics/users/{id} [get]
func (c *StatisticsController) UserPerformance(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	perf, err := c.StatisticsService.GetUserPerformance(uint(id))
	if err != nil {
		statsError(ctx, err)
		return
	}
	util.Success(ctx, perf)
}

// LevelStats godoc
// @Summary 各关卡群体统计
// @Description 每关卡的在卡人数、通过人数和完成率
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.LevelStat} "成功"
// @Router /api/statistics/levels [get]
func (c *StatisticsController) LevelStats(ctx *gin.Context) {
	stats, err := c.StatisticsService.GetLevelStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func statsError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrUserNotFound) {
		util.NotFound(ctx)
		return
	}
	util.LogInternalError(ctx, err)
}
