package service

import (
	"baggage_quiz_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankUsers(t *testing.T) {
	first := model.User{Username: "ayse", CurrentLevel: 12, TotalScore: 900}
	first.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := model.User{
		Username:     "mehmet",
		CurrentLevel: 12,
		TotalScore:   700,
		CompletedLevels: []model.CompletedLevel{
			{Level: 1, BestScore: 80},
			{Level: 2, BestScore: 90},
		},
	}

	entries := rankUsers([]model.User{first, second})

	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "ayse", entries[0].Username)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 2, entries[1].CompletedLevels)
	assert.Equal(t, first.CreatedAt, entries[0].JoinDate)
}

func TestRankUsersEmpty(t *testing.T) {
	entries := rankUsers(nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestComputePerformance(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	user := &model.User{
		Username:     "ayse",
		CurrentLevel: 4,
		TotalScore:   310,
		CompletedLevels: []model.CompletedLevel{
			{Level: 1, BestScore: 90},
			{Level: 2, BestScore: 80},
			{Level: 3, BestScore: 70},
		},
		TestHistory: []model.TestRecord{
			{Level: 1, Score: 90, Passed: true, CompletedAt: now.AddDate(0, -1, 0)},
			{Level: 2, Score: 80, Passed: true, CompletedAt: now.Add(-3 * 24 * time.Hour)},
			{Level: 3, Score: 70, Passed: true, CompletedAt: now.Add(-2 * 24 * time.Hour)},
			{Level: 4, Score: 40, Passed: false, CompletedAt: now.Add(-time.Hour)},
		},
	}

	perf := computePerformance(user, now)

	assert.Equal(t, 4, perf.TotalTests)
	assert.Equal(t, 3, perf.PassedTests)
	assert.Equal(t, 1, perf.FailedTests)
	assert.Equal(t, 75.0, perf.SuccessRate)
	assert.Equal(t, 70.0, perf.AverageScore)
	// 一个月前的记录不算近期活跃
	assert.Equal(t, 3, perf.RecentActivity)
	assert.Equal(t, 3, perf.CompletedLevels)
}

func TestComputePerformanceNoHistory(t *testing.T) {
	user := &model.User{Username: "yeni", CurrentLevel: 1}

	perf := computePerformance(user, time.Now())

	assert.Zero(t, perf.TotalTests)
	assert.Zero(t, perf.SuccessRate)
	assert.Zero(t, perf.AverageScore)
	assert.NotNil(t, perf.TestHistory)
	assert.Empty(t, perf.TestHistory)
}

// 历史只回传最近 10 条
func TestComputePerformanceHistoryTruncated(t *testing.T) {
	now := time.Now()
	user := &model.User{Username: "ayse"}
	for i := 0; i < 15; i++ {
		user.TestHistory = append(user.TestHistory, model.TestRecord{
			Level:       1,
			Score:       50 + i,
			CompletedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}

	perf := computePerformance(user, now)

	assert.Equal(t, 15, perf.TotalTests)
	require.Len(t, perf.TestHistory, 10)
	// 保留的是末尾的 10 条
	assert.Equal(t, 55, perf.TestHistory[0].Score)
	assert.Equal(t, 64, perf.TestHistory[9].Score)
}

func TestRoundOne(t *testing.T) {
	assert.Equal(t, 66.7, roundOne(66.666))
	assert.Equal(t, 0.0, roundOne(0))
	assert.Equal(t, 100.0, roundOne(100))
}
