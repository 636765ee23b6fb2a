package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/repository"
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	leaderboardCacheKey = "stats:leaderboard"
	leaderboardCacheTTL = 30 * time.Second
	defaultLeaderboard  = 10
	activityWindow      = 7 * 24 * time.Hour
)

// StatisticsService 只读的统计聚合，不持有自己的状态
type StatisticsService struct {
	UserRepo     *repository.UserRepository
	LevelRepo    *repository.LevelRepository
	QuestionRepo *repository.QuestionRepository
	Redis        *redis.Client
}

func NewStatisticsService(userRepo *repository.UserRepository, levelRepo *repository.LevelRepository, questionRepo *repository.QuestionRepository, rdb *redis.Client) *StatisticsService {
	return &StatisticsService{
		UserRepo:     userRepo,
		LevelRepo:    levelRepo,
		QuestionRepo: questionRepo,
		Redis:        rdb,
	}
}

// GeneralStats 平台总览
// swagger:model GeneralStats
type GeneralStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalLevels    int64 `json:"totalLevels"`
	TotalQuestions int64 `json:"totalQuestions"`
	ActiveUsers    int64 `json:"activeUsers"`
	HighestLevel   int   `json:"highestLevel"`
}

func (s *StatisticsService) GetGeneralStats() (*GeneralStats, error) {
	totalUsers, err := s.UserRepo.CountByRole(model.RoleUser)
	if err != nil {
		return nil, err
	}
	totalLevels, err := s.LevelRepo.CountAll()
	if err != nil {
		return nil, err
	}
	totalQuestions, err := s.QuestionRepo.CountAll()
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.UserRepo.CountActiveLearners(time.Now().Add(-activityWindow))
	if err != nil {
		return nil, err
	}
	highest, err := s.UserRepo.HighestCurrentLevel()
	if err != nil {
		return nil, err
	}

	return &GeneralStats{
		TotalUsers:     totalUsers,
		TotalLevels:    totalLevels,
		TotalQuestions: totalQuestions,
		ActiveUsers:    activeUsers,
		HighestLevel:   highest,
	}, nil
}

// LeaderboardEntry 排行榜单行
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	Username        string    `json:"username"`
	CurrentLevel    int       `json:"currentLevel"`
	CompletedLevels int       `json:"completedLevels"`
	TotalScore      int       `json:"totalScore"`
	JoinDate        time.Time `json:"joinDate"`
}

// GetLeaderboard 排行榜，短期缓存在 redis
func (s *StatisticsService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboard
	}

	ctx := context.Background()
	if s.Redis != nil && limit == defaultLeaderboard {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil {
				return entries, nil
			}
		}
	}

	users, err := s.UserRepo.Leaderboard(limit)
	if err != nil {
		return nil, err
	}
	entries := rankUsers(users)

	if s.Redis != nil && limit == defaultLeaderboard {
		if payload, err := json.Marshal(entries); err == nil {
			s.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL)
		}
	}

	return entries, nil
}

// rankUsers 假设输入已按 排行规则 排好序
func rankUsers(users []model.User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:            i + 1,
			Username:        user.Username,
			CurrentLevel:    user.CurrentLevel,
			CompletedLevels: len(user.CompletedLevels),
			TotalScore:      user.TotalScore,
			JoinDate:        user.CreatedAt,
		})
	}
	return entries
}

// UserPerformance 单个学员的表现汇总
// swagger:model UserPerformance
type UserPerformance struct {
	Username        string             `json:"username"`
	CurrentLevel    int                `json:"currentLevel"`
	CompletedLevels int                `json:"completedLevels"`
	TotalScore      int                `json:"totalScore"`
	TotalTests      int                `json:"totalTests"`
	PassedTests     int                `json:"passedTests"`
	FailedTests     int                `json:"failedTests"`
	SuccessRate     float64            `json:"successRate"`  // 百分比
	AverageScore    float64            `json:"averageScore"` // 所有历史分数的算术平均
	RecentActivity  int                `json:"recentActivity"`
	TestHistory     []model.TestRecord `json:"testHistory"` // 最近 10 条
}

func (s *StatisticsService) GetUserPerformance(userID uint) (*UserPerformance, error) {
	user, err := s.UserRepo.FindByIDWithProgress(userID)
	if err != nil {
		return nil, userLookupErr(err)
	}
	perf := computePerformance(user, time.Now())
	return &perf, nil
}

// computePerformance 从测验历史派生表现指标，纯函数
func computePerformance(user *model.User, now time.Time) UserPerformance {
	perf := UserPerformance{
		Username:        user.Username,
		CurrentLevel:    user.CurrentLevel,
		CompletedLevels: len(user.CompletedLevels),
		TotalScore:      user.TotalScore,
		TotalTests:      len(user.TestHistory),
	}

	scoreSum := 0
	since := now.Add(-activityWindow)
	for _, record := range user.TestHistory {
		if record.Passed {
			perf.PassedTests++
		}
		scoreSum += record.Score
		if record.CompletedAt.After(since) {
			perf.RecentActivity++
		}
	}
	perf.FailedTests = perf.TotalTests - perf.PassedTests

	if perf.TotalTests > 0 {
		perf.SuccessRate = roundOne(float64(perf.PassedTests) / float64(perf.TotalTests) * 100)
		perf.AverageScore = roundOne(float64(scoreSum) / float64(perf.TotalTests))
	}

	history := user.TestHistory
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	perf.TestHistory = history
	if perf.TestHistory == nil {
		perf.TestHistory = []model.TestRecord{}
	}

	return perf
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

// LevelStat 单关卡的群体统计
// swagger:model LevelStat
type LevelStat struct {
	Level          int     `json:"level"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	UsersAtLevel   int64   `json:"usersAtLevel"`
	UsersCompleted int64   `json:"usersCompleted"`
	CompletionRate float64 `json:"completionRate"` // 百分比，无人在该关卡时为 0
}

func (s *StatisticsService) GetLevelStats() ([]LevelStat, error) {
	levels, err := s.LevelRepo.ListAll()
	if err != nil {
		return nil, err
	}

	stats := make([]LevelStat, 0, len(levels))
	for _, level := range levels {
		atLevel, err := s.UserRepo.CountAtLevel(level.Level)
		if err != nil {
			return nil, err
		}
		completed, err := s.UserRepo.CountCompletedLevel(level.Level)
		if err != nil {
			return nil, err
		}

		stat := LevelStat{
			Level:          level.Level,
			Name:           level.Name,
			Description:    level.Description,
			UsersAtLevel:   atLevel,
			UsersCompleted: completed,
		}
		if atLevel > 0 {
			stat.CompletionRate = roundOne(float64(completed) / float64(atLevel) * 100)
		}
		stats = append(stats, stat)
	}
	return stats, nil
}
