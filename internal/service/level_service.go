package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type LevelService struct {
	LevelRepo    *repository.LevelRepository
	QuestionRepo *repository.QuestionRepository
}

func NewLevelService(levelRepo *repository.LevelRepository, questionRepo *repository.QuestionRepository) *LevelService {
	return &LevelService{
		LevelRepo:    levelRepo,
		QuestionRepo: questionRepo,
	}
}

// LevelCreateRequest 创建/更新关卡的请求体
// swagger:model LevelCreateRequest
type LevelCreateRequest struct {
	Name         string `json:"name" binding:"required"`
	Level        int    `json:"level" binding:"required,min=1"`
	Description  string `json:"description"`
	MinScore     *int   `json:"minScore"`
	MaxScore     *int   `json:"maxScore"`
	PassingScore *int   `json:"passingScore"`
	TimeLimit    *int   `json:"timeLimit"`
	QuestionCnt  *int   `json:"questionCount"`
	RewardPoints *int   `json:"rewardPoints"`
	RewardBadge  string `json:"rewardBadge"`
}

func (s *LevelService) CreateLevel(creatorID uint, req LevelCreateRequest) (*model.Level, error) {
	_, err := s.LevelRepo.FindByNumber(req.Level)
	if err == nil {
		return nil, util.ErrLevelExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	level := &model.Level{
		Level:        req.Level,
		MaxScore:     100,
		PassingScore: 70,
		TimeLimit:    30,
		QuestionCnt:  10,
		IsActive:     true,
		CreatedBy:    creatorID,
	}
	applyLevelFields(level, req)

	if err := s.LevelRepo.Create(level); err != nil {
		return nil, levelWriteErr(err)
	}
	return level, nil
}

func (s *LevelService) UpdateLevel(levelID uint, req LevelCreateRequest) (*model.Level, error) {
	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		return nil, levelLookupErr(err)
	}

	// 允许改关卡序号，但不能撞上已有关卡
	if req.Level != 0 && req.Level != level.Level {
		if _, err := s.LevelRepo.FindByNumber(req.Level); err == nil {
			return nil, util.ErrLevelExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		level.Level = req.Level
	}
	applyLevelFields(level, req)

	if err := s.LevelRepo.Update(level); err != nil {
		return nil, levelWriteErr(err)
	}
	return level, nil
}

// applyLevelFields 只覆盖请求中出现的字段，缺省字段保持原值
func applyLevelFields(level *model.Level, req LevelCreateRequest) {
	if req.Name != "" {
		level.Name = req.Name
	}
	if req.Description != "" {
		level.Description = req.Description
	}
	if req.MinScore != nil {
		level.MinScore = *req.MinScore
	}
	if req.MaxScore != nil {
		level.MaxScore = *req.MaxScore
	}
	if req.PassingScore != nil {
		level.PassingScore = *req.PassingScore
	}
	if req.TimeLimit != nil {
		level.TimeLimit = *req.TimeLimit
	}
	if req.QuestionCnt != nil {
		level.QuestionCnt = *req.QuestionCnt
	}
	if req.RewardPoints != nil {
		level.RewardPoints = *req.RewardPoints
	}
	if req.RewardBadge != "" {
		level.RewardBadge = req.RewardBadge
	}
}

// levelWriteErr 把唯一索引冲突映射为业务错误，
// 兜底 FindByNumber 检查和写入之间的并发窗口
func levelWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrLevelExists
	}
	return err
}

// DeleteLevel 仍有题目引用的关卡不允许删除
func (s *LevelService) DeleteLevel(levelID uint) error {
	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		return levelLookupErr(err)
	}

	count, err := s.QuestionRepo.CountByLevel(level.Level)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrLevelHasQuestions
	}

	return s.LevelRepo.Delete(levelID)
}

func (s *LevelService) ToggleLevel(levelID uint) (*model.Level, error) {
	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		return nil, levelLookupErr(err)
	}

	level.IsActive = !level.IsActive
	if err := s.LevelRepo.Update(level); err != nil {
		return nil, err
	}
	return level, nil
}

func (s *LevelService) GetLevel(levelID uint) (*model.Level, error) {
	level, err := s.LevelRepo.FindByID(levelID)
	if err != nil {
		return nil, levelLookupErr(err)
	}
	return level, nil
}

// LevelWithCount 关卡加实时题目数
// swagger:model LevelWithCount
type LevelWithCount struct {
	model.Level
	ActualQuestionCount int   `json:"actualQuestionCount"`
	TotalQuestionCount  int64 `json:"totalQuestionCount,omitempty"`
}

// ListForLearner 学员可见的激活关卡，附带各关卡激活题目数
func (s *LevelService) ListForLearner() ([]LevelWithCount, error) {
	levels, err := s.LevelRepo.ListActive()
	if err != nil {
		return nil, err
	}
	return s.annotate(levels, false)
}

// ListForAdmin 管理端列表，含停用关卡和题目总数
func (s *LevelService) ListForAdmin() ([]LevelWithCount, error) {
	levels, err := s.LevelRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return s.annotate(levels, true)
}

func (s *LevelService) annotate(levels []model.Level, includeTotal bool) ([]LevelWithCount, error) {
	out := make([]LevelWithCount, 0, len(levels))
	for _, level := range levels {
		active, err := s.QuestionRepo.CountActiveByLevel(level.Level)
		if err != nil {
			return nil, err
		}
		entry := LevelWithCount{Level: level, ActualQuestionCount: int(active)}
		if includeTotal {
			total, err := s.QuestionRepo.CountByLevel(level.Level)
			if err != nil {
				return nil, err
			}
			entry.TotalQuestionCount = total
		}
		out = append(out, entry)
	}
	return out, nil
}
