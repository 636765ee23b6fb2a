package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	LevelRepo    *repository.LevelRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, levelRepo *repository.LevelRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		LevelRepo:    levelRepo,
	}
}

// QuestionRequest 创建/更新题目的请求体
// swagger:model QuestionRequest
type QuestionRequest struct {
	Text          string                `json:"text" binding:"required"`
	CorrectAnswer model.AnswerValue     `json:"correctAnswer" binding:"required"`
	DirtyReason   model.DirtyReason     `json:"dirtyReason"`
	DirtyOptions  model.DirtyOptionList `json:"dirtyOptions"`
	Level         int                   `json:"level" binding:"required,min=1"`
	Points        *int                  `json:"points"`
	Image         string                `json:"image"`
	Explanation   string                `json:"explanation"`
	Difficulty    string                `json:"difficulty"`
	Category      string                `json:"category"`
}

func (s *QuestionService) CreateQuestion(creatorID uint, req QuestionRequest) (*model.Question, error) {
	if _, err := s.LevelRepo.FindByNumber(req.Level); err != nil {
		return nil, levelLookupErr(err)
	}

	question := &model.Question{
		Text:          req.Text,
		CorrectAnswer: req.CorrectAnswer,
		DirtyReason:   req.DirtyReason,
		DirtyOptions:  req.DirtyOptions,
		Level:         req.Level,
		Points:        10,
		Image:         req.Image,
		Explanation:   req.Explanation,
		Difficulty:    "medium",
		Category:      "general",
		IsActive:      true,
		CreatedBy:     creatorID,
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Difficulty != "" {
		question.Difficulty = req.Difficulty
	}
	if req.Category != "" {
		question.Category = req.Category
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.QuestionRepo.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) UpdateQuestion(questionID uint, req QuestionRequest) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, questionLookupErr(err)
	}

	if req.Level != 0 && req.Level != question.Level {
		if _, err := s.LevelRepo.FindByNumber(req.Level); err != nil {
			return nil, levelLookupErr(err)
		}
		question.Level = req.Level
	}

	applyQuestionFields(question, req)

	if err := question.Validate(); err != nil {
		return nil, err
	}

	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

// applyQuestionFields 只覆盖请求中出现的字段，缺省字段保持原值。
// 改回 clean 时清空脏字段。
func applyQuestionFields(question *model.Question, req QuestionRequest) {
	if req.Text != "" {
		question.Text = req.Text
	}
	if req.CorrectAnswer != "" {
		question.CorrectAnswer = req.CorrectAnswer
	}
	if req.Explanation != "" {
		question.Explanation = req.Explanation
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Difficulty != "" {
		question.Difficulty = req.Difficulty
	}
	if req.Category != "" {
		question.Category = req.Category
	}
	if req.Image != "" {
		question.Image = req.Image
	}

	if question.CorrectAnswer == model.AnswerDirty {
		if req.DirtyReason != "" {
			question.DirtyReason = req.DirtyReason
		}
		if len(req.DirtyOptions) > 0 {
			question.DirtyOptions = req.DirtyOptions
		}
	} else {
		question.DirtyReason = ""
		question.DirtyOptions = nil
	}
}

func (s *QuestionService) GetQuestion(questionID uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, questionLookupErr(err)
	}
	return question, nil
}

func (s *QuestionService) ListQuestions() ([]model.Question, error) {
	return s.QuestionRepo.ListAll()
}

// ListForLevel 学员视角的某关卡题目，剥离答案字段
func (s *QuestionService) ListForLevel(level int) ([]model.PublicQuestion, error) {
	questions, err := s.QuestionRepo.ListActiveByLevel(level)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicQuestion, 0, len(questions))
	for i := range questions {
		out = append(out, questions[i].PublicView())
	}
	return out, nil
}

// ToggleQuestion 软停用，保留历史测验记录的可解释性
func (s *QuestionService) ToggleQuestion(questionID uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, questionLookupErr(err)
	}

	question.IsActive = !question.IsActive
	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(questionID uint) error {
	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		return questionLookupErr(err)
	}
	return s.QuestionRepo.Delete(questionID)
}

func questionLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuestionNotFound
	}
	return err
}
