package repository

import (
	"baggage_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

// ListAll 管理端列表，按创建时间倒序
func (r *QuestionRepository) ListAll() ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Order("created_at DESC").Find(&questions).Error
	return questions, err
}

// ListActiveByLevel 某一关卡的激活题目，测验出题用
func (r *QuestionRepository) ListActiveByLevel(level int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("level = ? AND is_active = ?", level, true).Order("id ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

func (r *QuestionRepository) CountByLevel(level int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("level = ?", level).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) CountActiveByLevel(level int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("level = ? AND is_active = ?", level, true).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Count(&count).Error
	return count, err
}
