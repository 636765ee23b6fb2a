package repository

import (
	"baggage_quiz_backend/internal/model"

	"gorm.io/gorm"
)

type LevelRepository struct {
	DB *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: db}
}

func (r *LevelRepository) Create(level *model.Level) error {
	return r.DB.Create(level).Error
}

func (r *LevelRepository) FindByID(id uint) (*model.Level, error) {
	var level model.Level
	err := r.DB.First(&level, id).Error
	return &level, err
}

func (r *LevelRepository) FindByNumber(number int) (*model.Level, error) {
	var level model.Level
	err := r.DB.Where("level = ?", number).First(&level).Error
	return &level, err
}

// ListActive 学员可见的激活关卡，按序号升序
func (r *LevelRepository) ListActive() ([]model.Level, error) {
	var levels []model.Level
	err := r.DB.Where("is_active = ?", true).Order("level ASC").Find(&levels).Error
	return levels, err
}

// ListAll 管理端列表，含停用关卡
func (r *LevelRepository) ListAll() ([]model.Level, error) {
	var levels []model.Level
	err := r.DB.Order("level ASC").Find(&levels).Error
	return levels, err
}

func (r *LevelRepository) Update(level *model.Level) error {
	return r.DB.Save(level).Error
}

func (r *LevelRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Level{}, id).Error
}

func (r *LevelRepository) CountActive() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Level{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *LevelRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Level{}).Count(&count).Error
	return count, err
}
