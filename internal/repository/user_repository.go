package repository

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// FindByIDWithProgress 预加载进度关联，供进度引擎和统计使用
func (r *UserRepository) FindByIDWithProgress(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("CompletedLevels").Preload("TestHistory").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsernameOrEmail(username, email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ? OR email = ?", username, email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) Delete(id uint) error {
	return r.DB.Delete(&model.User{}, id).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_activity", time.Now()).
		Error
}

// RecordIP 登录成功后更新来源地址记录
func (r *UserRepository) RecordIP(userID uint, ip string) error {
	var existing model.UserIP
	err := r.DB.Where("user_id = ? AND ip = ?", userID, ip).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.UserIP{UserID: userID, IP: ip, LastUsed: time.Now()}).Error
	}
	if err != nil {
		return err
	}
	existing.LastUsed = time.Now()
	return r.DB.Save(&existing).Error
}

// SubmissionUpdate 一次测验提交要落库的全部变更
type SubmissionUpdate struct {
	Record       model.TestRecord
	Completed    *model.CompletedLevel // nil 表示最高分未变化
	CurrentLevel int
	TotalScore   int
}

// ApplySubmission 以乐观锁提交进度变更。
// users 行按 version 做 compare-and-swap，冲突时返回 ErrConcurrentConflict，
// 由调用方重新读取后重试。
func (r *UserRepository) ApplySubmission(user *model.User, upd SubmissionUpdate) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND version = ?", user.ID, user.Version).
			Updates(map[string]interface{}{
				"current_level": upd.CurrentLevel,
				"total_score":   upd.TotalScore,
				"last_activity": time.Now(),
				"version":       user.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrConcurrentConflict
		}

		record := upd.Record
		record.UserID = user.ID
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if upd.Completed != nil {
			completed := *upd.Completed
			completed.UserID = user.ID
			if completed.ID == 0 {
				if err := tx.Create(&completed).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Model(&model.CompletedLevel{}).
					Where("id = ?", completed.ID).
					Updates(map[string]interface{}{
						"best_score":   completed.BestScore,
						"completed_at": completed.CompletedAt,
					}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// UserFilter 管理端用户列表筛选条件
type UserFilter struct {
	Role          string
	ApprovalState string
	Search        string
}

func (r *UserRepository) List(page, pageSize int, filter UserFilter) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.ApprovalState != "" {
		query = query.Where("approval_state = ?", filter.ApprovalState)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	query.Count(&total)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users).Error

	return users, total, err
}

// Leaderboard 排行榜查询：已批准学员按 当前关卡 desc、总分 desc、注册时间 asc
func (r *UserRepository) Leaderboard(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Preload("CompletedLevels").
		Where("role = ? AND approval_state = ?", model.RoleUser, model.ApprovalActive).
		Order("current_level DESC").
		Order("total_score DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) CountByRole(role model.UserRole) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// CountActiveLearners 近 7 天活跃的已批准学员数
func (r *UserRepository) CountActiveLearners(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("role = ? AND approval_state = ? AND last_activity >= ?", model.RoleUser, model.ApprovalActive, since).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) HighestCurrentLevel() (int, error) {
	var level *int
	err := r.DB.Model(&model.User{}).
		Where("role = ?", model.RoleUser).
		Select("MAX(current_level)").
		Scan(&level).Error
	if err != nil || level == nil {
		return 0, err
	}
	return *level, nil
}

func (r *UserRepository) CountAtLevel(level int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("role = ? AND current_level = ?", model.RoleUser, level).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) CountCompletedLevel(level int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CompletedLevel{}).
		Joins("JOIN users ON users.id = user_completed_levels.user_id").
		Where("users.role = ? AND user_completed_levels.level = ?", model.RoleUser, level).
		Count(&count).Error
	return count, err
}
