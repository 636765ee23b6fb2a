package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type ApprovalState string

const (
	ApprovalPending ApprovalState = "pending"
	ApprovalActive  ApprovalState = "active"
	ApprovalBlocked ApprovalState = "blocked"
)

// swagger:model User
type User struct {
	BaseModel
	Username      string        `gorm:"size:100;unique;not null" json:"username"`
	Email         string        `gorm:"size:100;unique;not null" json:"email"`
	Password      string        `gorm:"size:100;not null" json:"-"`
	Role          UserRole      `gorm:"type:enum('user','admin');default:'user'" json:"role"`
	ApprovalState ApprovalState `gorm:"type:enum('pending','active','blocked');default:'pending'" json:"approvalState"`
	ApprovedBy    *uint         `gorm:"type:bigint unsigned" json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time    `json:"approvedAt,omitempty"`
	BlockedAt     *time.Time    `json:"blockedAt,omitempty"`
	BlockedReason string        `gorm:"size:255" json:"blockedReason,omitempty"`

	// 进度字段，仅由 QuizService 写入
	CurrentLevel int `gorm:"default:1" json:"currentLevel"`
	TotalScore   int `gorm:"default:0" json:"totalScore"`

	// 乐观锁版本号，每次提交测验时 +1
	Version uint `gorm:"default:0" json:"-"`

	LastLogin    time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastActivity time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastActivity"`

	CompletedLevels []CompletedLevel `gorm:"foreignKey:UserID" json:"completedLevels,omitempty"`
	TestHistory     []TestRecord     `gorm:"foreignKey:UserID" json:"testHistory,omitempty"`
	IPAddresses     []UserIP         `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsApproved 管理员始终视为已批准
func (u *User) IsApproved() bool {
	return u.Role == RoleAdmin || u.ApprovalState == ApprovalActive
}

func (u *User) IsBlocked() bool {
	return u.ApprovalState == ApprovalBlocked
}

// CompletedLevel 每个 (user, level) 至多一条，保存该关卡历史最高分
// swagger:model CompletedLevel
type CompletedLevel struct {
	BaseModel
	UserID      uint      `gorm:"index;uniqueIndex:idx_user_level;type:bigint unsigned" json:"-"`
	Level       int       `gorm:"uniqueIndex:idx_user_level;not null" json:"level"`
	BestScore   int       `gorm:"not null" json:"bestScore"`
	CompletedAt time.Time `json:"completedAt"`
}

func (CompletedLevel) TableName() string {
	return "user_completed_levels"
}

// TestRecord 测验历史，只追加不修改
// swagger:model TestRecord
type TestRecord struct {
	BaseModel
	UserID      uint      `gorm:"index;type:bigint unsigned" json:"-"`
	SessionID   string    `gorm:"size:36;index" json:"sessionId"`
	Level       int       `gorm:"index;not null" json:"level"`
	Score       int       `json:"score"`
	Passed      bool      `gorm:"default:false" json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
	TimeSpent   int       `json:"timeSpent"` // 秒
}

func (TestRecord) TableName() string {
	return "user_test_records"
}

// UserIP 记录账号使用过的来源地址
type UserIP struct {
	BaseModel
	UserID   uint      `gorm:"index;uniqueIndex:idx_user_ip;type:bigint unsigned" json:"-"`
	IP       string    `gorm:"size:45;uniqueIndex:idx_user_ip" json:"ip"`
	LastUsed time.Time `json:"lastUsed"`
}

func (UserIP) TableName() string {
	return "user_ips"
}
