package model

// swagger:model Level
type Level struct {
	BaseModel

	Name        string `gorm:"size:255;not null" json:"name"`
	Level       int    `gorm:"unique;not null" json:"level"` // 关卡序号，从 1 开始连续
	Description string `gorm:"type:text" json:"description"`

	MinScore     int  `gorm:"default:0" json:"minScore"`
	MaxScore     int  `gorm:"default:100" json:"maxScore"`
	PassingScore int  `gorm:"default:70" json:"passingScore"` // 0–100 百分比
	TimeLimit    int  `gorm:"default:30" json:"timeLimit"`    // 分钟
	QuestionCnt  int  `gorm:"column:question_count;default:10" json:"questionCount"`
	IsActive     bool `gorm:"default:true" json:"isActive"`

	RewardPoints int    `gorm:"default:0" json:"rewardPoints"`
	RewardBadge  string `gorm:"size:100" json:"rewardBadge"`

	CreatedBy uint `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (Level) TableName() string {
	return "levels"
}
