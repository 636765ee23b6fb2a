package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// AnswerValue 行李判定结果：干净 / 危险
type AnswerValue string

const (
	AnswerClean AnswerValue = "clean"
	AnswerDirty AnswerValue = "dirty"
)

func (v AnswerValue) Valid() bool {
	return v == AnswerClean || v == AnswerDirty
}

// DirtyReason 危险行李原因，封闭枚举
type DirtyReason string

const (
	ReasonExplosiveDevice  DirtyReason = "explosive_device"
	ReasonWeaponParts      DirtyReason = "weapon_parts"
	ReasonSharpObjects     DirtyReason = "sharp_objects"
	ReasonMartialArtsEquip DirtyReason = "martial_arts_equipment"
	ReasonGasBomb          DirtyReason = "gas_bomb"
)

var AllDirtyReasons = []DirtyReason{
	ReasonExplosiveDevice,
	ReasonWeaponParts,
	ReasonSharpObjects,
	ReasonMartialArtsEquip,
	ReasonGasBomb,
}

func (r DirtyReason) Valid() bool {
	for _, known := range AllDirtyReasons {
		if r == known {
			return true
		}
	}
	return false
}

// DirtyOption 展示给学员的候选原因
type DirtyOption struct {
	Value DirtyReason `json:"value"`
	Label string      `json:"label"`
}

// DirtyOptionList 以 JSON 存储在 questions 表中
type DirtyOptionList []DirtyOption

func (l DirtyOptionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *DirtyOptionList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into DirtyOptionList", value)
		}
	}
	return json.Unmarshal(bytes, l)
}

func (l DirtyOptionList) Contains(reason DirtyReason) bool {
	for _, opt := range l {
		if opt.Value == reason {
			return true
		}
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel

	Text          string      `gorm:"type:text;not null" json:"text"`
	CorrectAnswer AnswerValue `gorm:"type:enum('clean','dirty');not null" json:"correctAnswer"`

	// 仅当 CorrectAnswer == dirty 时必填
	DirtyReason  DirtyReason     `gorm:"size:50" json:"dirtyReason,omitempty"`
	DirtyOptions DirtyOptionList `gorm:"type:json" json:"dirtyOptions,omitempty"`

	Level       int    `gorm:"index;not null" json:"level"`
	Points      int    `gorm:"default:10" json:"points"`
	Image       string `gorm:"size:255" json:"image,omitempty"`
	Explanation string `gorm:"type:text" json:"explanation"`
	Difficulty  string `gorm:"type:enum('easy','medium','hard');default:'medium'" json:"difficulty"`
	Category    string `gorm:"size:100;default:'general'" json:"category"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	CreatedBy uint `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (Question) TableName() string {
	return "questions"
}

var (
	ErrDirtyReasonRequired  = errors.New("dirty questions require a dirty reason")
	ErrDirtyReasonUnknown   = errors.New("unknown dirty reason")
	ErrDirtyOptionsRequired = errors.New("dirty questions require at least one dirty option")
	ErrDirtyOptionsMissing  = errors.New("dirty options must include the correct reason")
	ErrDirtyFieldsOnClean   = errors.New("clean questions must not carry dirty fields")
)

// Validate 校验 dirtyReason/dirtyOptions 不变量：
// dirty 题必须有合法原因且候选项包含真实原因，clean 题不得携带脏字段。
func (q *Question) Validate() error {
	if !q.CorrectAnswer.Valid() {
		return fmt.Errorf("invalid correct answer %q", q.CorrectAnswer)
	}
	if q.CorrectAnswer == AnswerClean {
		if q.DirtyReason != "" || len(q.DirtyOptions) > 0 {
			return ErrDirtyFieldsOnClean
		}
		return nil
	}
	if q.DirtyReason == "" {
		return ErrDirtyReasonRequired
	}
	if !q.DirtyReason.Valid() {
		return ErrDirtyReasonUnknown
	}
	if len(q.DirtyOptions) == 0 {
		return ErrDirtyOptionsRequired
	}
	for _, opt := range q.DirtyOptions {
		if !opt.Value.Valid() {
			return ErrDirtyReasonUnknown
		}
	}
	if !q.DirtyOptions.Contains(q.DirtyReason) {
		return ErrDirtyOptionsMissing
	}
	return nil
}

// PublicView 学员视图，剥离答案字段
// swagger:model PublicQuestion
type PublicQuestion struct {
	ID           uint            `json:"id"`
	Text         string          `json:"text"`
	DirtyOptions DirtyOptionList `json:"dirtyOptions,omitempty"`
	Level        int             `json:"level"`
	Points       int             `json:"points"`
	Image        string          `json:"image,omitempty"`
	Difficulty   string          `json:"difficulty"`
	Category     string          `json:"category"`
}

func (q *Question) PublicView() PublicQuestion {
	return PublicQuestion{
		ID:           q.ID,
		Text:         q.Text,
		DirtyOptions: q.DirtyOptions,
		Level:        q.Level,
		Points:       q.Points,
		Image:        q.Image,
		Difficulty:   q.Difficulty,
		Category:     q.Category,
	}
}
