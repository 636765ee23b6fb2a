package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/util"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func intPtr(v int) *int {
	return &v
}

// 缺省字段保持原值，只有请求里出现的字段才被覆盖
func TestApplyLevelFieldsKeepsOmittedFields(t *testing.T) {
	level := &model.Level{
		Name:         "Temel Seviye 1",
		Level:        1,
		Description:  "Temiz bavul tanıma",
		PassingScore: 70,
		TimeLimit:    30,
	}

	applyLevelFields(level, LevelCreateRequest{
		Name:         "Temel Seviye 1 (güncel)",
		PassingScore: intPtr(80),
	})

	assert.Equal(t, "Temel Seviye 1 (güncel)", level.Name)
	assert.Equal(t, "Temiz bavul tanıma", level.Description)
	assert.Equal(t, 80, level.PassingScore)
	assert.Equal(t, 30, level.TimeLimit)
}

func TestApplyLevelFieldsOverridesDescription(t *testing.T) {
	level := &model.Level{Description: "eski açıklama"}

	applyLevelFields(level, LevelCreateRequest{Description: "yeni açıklama"})

	assert.Equal(t, "yeni açıklama", level.Description)
}

// 唯一索引冲突映射为关卡已存在，其它错误原样透传
func TestLevelWriteErrMapsDuplicateKey(t *testing.T) {
	assert.ErrorIs(t, levelWriteErr(gorm.ErrDuplicatedKey), util.ErrLevelExists)

	other := errors.New("connection reset")
	assert.Equal(t, other, levelWriteErr(other))
}
