package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func validDirtyQuestion() *Question {
	return &Question{
		Text:          "Bu bavulda ne var?",
		CorrectAnswer: AnswerDirty,
		DirtyReason:   ReasonExplosiveDevice,
		DirtyOptions: DirtyOptionList{
			{Value: ReasonExplosiveDevice, Label: "Patlayıcı"},
			{Value: ReasonSharpObjects, Label: "Kesici alet"},
		},
		Level: 1,
	}
}

func TestQuestionValidateClean(t *testing.T) {
	q := &Question{Text: "Temiz bavul", CorrectAnswer: AnswerClean, Level: 1}
	assert.NoError(t, q.Validate())
}

func TestQuestionValidateDirty(t *testing.T) {
	assert.NoError(t, validDirtyQuestion().Validate())
}

func TestQuestionValidateInvalidAnswer(t *testing.T) {
	q := &Question{Text: "x", CorrectAnswer: "maybe"}
	assert.Error(t, q.Validate())
}

func TestQuestionValidateDirtyMissingReason(t *testing.T) {
	q := validDirtyQuestion()
	q.DirtyReason = ""
	assert.ErrorIs(t, q.Validate(), ErrDirtyReasonRequired)
}

func TestQuestionValidateDirtyUnknownReason(t *testing.T) {
	q := validDirtyQuestion()
	q.DirtyReason = "radioactive_material"
	assert.ErrorIs(t, q.Validate(), ErrDirtyReasonUnknown)
}

func TestQuestionValidateDirtyNoOptions(t *testing.T) {
	q := validDirtyQuestion()
	q.DirtyOptions = nil
	assert.ErrorIs(t, q.Validate(), ErrDirtyOptionsRequired)
}

// 候选项必须包含真实原因，否则题目无解
func TestQuestionValidateOptionsMissingCorrectReason(t *testing.T) {
	q := validDirtyQuestion()
	q.DirtyOptions = DirtyOptionList{
		{Value: ReasonGasBomb, Label: "Gaz bombası"},
	}
	assert.ErrorIs(t, q.Validate(), ErrDirtyOptionsMissing)
}

func TestQuestionValidateOptionWithUnknownReason(t *testing.T) {
	q := validDirtyQuestion()
	q.DirtyOptions = append(q.DirtyOptions, DirtyOption{Value: "poison", Label: "Zehir"})
	assert.ErrorIs(t, q.Validate(), ErrDirtyReasonUnknown)
}

func TestQuestionValidateCleanWithDirtyFields(t *testing.T) {
	q := &Question{
		Text:          "Temiz bavul",
		CorrectAnswer: AnswerClean,
		DirtyReason:   ReasonGasBomb,
	}
	assert.ErrorIs(t, q.Validate(), ErrDirtyFieldsOnClean)
}

// 学员视图不得泄漏答案字段
func TestPublicViewStripsAnswers(t *testing.T) {
	q := validDirtyQuestion()
	q.ID = 9
	q.Explanation = "Patlayıcı düzenek içeriyor"

	view := q.PublicView()

	assert.Equal(t, uint(9), view.ID)
	assert.Equal(t, q.Text, view.Text)
	assert.Equal(t, q.DirtyOptions, view.DirtyOptions)

	// 序列化后也不应出现答案相关字段
	assert.NotContains(t, mustJSON(t, view), "correctAnswer")
	assert.NotContains(t, mustJSON(t, view), "dirtyReason")
	assert.NotContains(t, mustJSON(t, view), "explanation")
}

func TestDirtyOptionListRoundTrip(t *testing.T) {
	list := DirtyOptionList{
		{Value: ReasonWeaponParts, Label: "Silah parçası"},
	}

	raw, err := list.Value()
	require.NoError(t, err)

	var decoded DirtyOptionList
	require.NoError(t, decoded.Scan(raw))
	assert.Equal(t, list, decoded)

	assert.True(t, decoded.Contains(ReasonWeaponParts))
	assert.False(t, decoded.Contains(ReasonGasBomb))
}

func TestDirtyOptionListScanNil(t *testing.T) {
	var list DirtyOptionList
	require.NoError(t, list.Scan(nil))
	assert.Nil(t, list)
}

func TestDirtyReasonValid(t *testing.T) {
	for _, reason := range AllDirtyReasons {
		assert.True(t, reason.Valid(), string(reason))
	}
	assert.False(t, DirtyReason("poison").Valid())
	assert.False(t, DirtyReason("").Valid())
}
