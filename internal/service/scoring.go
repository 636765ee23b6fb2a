package service

import (
	"baggage_quiz_backend/internal/model"
	"baggage_quiz_backend/internal/util"
	"fmt"
	"math"
)

// AnswerSubmission 学员对单题的作答。DirtyReason 仅在判定 dirty 时有意义。
// swagger:model AnswerSubmission
type AnswerSubmission struct {
	QuestionID  uint              `json:"questionId" binding:"required"`
	Answer      model.AnswerValue `json:"answer"`
	DirtyReason model.DirtyReason `json:"dirtyReason,omitempty"`
}

// QuestionResult 单题判定结果，回传给客户端用于讲解
// swagger:model QuestionResult
type QuestionResult struct {
	QuestionID    uint              `json:"questionId"`
	UserAnswer    *AnswerSubmission `json:"userAnswer,omitempty"`
	CorrectAnswer model.AnswerValue `json:"correctAnswer"`
	DirtyReason   model.DirtyReason `json:"dirtyReason,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	IsCorrect     bool              `json:"isCorrect"`
}

// EvalResult 一次测验的评分结果
type EvalResult struct {
	Results        []QuestionResult `json:"results"`
	CorrectCount   int              `json:"correctAnswers"`
	TotalQuestions int              `json:"totalQuestions"`
	Score          int              `json:"score"` // 0–100，四舍五入
}

// EvaluateAnswers 按 questionId 将作答与题目配对并评分。
//
// 判定规则：顶层答案必须等于题目的 correctAnswer；当正确答案为 dirty 时
// 还要求 dirtyReason 完全一致，不给部分分。缺答计错，不从分母剔除。
// 提交中引用未知题目或重复题目视为校验错误，评分前拒绝。
// 空题目集是调用方契约违反，不得静默计为 0 或 100。
func EvaluateAnswers(questions []model.Question, answers []AnswerSubmission) (*EvalResult, error) {
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	known := make(map[uint]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	byQuestion := make(map[uint]AnswerSubmission, len(answers))
	for _, a := range answers {
		if !known[a.QuestionID] {
			return nil, fmt.Errorf("%w: %d", util.ErrUnknownQuestionID, a.QuestionID)
		}
		if _, dup := byQuestion[a.QuestionID]; dup {
			return nil, fmt.Errorf("%w: %d", util.ErrDuplicateAnswer, a.QuestionID)
		}
		byQuestion[a.QuestionID] = a
	}

	result := &EvalResult{
		Results:        make([]QuestionResult, 0, len(questions)),
		TotalQuestions: len(questions),
	}

	for _, q := range questions {
		qr := QuestionResult{
			QuestionID:    q.ID,
			CorrectAnswer: q.CorrectAnswer,
			DirtyReason:   q.DirtyReason,
			Explanation:   q.Explanation,
		}

		if a, ok := byQuestion[q.ID]; ok {
			answer := a
			qr.UserAnswer = &answer
			qr.IsCorrect = isCorrect(&q, a)
		}

		if qr.IsCorrect {
			result.CorrectCount++
		}
		result.Results = append(result.Results, qr)
	}

	result.Score = percentScore(result.CorrectCount, result.TotalQuestions)
	return result, nil
}

func isCorrect(q *model.Question, a AnswerSubmission) bool {
	if a.Answer != q.CorrectAnswer {
		return false
	}
	if q.CorrectAnswer == model.AnswerDirty {
		return a.DirtyReason == q.DirtyReason
	}
	return true
}

// percentScore 四舍五入到整数百分比
func percentScore(correct, total int) int {
	return int(math.Round(float64(correct) / float64(total) * 100))
}
