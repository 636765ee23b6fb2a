package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrApprovalRequired   = errors.New("account approval pending")
	ErrAdminRequired      = errors.New("admin privileges required")
	ErrSelfAction         = errors.New("admins cannot perform this action on themselves")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")

	ErrLevelNotFound      = errors.New("level not found")
	ErrLevelExists        = errors.New("level number already exists")
	ErrLevelInactive      = errors.New("level is not active")
	ErrLevelLocked        = errors.New("level is locked")
	ErrLevelHasQuestions  = errors.New("level still has questions")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNoQuestions        = errors.New("level has no active questions")
	ErrUnknownQuestionID  = errors.New("submitted answer references an unknown question")
	ErrDuplicateAnswer    = errors.New("duplicate answer for question")
	ErrConcurrentConflict = errors.New("account was modified concurrently")
)

// 稳定的机器可读错误码，随 4xx 响应返回
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountBlocked     = "ACCOUNT_BLOCKED"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS"
	CodeApprovalRequired   = "APPROVAL_REQUIRED"
	CodeAdminRequired      = "ADMIN_REQUIRED"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeMissingAuthHeader  = "MISSING_AUTH_HEADER"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeNotFound           = "NOT_FOUND"
)
