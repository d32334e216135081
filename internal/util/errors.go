package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	// 内容不存在类：对当前操作是致命的，直接返回调用方，不重试
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrTestNotFound     = errors.New("course test not found")

	// 付费墙：高级课程只开放第一课试学
	ErrPremiumRequired = errors.New("premium subscription required")

	// 测验会话状态迁移被拒绝：同步返回，不产生任何状态变更
	ErrSessionNotFound      = errors.New("test session not found")
	ErrTestAlreadySubmitted = errors.New("test already submitted")
	ErrInvalidAnswer        = errors.New("answer does not belong to question")
	ErrInvalidQuestion      = errors.New("question index out of range")

	ErrInvalidProgress   = errors.New("progress must be between 0 and 100")
	ErrAlreadySubscribed = errors.New("user already has an active subscription")
	ErrUnknownPlan       = errors.New("unknown subscription plan")
	ErrMalformedQuestion = errors.New("question has no resolvable correct answer")
)
