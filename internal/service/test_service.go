package service

import (
	"math"
	"sync"
	"time"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/internal/util"
	"github.com/jk08y/PyAIApp/pkg/logger"
	"github.com/jk08y/PyAIApp/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TestSessionState string

const (
	SessionInProgress TestSessionState = "in_progress"
	SessionCompleted  TestSessionState = "completed"
)

// 触发判分的途径，用于埋点
const (
	triggerManual = "manual"
	triggerAuto   = "auto"
)

// TestSession 一次测验会话。状态机只有两个状态：in_progress -> completed，
// completed 为终态，重考必须开新会话。
//
// answers、倒计时和状态只能在持有 mu 时访问：手动交卷、定时 tick 的归零检查
// 和答题彼此互斥，保证判分恰好发生一次。
type TestSession struct {
	ID       string
	UserID   uint
	CourseID string

	mu           sync.Mutex
	state        TestSessionState
	test         *model.CourseTest
	answers      map[int]string
	remaining    int // 剩余秒数
	limitSeconds int
	result       *model.TestResult
	completedAt  time.Time

	// done 关闭后倒计时 goroutine 退出；stopOnce 保证重复取消是空操作
	done     chan struct{}
	stopOnce sync.Once
}

func (s *TestSession) stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// TestService 测验服务：会话生命周期、倒计时、判分。
// 会话保存在内存中，判分结果落库；进程重启中断的会话由客户端重新开始。
type TestService struct {
	TestRepo   *repository.TestRepository
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
	Progress   *ProgressService

	mu       sync.Mutex
	sessions map[string]*TestSession
}

func NewTestService(
	testRepo *repository.TestRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	progress *ProgressService,
) *TestService {
	return &TestService{
		TestRepo:   testRepo,
		CourseRepo: courseRepo,
		UserRepo:   userRepo,
		Progress:   progress,
		sessions:   make(map[string]*TestSession),
	}
}

// TestSessionView 返回给客户端的会话快照，不含正确答案
// swagger:model TestSessionView
type TestSessionView struct {
	SessionID        string               `json:"sessionId"`
	CourseID         string               `json:"courseId"`
	State            TestSessionState     `json:"state"`
	TimeLimit        int                  `json:"timeLimit"` // 分钟
	RemainingSeconds int                  `json:"remainingSeconds"`
	TotalQuestions   int                  `json:"totalQuestions"`
	AnsweredCount    int                  `json:"answeredCount"`
	Questions        []model.TestQuestion `json:"questions,omitempty"`
}

// Start 开始一次测验。高级课程的测验只对付费用户开放（结课测验不属于
// 第一课试学范围）。题目内容缺陷（正确答案不在选项中）在这里直接失败，
// 不会让一道题悄悄变成“不可答对”。
func (s *TestService) Start(userID uint, courseID string) (*TestSessionView, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if course.IsPremium && !user.IsPremiumUser() {
		return nil, util.ErrPremiumRequired
	}

	test, err := s.TestRepo.FindByCourseID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	for i := range test.Questions {
		q := &test.Questions[i]
		if !q.HasAnswer(q.CorrectAnswerID) {
			logger.Log.Error("malformed test question",
				zap.String("testId", test.ID),
				zap.String("questionId", q.ID))
			return nil, util.ErrMalformedQuestion
		}
	}

	session := &TestSession{
		ID:           model.GenerateUUID(),
		UserID:       userID,
		CourseID:     courseID,
		state:        SessionInProgress,
		test:         test,
		answers:      make(map[int]string),
		remaining:    test.TimeLimit * 60,
		limitSeconds: test.TimeLimit * 60,
		done:         make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	go s.runCountdown(session)

	return s.snapshot(session, true), nil
}

// runCountdown 每秒递减一次倒计时，归零时强制交卷。会话完成后退出。
func (s *TestService) runCountdown(session *TestSession) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-session.done:
			return
		case <-ticker.C:
			if s.Tick(session) {
				return
			}
		}
	}
}

// Tick 推进一秒倒计时，返回会话是否已结束。
// 归零和手动交卷都经由 finalize 的状态检查，判分只会发生一次。
func (s *TestService) Tick(session *TestSession) bool {
	session.mu.Lock()
	if session.state != SessionInProgress {
		session.mu.Unlock()
		return true
	}

	session.remaining--
	if session.remaining > 0 {
		session.mu.Unlock()
		return false
	}

	session.remaining = 0
	result := s.finalizeLocked(session)
	session.mu.Unlock()

	s.persistResult(session, result, triggerAuto)
	return true
}

func (s *TestService) findSession(sessionID string, userID uint) (*TestSession, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok || session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

// Answer 记录单选答案，后答覆盖先答。只在 in_progress 状态下允许；
// 不属于该题的选项被拒绝，不产生任何状态变更。
func (s *TestService) Answer(sessionID string, userID uint, questionIndex int, answerID string) error {
	session, err := s.findSession(sessionID, userID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state != SessionInProgress {
		return util.ErrTestAlreadySubmitted
	}
	if questionIndex < 0 || questionIndex >= len(session.test.Questions) {
		return util.ErrInvalidQuestion
	}
	if !session.test.Questions[questionIndex].HasAnswer(answerID) {
		return util.ErrInvalidAnswer
	}

	session.answers[questionIndex] = answerID
	return nil
}

// Submit 手动交卷。对已完成的会话重复调用返回同一份结果（幂等）。
func (s *TestService) Submit(sessionID string, userID uint) (*model.TestResult, error) {
	session, err := s.findSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	if session.state == SessionCompleted {
		result := session.result
		session.mu.Unlock()
		return result, nil
	}
	result := s.finalizeLocked(session)
	session.mu.Unlock()

	s.persistResult(session, result, triggerManual)
	return result, nil
}

// finalizeLocked 判分并落终态，调用方必须持有 session.mu 且状态为 in_progress。
// 未作答的题按答错计，不抛错。
func (s *TestService) finalizeLocked(session *TestSession) *model.TestResult {
	correct := 0
	for i := range session.test.Questions {
		if session.answers[i] == session.test.Questions[i].CorrectAnswerID {
			correct++
		}
	}

	total := len(session.test.Questions)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	result := &model.TestResult{
		UserID:           session.UserID,
		CourseID:         session.CourseID,
		Score:            score,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		Passed:           score >= PassingScore,
		TimeSpentSeconds: session.limitSeconds - session.remaining,
		CompletedAt:      time.Now(),
	}

	session.state = SessionCompleted
	session.result = result
	session.completedAt = result.CompletedAt
	session.stop()

	return result
}

// persistResult 判分结果的落库和及格后的课程完结都是尽力而为：
// 写库失败只记日志，本地算出的结果对用户仍然有效，不会被回滚或隐藏。
func (s *TestService) persistResult(session *TestSession, result *model.TestResult, trigger string) {
	label := "fail"
	if result.Passed {
		label = "pass"
	}
	monitoring.TestSubmissions.WithLabelValues(label, trigger).Inc()

	if err := s.TestRepo.AppendResult(result); err != nil {
		logger.Log.Error("failed to persist test result",
			zap.Uint("userId", session.UserID),
			zap.String("courseId", session.CourseID),
			zap.Error(err))
	}

	// 通过测验是课程完结的另一条终点路径，绕过逐课时的进度统计
	if result.Passed {
		if err := s.Progress.UpdateProgress(session.UserID, session.CourseID, 100, true); err != nil {
			logger.Log.Error("failed to mark course completed",
				zap.Uint("userId", session.UserID),
				zap.String("courseId", session.CourseID),
				zap.Error(err))
		}
	}
}

// Cancel 放弃会话（离开测验页/组件销毁）。停止倒计时，之后不会再有
// 迟到的自动交卷。重复取消是空操作。
func (s *TestService) Cancel(sessionID string, userID uint) {
	session, err := s.findSession(sessionID, userID)
	if err != nil {
		return
	}

	session.mu.Lock()
	if session.state == SessionInProgress {
		session.state = SessionCompleted
		session.completedAt = time.Now()
	}
	session.stop()
	session.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// GetSession 返回会话快照（不含题目，供恢复界面轮询）
func (s *TestService) GetSession(sessionID string, userID uint) (*TestSessionView, error) {
	session, err := s.findSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(session, false), nil
}

// GetResult 返回已完成会话的判分结果
func (s *TestService) GetResult(sessionID string, userID uint) (*model.TestResult, error) {
	session, err := s.findSession(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.result == nil {
		return nil, util.ErrTestAlreadySubmitted
	}
	return session.result, nil
}

func (s *TestService) snapshot(session *TestSession, withQuestions bool) *TestSessionView {
	session.mu.Lock()
	defer session.mu.Unlock()

	view := &TestSessionView{
		SessionID:        session.ID,
		CourseID:         session.CourseID,
		State:            session.state,
		TimeLimit:        session.test.TimeLimit,
		RemainingSeconds: session.remaining,
		TotalQuestions:   len(session.test.Questions),
		AnsweredCount:    len(session.answers),
	}
	if withQuestions {
		view.Questions = session.test.Questions
	}
	return view
}

// SweepExpired 清理已完成且超过保留期的会话，由后台任务周期调用
func (s *TestService) SweepExpired(retention time.Duration) {
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		session.mu.Lock()
		expired := session.state == SessionCompleted && session.completedAt.Before(cutoff)
		session.mu.Unlock()
		if expired {
			delete(s.sessions, id)
		}
	}
}
