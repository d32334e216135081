package service

import (
	"testing"
	"time"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) startSession(t *testing.T, userID uint, courseID string) (*TestSessionView, *TestSession) {
	t.Helper()
	view, err := f.tests.Start(userID, courseID)
	require.NoError(t, err)

	f.tests.mu.Lock()
	session := f.tests.sessions[view.SessionID]
	f.tests.mu.Unlock()
	require.NotNil(t, session)
	return view, session
}

// answerQuestions 按正确答案回答前 correct 道题，其余答错（选最后一个选项）。
func (f *fixture) answerQuestions(t *testing.T, userID uint, view *TestSessionView, correct int) {
	t.Helper()
	for i, question := range view.Questions {
		answerID := question.CorrectAnswerID
		if i >= correct {
			answerID = question.Answers[len(question.Answers)-1].ID
		}
		require.NoError(t, f.tests.Answer(view.SessionID, userID, i, answerID))
	}
}

func (f *fixture) countResults(t *testing.T, userID uint, courseID string) int {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.TestResult{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error)
	return int(count)
}

func TestStartTestErrors(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)

	_, err := f.tests.Start(user.ID, "nope")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = f.tests.Start(user.ID, "py")
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestStartTestPremiumGate(t *testing.T) {
	f := newFixture(t)
	freeUser := f.createUser(t, model.RoleFree)
	premiumUser := f.createUser(t, model.RolePremium)
	f.createCourse(t, "ml", true)
	f.createTest(t, "ml", 3, 10)

	// 结课测验不属于第一课试学范围
	_, err := f.tests.Start(freeUser.ID, "ml")
	assert.ErrorIs(t, err, util.ErrPremiumRequired)

	view, err := f.tests.Start(premiumUser.ID, "ml")
	require.NoError(t, err)
	assert.Equal(t, SessionInProgress, view.State)
	f.tests.Cancel(view.SessionID, premiumUser.ID)
}

func TestStartTestMalformedQuestion(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)

	test := &model.CourseTest{
		UUIDBase:  model.UUIDBase{ID: "py-test"},
		CourseID:  "py",
		TimeLimit: 10,
		Questions: []model.TestQuestion{
			{
				UUIDBase:        model.UUIDBase{ID: "q-bad"},
				TestID:          "py-test",
				Position:        0,
				Prompt:          "Broken question",
				CorrectAnswerID: "not-an-option",
				Answers: []model.TestAnswer{
					{UUIDBase: model.UUIDBase{ID: "a-1"}, QuestionID: "q-bad", Position: 0, Text: "A"},
					{UUIDBase: model.UUIDBase{ID: "a-2"}, QuestionID: "q-bad", Position: 1, Text: "B"},
				},
			},
		},
	}
	require.NoError(t, f.db.Create(test).Error)

	// 正确答案不在选项中的题直接失败，不让它悄悄变成“不可答对”
	_, err := f.tests.Start(user.ID, "py")
	assert.ErrorIs(t, err, util.ErrMalformedQuestion)
}

func TestSubmitScoringBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		questions  int
		correct    int
		wantScore  int
		wantPassed bool
	}{
		{"7 of 10 is exactly passing", 10, 7, 70, true},
		{"6 of 10 fails", 10, 6, 60, false},
		{"2 of 3 rounds to 67 and fails", 3, 2, 67, false},
		{"all correct", 4, 4, 100, true},
		{"none correct", 4, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.createUser(t, model.RoleFree)
			f.createCourse(t, "py", false)
			f.createTest(t, "py", tt.questions, 10)

			view, _ := f.startSession(t, user.ID, "py")
			f.answerQuestions(t, user.ID, view, tt.correct)

			result, err := f.tests.Submit(view.SessionID, user.ID)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.correct, result.CorrectAnswers)
			assert.Equal(t, tt.questions, result.TotalQuestions)
			assert.Equal(t, tt.wantPassed, result.Passed)
		})
	}
}

func TestSubmitCountsUnansweredAsWrong(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 4, 10)

	view, _ := f.startSession(t, user.ID, "py")
	// 只答一题，其余三题未作答
	require.NoError(t, f.tests.Answer(view.SessionID, user.ID, 0, view.Questions[0].CorrectAnswerID))

	result, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, result.Score)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.False(t, result.Passed)
}

func TestSubmitIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 4, 10)

	view, _ := f.startSession(t, user.ID, "py")
	f.answerQuestions(t, user.ID, view, 4)

	first, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)

	// 重复交卷返回同一份结果，不产生第二次判分或第二行记录
	second, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, f.countResults(t, user.ID, "py"))
}

func TestAnswerValidation(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 2, 10)

	view, _ := f.startSession(t, user.ID, "py")

	err := f.tests.Answer(view.SessionID, user.ID, 5, view.Questions[0].CorrectAnswerID)
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)

	// 别的题的选项不属于这道题
	err = f.tests.Answer(view.SessionID, user.ID, 0, view.Questions[1].Answers[0].ID)
	assert.ErrorIs(t, err, util.ErrInvalidAnswer)

	err = f.tests.Answer("no-such-session", user.ID, 0, view.Questions[0].CorrectAnswerID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	// 他人的会话不可见
	other := f.createUser(t, model.RoleFree)
	err = f.tests.Answer(view.SessionID, other.ID, 0, view.Questions[0].CorrectAnswerID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestAnswerAfterSubmitRejected(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 2, 10)

	view, _ := f.startSession(t, user.ID, "py")
	_, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)

	err = f.tests.Answer(view.SessionID, user.ID, 0, view.Questions[0].CorrectAnswerID)
	assert.ErrorIs(t, err, util.ErrTestAlreadySubmitted)
}

func TestCountdownAutoSubmitsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 4, 1)

	view, session := f.startSession(t, user.ID, "py")
	f.answerQuestions(t, user.ID, view, 3)

	// 模拟倒计时走完。归零的那一次 tick 触发自动交卷，之后的 tick 都是空操作
	done := false
	for i := 0; i < view.RemainingSeconds+10; i++ {
		if f.tests.Tick(session) {
			done = true
			break
		}
	}
	require.True(t, done)

	for i := 0; i < 5; i++ {
		assert.True(t, f.tests.Tick(session))
	}

	result, err := f.tests.GetResult(view.SessionID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, f.countResults(t, user.ID, "py"))

	// 自动交卷后手动交卷拿到同一份结果
	again, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)
	assert.Same(t, result, again)
	assert.Equal(t, 1, f.countResults(t, user.ID, "py"))
}

func TestCancelStopsSession(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 2, 10)

	view, session := f.startSession(t, user.ID, "py")
	f.tests.Cancel(view.SessionID, user.ID)

	// 放弃后不会再有迟到的自动交卷
	assert.True(t, f.tests.Tick(session))
	assert.Equal(t, 0, f.countResults(t, user.ID, "py"))

	_, err := f.tests.GetSession(view.SessionID, user.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	// 重复取消是空操作
	f.tests.Cancel(view.SessionID, user.ID)
}

func TestPassingMarksCourseCompleted(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 4, 10)

	// 测验通过是课程完结的另一条终点路径，哪怕逐课进度只有 40%
	require.NoError(t, f.progress.UpdateProgress(user.ID, "py", 40, false))

	view, _ := f.startSession(t, user.ID, "py")
	f.answerQuestions(t, user.ID, view, 4)

	result, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)
	require.True(t, result.Passed)

	progress, err := f.progress.GetCourseProgress(user.ID, "py")
	require.NoError(t, err)
	assert.Equal(t, 100, progress.Progress)
	assert.True(t, progress.Completed)
}

func TestFailingLeavesProgressUntouched(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 4, 10)

	require.NoError(t, f.progress.UpdateProgress(user.ID, "py", 40, false))

	view, _ := f.startSession(t, user.ID, "py")
	f.answerQuestions(t, user.ID, view, 1)

	result, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)
	require.False(t, result.Passed)

	progress, err := f.progress.GetCourseProgress(user.ID, "py")
	require.NoError(t, err)
	assert.Equal(t, 40, progress.Progress)
	assert.False(t, progress.Completed)

	// 挂科结果照常落库，可以开新会话重考
	assert.Equal(t, 1, f.countResults(t, user.ID, "py"))
	view2, _ := f.startSession(t, user.ID, "py")
	assert.Equal(t, SessionInProgress, view2.State)
	f.tests.Cancel(view2.SessionID, user.ID)
}

func TestSessionSnapshotHidesCorrectAnswers(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 2, 10)

	view, _ := f.startSession(t, user.ID, "py")
	assert.Equal(t, 2, view.TotalQuestions)
	assert.Equal(t, 10, view.TimeLimit)
	assert.Equal(t, 600, view.RemainingSeconds)

	// 轮询快照不携带题目
	snapshot, err := f.tests.GetSession(view.SessionID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, snapshot.Questions)
	assert.Equal(t, SessionInProgress, snapshot.State)
	f.tests.Cancel(view.SessionID, user.ID)
}

func TestSweepExpired(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)
	f.createTest(t, "py", 2, 10)

	view, _ := f.startSession(t, user.ID, "py")
	_, err := f.tests.Submit(view.SessionID, user.ID)
	require.NoError(t, err)

	// 保留期内不清理
	f.tests.SweepExpired(time.Hour)
	_, err = f.tests.GetSession(view.SessionID, user.ID)
	require.NoError(t, err)

	// 保留期为零时已完成会话被清掉，进行中的不受影响
	view2, _ := f.startSession(t, user.ID, "py")
	f.tests.SweepExpired(0)

	_, err = f.tests.GetSession(view.SessionID, user.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	_, err = f.tests.GetSession(view2.SessionID, user.ID)
	require.NoError(t, err)
	f.tests.Cancel(view2.SessionID, user.ID)
}
