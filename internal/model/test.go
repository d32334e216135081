package model

import "time"

// CourseTest 课程的限时结课测验，单选题。
// swagger:model CourseTest
type CourseTest struct {
	UUIDBase
	CourseID  string `gorm:"size:36;uniqueIndex;not null" json:"courseId"`
	Title     string `gorm:"size:200" json:"title"`
	TimeLimit int    `gorm:"not null" json:"timeLimit"` // 分钟

	Questions []TestQuestion `gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (CourseTest) TableName() string {
	return "course_tests"
}

// swagger:model TestQuestion
type TestQuestion struct {
	UUIDBase
	TestID          string `gorm:"size:36;index;not null" json:"testId"`
	Position        int    `gorm:"not null" json:"position"`
	Prompt          string `gorm:"type:text;not null" json:"prompt"`
	CodeSnippet     string `gorm:"type:text" json:"codeSnippet,omitempty"`
	CorrectAnswerID string `gorm:"size:36;not null" json:"-"`

	Answers []TestAnswer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}

// HasAnswer 判断选项是否属于该题目。
func (q *TestQuestion) HasAnswer(answerID string) bool {
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			return true
		}
	}
	return false
}

// swagger:model TestAnswer
type TestAnswer struct {
	UUIDBase
	QuestionID string `gorm:"size:36;index;not null" json:"questionId"`
	Position   int    `gorm:"not null" json:"position"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

func (TestAnswer) TableName() string {
	return "test_answers"
}

// TestResult 一次测验的判分结果，只追加不修改。
// swagger:model TestResult
type TestResult struct {
	UUIDBase
	UserID           uint      `gorm:"index:idx_test_results_user_course;not null" json:"userId"`
	CourseID         string    `gorm:"size:36;index:idx_test_results_user_course;not null" json:"courseId"`
	Score            int       `gorm:"not null" json:"score"`
	TotalQuestions   int       `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers   int       `gorm:"not null" json:"correctAnswers"`
	Passed           bool      `gorm:"not null" json:"passed"`
	TimeSpentSeconds int       `gorm:"not null" json:"timeSpentSeconds"`
	CompletedAt      time.Time `json:"completedAt"`
}

func (TestResult) TableName() string {
	return "test_results"
}
