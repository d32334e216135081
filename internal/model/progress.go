package model

import "time"

// CourseProgress 用户在单门课程上的进度记录，(user_id, course_id) 唯一。
// 约束：Completed 为 true 时 Progress 必为 100。记录只随学习推进被更新，
// 引擎本身从不删除它。
// swagger:model CourseProgress
type CourseProgress struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_course_progress_user_course;not null" json:"userId"`
	CourseID    string     `gorm:"size:36;uniqueIndex:idx_course_progress_user_course;not null" json:"courseId"`
	Progress    int        `gorm:"default:0" json:"progress"` // 0-100
	Completed   bool       `gorm:"default:false" json:"completed"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// ExerciseCompletion 练习提交日志，只追加。同一练习的多次提交各占一行，
// “练习是否已完成”始终通过扫描日志中 is_correct 的行派生，不单独维护布尔位。
// swagger:model ExerciseCompletion
type ExerciseCompletion struct {
	UUIDBase
	UserID      uint      `gorm:"index:idx_exercise_completions_scope;not null" json:"userId"`
	CourseID    string    `gorm:"size:36;index:idx_exercise_completions_scope;not null" json:"courseId"`
	LessonID    string    `gorm:"size:36;index:idx_exercise_completions_scope;not null" json:"lessonId"`
	ExerciseID  string    `gorm:"size:36;index;not null" json:"exerciseId"`
	Code        string    `gorm:"type:text" json:"code"`
	IsCorrect   bool      `gorm:"not null" json:"isCorrect"`
	Attempts    int       `gorm:"not null" json:"attempts"`
	CompletedAt time.Time `json:"completedAt"`
}

func (ExerciseCompletion) TableName() string {
	return "exercise_completions"
}
