package model

import (
	"encoding/json"
)

// 课程分类，与移动端筛选项保持一致
const (
	CategoryPython      = "python"
	CategoryAI          = "ai"
	CategoryDataScience = "data-science"
	CategoryWeb         = "web"
	CategoryAlgorithms  = "algorithms"
)

// 课程难度
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course 顶层内容单元：有序课时 + 一个结课测验。
// 主键使用语义化 slug（如 python-fundamentals），与客户端路由一致。
// swagger:model Course
type Course struct {
	UUIDBase
	Title            string          `gorm:"size:200;not null" json:"title"`
	Description      string          `gorm:"type:text" json:"description"`
	Thumbnail        string          `gorm:"size:500" json:"thumbnail"`
	Category         string          `gorm:"size:50;index" json:"category"`
	Level            string          `gorm:"size:20;index" json:"level"`
	Duration         string          `gorm:"size:50" json:"duration"`
	IsPremium        bool            `gorm:"default:false;index" json:"isPremium"`
	Popularity       int             `gorm:"default:0" json:"popularity"`
	Rating           float64         `gorm:"default:0" json:"rating"`
	LearningPoints   json.RawMessage `gorm:"type:json" json:"learningPoints"`
	Requirements     json.RawMessage `gorm:"type:json" json:"requirements"`
	InstructorName   string          `gorm:"size:100" json:"instructorName"`
	InstructorTitle  string          `gorm:"size:200" json:"instructorTitle"`
	InstructorAvatar string          `gorm:"size:500" json:"instructorAvatar"`
	InstructorBio    string          `gorm:"type:text" json:"instructorBio"`

	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// LessonIndex 返回课时在课程内的下标（0 基），未找到返回 -1。
func (c *Course) LessonIndex(lessonID string) int {
	for i := range c.Lessons {
		if c.Lessons[i].ID == lessonID {
			return i
		}
	}
	return -1
}

// Lesson 课程内的有序课时，包含讲解片段和编程练习。
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	CourseID string `gorm:"size:36;index;not null" json:"courseId"`
	Position int    `gorm:"not null" json:"position"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Duration string `gorm:"size:50" json:"duration"`

	Sections  []LessonSection `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	Exercises []Exercise      `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// 课时内容片段类型
const (
	SectionText  = "text"
	SectionVideo = "video"
	SectionCode  = "code"
)

// swagger:model LessonSection
type LessonSection struct {
	UUIDBase
	LessonID     string  `gorm:"size:36;index;not null" json:"lessonId"`
	Position     int     `gorm:"not null" json:"position"`
	Title        string  `gorm:"size:200" json:"title"`
	Type         string  `gorm:"size:20;not null" json:"type"`
	Description  string  `gorm:"type:text" json:"description"`
	VideoURL     string  `gorm:"size:500" json:"videoUrl,omitempty"`
	VideoSeconds float64 `gorm:"default:0" json:"videoSeconds,omitempty"`
	Language     string  `gorm:"size:20" json:"language,omitempty"`
	Code         string  `gorm:"type:text" json:"code,omitempty"`
}

func (LessonSection) TableName() string {
	return "lesson_sections"
}

// Exercise 编程练习。Solution 为参考答案片段，判定规则为提交代码
// 是否包含该片段（见 progress_service），不做真实执行。
// swagger:model Exercise
type Exercise struct {
	UUIDBase
	LessonID     string `gorm:"size:36;index;not null" json:"lessonId"`
	CourseID     string `gorm:"size:36;index;not null" json:"courseId"`
	Position     int    `gorm:"not null" json:"position"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Instructions string `gorm:"type:text" json:"instructions"`
	StarterCode  string `gorm:"type:text" json:"starterCode"`
	Solution     string `gorm:"type:text" json:"-"`
	Hint         string `gorm:"type:text" json:"-"`
}

func (Exercise) TableName() string {
	return "exercises"
}
