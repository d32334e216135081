package repository

import (
	"github.com/jk08y/PyAIApp/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CourseFilter 课程列表筛选条件，与移动端筛选项对应
type CourseFilter struct {
	Category string
	Level    string
	Premium  *bool
	Search   string
	Sort     string
	Page     int
	Limit    int
}

func (r *CourseRepository) List(filter CourseFilter) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{})

	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" && filter.Level != "all" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Premium != nil {
		query = query.Where("is_premium = ?", *filter.Premium)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "newest":
		query = query.Order("created_at DESC")
	case "highest-rated":
		query = query.Order("rating DESC")
	case "title-asc":
		query = query.Order("title ASC")
	case "title-desc":
		query = query.Order("title DESC")
	default: // popular
		query = query.Order("popularity DESC")
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)

	var courses []model.Course
	err := query.Find(&courses).Error
	return courses, total, err
}

// FindByID 按 slug 加载课程及有序课时，不加载课时正文
func (r *CourseRepository) FindByID(courseID string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC")
		}).
		First(&course, "id = ?", courseID).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByIDWithContent 加载完整课程树（课时、内容片段、练习），管理端和进度引擎使用
func (r *CourseRepository) FindByIDWithContent(courseID string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC")
		}).
		Preload("Lessons.Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_sections.position ASC")
		}).
		Preload("Lessons.Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("exercises.position ASC")
		}).
		First(&course, "id = ?", courseID).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindLessonByID(courseID, lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("lesson_sections.position ASC")
		}).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("exercises.position ASC")
		}).
		Where("course_id = ?", courseID).
		First(&lesson, "id = ?", lessonID).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) FindExerciseByID(lessonID, exerciseID string) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.
		Where("lesson_id = ?", lessonID).
		First(&exercise, "id = ?", exerciseID).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// Save 保存完整课程树
func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(course).Error
}

func (r *CourseRepository) Delete(courseID string) error {
	return r.DB.Delete(&model.Course{}, "id = ?", courseID).Error
}

func (r *CourseRepository) UpdateSectionVideo(sectionID, videoURL string, seconds float64) error {
	return r.DB.Model(&model.LessonSection{}).
		Where("id = ?", sectionID).
		Updates(map[string]interface{}{
			"video_url":     videoURL,
			"video_seconds": seconds,
		}).Error
}
