package repository

import (
	"github.com/jk08y/PyAIApp/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

// FindByCourseID 加载课程测验及有序题目/选项
func (r *TestRepository) FindByCourseID(courseID string) (*model.CourseTest, error) {
	var test model.CourseTest
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_questions.position ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("test_answers.position ASC")
		}).
		Where("course_id = ?", courseID).
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) Save(test *model.CourseTest) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(test).Error
}

func (r *TestRepository) AppendResult(result *model.TestResult) error {
	return r.DB.Create(result).Error
}

func (r *TestRepository) ListResults(userID uint, courseID string) ([]model.TestResult, error) {
	var results []model.TestResult
	query := r.DB.Where("user_id = ?", userID)
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Order("completed_at DESC").Find(&results).Error
	return results, err
}
