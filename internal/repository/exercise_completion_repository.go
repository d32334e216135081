package repository

import (
	"github.com/jk08y/PyAIApp/internal/model"

	"gorm.io/gorm"
)

// ExerciseCompletionRepository 练习提交日志仓库。日志只追加，
// “已完成”永远通过查询 is_correct 的行派生。
type ExerciseCompletionRepository struct {
	DB *gorm.DB
}

func NewExerciseCompletionRepository(db *gorm.DB) *ExerciseCompletionRepository {
	return &ExerciseCompletionRepository{DB: db}
}

func (r *ExerciseCompletionRepository) Append(record *model.ExerciseCompletion) error {
	return r.DB.Create(record).Error
}

// CountForExercise 统计某练习的历史提交次数，用于服务端推导 attempts
func (r *ExerciseCompletionRepository) CountForExercise(userID uint, exerciseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExerciseCompletion{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Count(&count).Error
	return count, err
}

// CompletedExerciseIDs 返回课时内已被正确解出过的练习 ID 集合
func (r *ExerciseCompletionRepository) CompletedExerciseIDs(userID uint, courseID, lessonID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.ExerciseCompletion{}).
		Distinct("exercise_id").
		Where("user_id = ? AND course_id = ? AND lesson_id = ? AND is_correct = ?",
			userID, courseID, lessonID, true).
		Pluck("exercise_id", &ids).Error
	return ids, err
}

// ListForLesson 返回课时内全部提交记录（时间正序）
func (r *ExerciseCompletionRepository) ListForLesson(userID uint, courseID, lessonID string) ([]model.ExerciseCompletion, error) {
	var records []model.ExerciseCompletion
	err := r.DB.
		Where("user_id = ? AND course_id = ? AND lesson_id = ?", userID, courseID, lessonID).
		Order("completed_at ASC").
		Find(&records).Error
	return records, err
}
