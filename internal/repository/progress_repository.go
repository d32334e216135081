package repository

import (
	"time"

	"github.com/jk08y/PyAIApp/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(userID uint, courseID string) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// Upsert 写入课程进度。记录不存在时创建；存在时按单调策略更新：
// 普通进度写入不会把已存的更高百分比拉低（并发的两次重算谁后完成都安全），
// completed 写入无条件生效并强制 progress=100。
func (r *ProgressRepository) Upsert(userID uint, courseID string, progressPercent int, completed bool) error {
	now := time.Now()
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.CourseProgress
		err := tx.
			Where("user_id = ? AND course_id = ?", userID, courseID).
			First(&existing).Error

		if err == gorm.ErrRecordNotFound {
			record := model.CourseProgress{
				UserID:      userID,
				CourseID:    courseID,
				Progress:    progressPercent,
				Completed:   completed,
				StartedAt:   now,
				LastUpdated: now,
			}
			if completed {
				record.Progress = 100
				record.CompletedAt = &now
			}
			return tx.Create(&record).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"last_updated": now,
		}
		if completed {
			updates["progress"] = 100
			updates["completed"] = true
			if existing.CompletedAt == nil {
				updates["completed_at"] = now
			}
		} else if progressPercent > existing.Progress && !existing.Completed {
			updates["progress"] = progressPercent
		}

		return tx.Model(&model.CourseProgress{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error
	})
}

// ListByUser 返回用户全部课程进度，按最近更新排序
func (r *ProgressRepository) ListByUser(userID uint) ([]model.CourseProgress, error) {
	var records []model.CourseProgress
	err := r.DB.
		Where("user_id = ?", userID).
		Order("last_updated DESC").
		Find(&records).Error
	return records, err
}
