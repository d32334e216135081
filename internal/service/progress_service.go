package service

import (
	"math"
	"strings"
	"time"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/internal/util"
	"github.com/jk08y/PyAIApp/pkg/logger"
	"github.com/jk08y/PyAIApp/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PassingScore 测验及格线（百分比）。课程进度和测验判分共用这一个常量，
// 不要在别处写死 70。
const PassingScore = 70

// 课程进度加权：课时推进占 70%，当前课时内练习完成度占 30%。
// 该权重影响历史已存百分比的可比性，属于产品契约，不可调整。
const (
	lessonWeight   = 0.7
	exerciseWeight = 0.3
)

// ProgressService 课程进度引擎：练习提交判定、进度汇总、付费墙检查。
type ProgressService struct {
	CourseRepo     *repository.CourseRepository
	ProgressRepo   *repository.ProgressRepository
	CompletionRepo *repository.ExerciseCompletionRepository
	UserRepo       *repository.UserRepository
}

func NewProgressService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	completionRepo *repository.ExerciseCompletionRepository,
	userRepo *repository.UserRepository,
) *ProgressService {
	return &ProgressService{
		CourseRepo:     courseRepo,
		ProgressRepo:   progressRepo,
		CompletionRepo: completionRepo,
		UserRepo:       userRepo,
	}
}

// PremiumGateBlocked 付费墙判定：高级课程对非付费用户只开放第一课试学。
// 纯谓词，无副作用。订阅状态可能在会话中途变化（升级成功），
// 所以每次访问都必须用新鲜的用户记录调用，结果不允许缓存。
func PremiumGateBlocked(course *model.Course, user *model.User, lessonIndex int) bool {
	if !course.IsPremium {
		return false
	}
	if user != nil && user.IsPremiumUser() {
		return false
	}
	return lessonIndex != 0
}

// SubmissionResult 一次练习提交的判定结果
// swagger:model SubmissionResult
type SubmissionResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Attempts  int    `json:"attempts"`
	Hint      string `json:"hint,omitempty"`
	Progress  int    `json:"progress"`
}

// SubmitExercise 记录一次练习提交并判定正误。
//
// 判定规则：提交代码包含参考答案片段即为正确（纯子串包含，不执行代码）。
// 这是移动端既有内容的既定规则，改成真实执行会改变存量练习的判定结果。
//
// attempts 由服务端按历史提交行数推导，不信任调用方计数。
// 日志追加失败只记录日志，判定结果照常返回；答对后触发课程进度重算。
func (s *ProgressService) SubmitExercise(userID uint, courseID, lessonID, exerciseID, code string) (*SubmissionResult, error) {
	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lessonIndex := course.LessonIndex(lessonID)
	if lessonIndex < 0 {
		return nil, util.ErrLessonNotFound
	}
	lesson := &course.Lessons[lessonIndex]

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if PremiumGateBlocked(course, user, lessonIndex) {
		return nil, util.ErrPremiumRequired
	}

	var exercise *model.Exercise
	for i := range lesson.Exercises {
		if lesson.Exercises[i].ID == exerciseID {
			exercise = &lesson.Exercises[i]
			break
		}
	}
	if exercise == nil {
		return nil, util.ErrExerciseNotFound
	}

	isCorrect := strings.Contains(code, exercise.Solution)

	attempts := 1
	if prior, err := s.CompletionRepo.CountForExercise(userID, exerciseID); err == nil {
		attempts = int(prior) + 1
	} else {
		logger.Log.Warn("failed to count prior submissions",
			zap.Uint("userId", userID),
			zap.String("exerciseId", exerciseID),
			zap.Error(err))
	}

	record := &model.ExerciseCompletion{
		UserID:      userID,
		CourseID:    courseID,
		LessonID:    lessonID,
		ExerciseID:  exerciseID,
		Code:        code,
		IsCorrect:   isCorrect,
		Attempts:    attempts,
		CompletedAt: time.Now(),
	}
	// 持久化失败不回滚也不隐藏判定结果，调用方可重试
	if err := s.CompletionRepo.Append(record); err != nil {
		logger.Log.Error("failed to append exercise completion",
			zap.Uint("userId", userID),
			zap.String("exerciseId", exerciseID),
			zap.Error(err))
	}

	result := &SubmissionResult{
		IsCorrect: isCorrect,
		Attempts:  attempts,
	}

	if isCorrect {
		monitoring.ExerciseSubmissions.WithLabelValues("correct").Inc()
		progress := s.recomputeCourseProgress(userID, course, lessonIndex, lesson, exerciseID)
		if err := s.UpdateProgress(userID, courseID, progress, false); err != nil {
			logger.Log.Error("failed to persist course progress",
				zap.Uint("userId", userID),
				zap.String("courseId", courseID),
				zap.Int("progress", progress),
				zap.Error(err))
		}
		result.Progress = progress
	} else {
		monitoring.ExerciseSubmissions.WithLabelValues("incorrect").Inc()
		// 答错超过两次后返回提示
		if attempts > 2 {
			result.Hint = exercise.Hint
		}
	}

	return result, nil
}

// recomputeCourseProgress 由课时位置和课时内练习完成度推导课程百分比：
//
//	lessonProgress   = (课时下标+1) / 课时总数
//	exerciseProgress = 课时内已解出的练习数（含本次） / 课时内练习总数
//	overall          = round((lessonProgress*0.7 + exerciseProgress*0.3) * 100)
//
// 课时位置主导百分比：学到第 10/10 课但跳过练习的用户应显示接近完成。
func (s *ProgressService) recomputeCourseProgress(userID uint, course *model.Course, lessonIndex int, lesson *model.Lesson, solvedExerciseID string) int {
	lessonProgress := 0.0
	if len(course.Lessons) > 0 {
		lessonProgress = float64(lessonIndex+1) / float64(len(course.Lessons))
	}

	exerciseProgress := 0.0
	if len(lesson.Exercises) > 0 {
		completedIDs, err := s.CompletionRepo.CompletedExerciseIDs(userID, course.ID, lesson.ID)
		if err != nil {
			logger.Log.Warn("failed to load completed exercises",
				zap.Uint("userId", userID),
				zap.String("lessonId", lesson.ID),
				zap.Error(err))
		}
		completed := make(map[string]bool, len(completedIDs)+1)
		for _, id := range completedIDs {
			completed[id] = true
		}
		completed[solvedExerciseID] = true

		count := 0
		for i := range lesson.Exercises {
			if completed[lesson.Exercises[i].ID] {
				count++
			}
		}
		exerciseProgress = float64(count) / float64(len(lesson.Exercises))
	}

	overall := int(math.Round((lessonProgress*lessonWeight + exerciseProgress*exerciseWeight) * 100))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}
	return overall
}

// UpdateProgress 写入课程进度。completed 为 true 时强制 progress=100，
// 保证 Completed => Progress==100 的约束在任何调用路径下都成立。
func (s *ProgressService) UpdateProgress(userID uint, courseID string, progressPercent int, completed bool) error {
	if progressPercent < 0 || progressPercent > 100 {
		return util.ErrInvalidProgress
	}
	if completed {
		progressPercent = 100
	}
	return s.ProgressRepo.Upsert(userID, courseID, progressPercent, completed)
}

// GetCourseProgress 返回用户在某课程的进度，无记录时返回 nil
func (s *ProgressService) GetCourseProgress(userID uint, courseID string) (*model.CourseProgress, error) {
	progress, err := s.ProgressRepo.Find(userID, courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// ProgressOverview 用户的学习总览
// swagger:model ProgressOverview
type ProgressOverview struct {
	InProgress []model.CourseProgress `json:"inProgress"`
	Completed  []model.CourseProgress `json:"completed"`
}

func (s *ProgressService) GetOverview(userID uint) (*ProgressOverview, error) {
	records, err := s.ProgressRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	overview := &ProgressOverview{
		InProgress: []model.CourseProgress{},
		Completed:  []model.CourseProgress{},
	}
	for _, record := range records {
		if record.Completed {
			overview.Completed = append(overview.Completed, record)
		} else {
			overview.InProgress = append(overview.InProgress, record)
		}
	}
	return overview, nil
}
