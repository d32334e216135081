package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/internal/util"
	"github.com/jk08y/PyAIApp/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 课程目录首页缓存。只缓存默认筛选的第一页，带筛选的查询直接打库。
const (
	courseCatalogCacheKey = "pyai:courses:catalog:default"
	courseCatalogCacheTTL = 10 * time.Minute
)

// ContentService 课程内容服务：目录、课程详情、课时内容与管理端维护。
type ContentService struct {
	CourseRepo     *repository.CourseRepository
	TestRepo       *repository.TestRepository
	CompletionRepo *repository.ExerciseCompletionRepository
	UserRepo       *repository.UserRepository
	Progress       *ProgressService
	Storage        *StorageService
	Redis          *redis.Client
}

func NewContentService(
	courseRepo *repository.CourseRepository,
	testRepo *repository.TestRepository,
	completionRepo *repository.ExerciseCompletionRepository,
	userRepo *repository.UserRepository,
	progress *ProgressService,
	storage *StorageService,
	rdb *redis.Client,
) *ContentService {
	return &ContentService{
		CourseRepo:     courseRepo,
		TestRepo:       testRepo,
		CompletionRepo: completionRepo,
		UserRepo:       userRepo,
		Progress:       progress,
		Storage:        storage,
		Redis:          rdb,
	}
}

// CourseCatalog 课程列表响应
// swagger:model CourseCatalog
type CourseCatalog struct {
	Courses []model.Course `json:"courses"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

func defaultCatalogFilter(filter repository.CourseFilter) bool {
	return (filter.Category == "" || filter.Category == "all") &&
		(filter.Level == "" || filter.Level == "all") &&
		filter.Premium == nil &&
		filter.Search == "" &&
		(filter.Sort == "" || filter.Sort == "popular") &&
		(filter.Page == 0 || filter.Page == 1)
}

// ListCourses 课程目录。默认首页走 Redis 缓存，缓存不可用时降级打库。
func (s *ContentService) ListCourses(ctx context.Context, filter repository.CourseFilter) (*CourseCatalog, error) {
	cacheable := s.Redis != nil && defaultCatalogFilter(filter)

	if cacheable {
		if cached, err := s.Redis.Get(ctx, courseCatalogCacheKey).Result(); err == nil {
			var catalog CourseCatalog
			if err := json.Unmarshal([]byte(cached), &catalog); err == nil {
				return &catalog, nil
			}
		}
	}

	courses, total, err := s.CourseRepo.List(filter)
	if err != nil {
		return nil, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	catalog := &CourseCatalog{
		Courses: courses,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}

	if cacheable {
		if payload, err := json.Marshal(catalog); err == nil {
			if err := s.Redis.Set(ctx, courseCatalogCacheKey, payload, courseCatalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache course catalog", zap.Error(err))
			}
		}
	}

	return catalog, nil
}

func (s *ContentService) invalidateCatalogCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, courseCatalogCacheKey).Err(); err != nil {
		logger.Log.Warn("failed to invalidate course catalog cache", zap.Error(err))
	}
}

// CourseDetail 课程详情 = 课程 + 课时列表 + 当前用户进度（未登录为 nil）
// swagger:model CourseDetail
type CourseDetail struct {
	Course   *model.Course         `json:"course"`
	Progress *model.CourseProgress `json:"progress,omitempty"`
}

// GetCourse 课程详情页。详情（含课时标题列表）对所有用户可见，
// 付费墙只挡课时正文，不挡目录。
func (s *ContentService) GetCourse(courseID string, userID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	detail := &CourseDetail{Course: course}
	if userID != 0 {
		progress, err := s.Progress.GetCourseProgress(userID, courseID)
		if err != nil {
			return nil, err
		}
		detail.Progress = progress
	}
	return detail, nil
}

// ExerciseView 练习视图：练习本体叠加当前用户的完成状态
// swagger:model ExerciseView
type ExerciseView struct {
	model.Exercise
	Completed bool `json:"completed"`
}

// LessonView 课时视图，练习带完成状态
// swagger:model LessonView
type LessonView struct {
	Lesson    *model.Lesson  `json:"lesson"`
	Exercises []ExerciseView `json:"exercises"`
}

// GetLesson 课时正文。高级课程对非付费用户只开放第一课试学；
// 订阅状态每次都查新鲜的用户记录，升级后立即生效。
func (s *ContentService) GetLesson(userID uint, courseID, lessonID string) (*LessonView, error) {
	course, err := s.CourseRepo.FindByID(courseID)
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

	var user *model.User
	if userID != 0 {
		user, err = s.UserRepo.FindByID(userID)
		if err != nil {
			return nil, util.ErrUserNotFound
		}
	}
	if PremiumGateBlocked(course, user, lessonIndex) {
		return nil, util.ErrPremiumRequired
	}

	lesson, err := s.CourseRepo.FindLessonByID(courseID, lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	completed := make(map[string]bool)
	if userID != 0 {
		ids, err := s.CompletionRepo.CompletedExerciseIDs(userID, courseID, lessonID)
		if err != nil {
			logger.Log.Warn("failed to load completed exercises",
				zap.Uint("userId", userID),
				zap.String("lessonId", lessonID),
				zap.Error(err))
		}
		for _, id := range ids {
			completed[id] = true
		}
	}

	view := &LessonView{
		Lesson:    lesson,
		Exercises: make([]ExerciseView, 0, len(lesson.Exercises)),
	}
	for i := range lesson.Exercises {
		view.Exercises = append(view.Exercises, ExerciseView{
			Exercise:  lesson.Exercises[i],
			Completed: completed[lesson.Exercises[i].ID],
		})
	}
	return view, nil
}

// GetExercise 单个练习（不含参考答案和提示，序列化时已剥离）
func (s *ContentService) GetExercise(userID uint, courseID, lessonID, exerciseID string) (*model.Exercise, error) {
	course, err := s.CourseRepo.FindByID(courseID)
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

	var user *model.User
	if userID != 0 {
		user, err = s.UserRepo.FindByID(userID)
		if err != nil {
			return nil, util.ErrUserNotFound
		}
	}
	if PremiumGateBlocked(course, user, lessonIndex) {
		return nil, util.ErrPremiumRequired
	}

	exercise, err := s.CourseRepo.FindExerciseByID(lessonID, exerciseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// SaveCourse 管理端保存完整课程树并失效目录缓存
func (s *ContentService) SaveCourse(ctx context.Context, course *model.Course) error {
	if err := s.CourseRepo.Save(course); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

// DeleteCourse 管理端删除课程（课时、练习随外键级联删除）
func (s *ContentService) DeleteCourse(ctx context.Context, courseID string) error {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCourseNotFound
		}
		return err
	}
	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	return nil
}

// SaveTest 管理端保存结课测验。入库前校验每道题的正确答案都在选项中，
// 把内容缺陷挡在写入侧，而不是等到用户开考时才暴露。
func (s *ContentService) SaveTest(test *model.CourseTest) error {
	for i := range test.Questions {
		q := &test.Questions[i]
		if !q.HasAnswer(q.CorrectAnswerID) {
			return util.ErrMalformedQuestion
		}
	}
	return s.TestRepo.Save(test)
}

// UploadSectionVideo 上传课时视频：ffmpeg 探测时长后推到对象存储，
// 并把播放地址和时长写回内容片段。
func (s *ContentService) UploadSectionVideo(ctx context.Context, courseID, lessonID, sectionID, localPath, filename, contentType string) (string, error) {
	if _, err := s.CourseRepo.FindLessonByID(courseID, lessonID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", util.ErrLessonNotFound
		}
		return "", err
	}

	info, err := util.GetVideoInfo(localPath)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("videos/%s/%s/%d%s", courseID, lessonID, time.Now().UnixNano(), filepath.Ext(filename))
	url, err := s.Storage.UploadFile(ctx, objectName, localPath, contentType)
	if err != nil {
		return "", err
	}
	defer os.Remove(localPath)

	if err := s.CourseRepo.UpdateSectionVideo(sectionID, url, info.Duration); err != nil {
		return "", err
	}

	logger.Log.Info("lesson video uploaded",
		zap.String("courseId", courseID),
		zap.String("lessonId", lessonID),
		zap.String("sectionId", sectionID),
		zap.Float64("durationSeconds", info.Duration))
	return url, nil
}
