package service

import (
	"os"
	"testing"
	"time"

	"github.com/jk08y/PyAIApp/internal/config"
	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/pkg/database"
	"github.com/jk08y/PyAIApp/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newLocalStorageConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	return cfg
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

type fixture struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	courseRepo *repository.CourseRepository
	progress   *ProgressService
	tests      *TestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	completionRepo := repository.NewExerciseCompletionRepository(db)
	testRepo := repository.NewTestRepository(db)

	progress := NewProgressService(courseRepo, progressRepo, completionRepo, userRepo)
	tests := NewTestService(testRepo, courseRepo, userRepo, progress)

	return &fixture{
		db:         db,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		progress:   progress,
		tests:      tests,
	}
}

func (f *fixture) createUser(t *testing.T, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		DisplayName: "Test User",
		Email:       string(role) + "-" + model.GenerateUUID() + "@example.com",
		Password:    "hashed",
		Role:        role,
	}
	if role == model.RolePremium {
		expires := time.Now().Add(30 * 24 * time.Hour)
		user.SubscriptionPlan = model.PlanMonthly
		user.SubscriptionExpiresAt = &expires
	}
	require.NoError(t, f.userRepo.Create(user))
	return user
}

// createCourse 建一门两课时的课程：第一课一道练习，第二课两道练习。
func (f *fixture) createCourse(t *testing.T, id string, premium bool) *model.Course {
	t.Helper()
	course := &model.Course{
		UUIDBase:  model.UUIDBase{ID: id},
		Title:     "Python Basics",
		Category:  model.CategoryPython,
		Level:     model.LevelBeginner,
		IsPremium: premium,
		Lessons: []model.Lesson{
			{
				UUIDBase: model.UUIDBase{ID: id + "-lesson-0"},
				CourseID: id,
				Position: 0,
				Title:    "Getting Started",
				Exercises: []model.Exercise{
					{
						UUIDBase:    model.UUIDBase{ID: id + "-ex-0"},
						LessonID:    id + "-lesson-0",
						CourseID:    id,
						Position:    0,
						Title:       "Hello, World!",
						StarterCode: "# Write your code below\n",
						Solution:    `print("Hello, World!")`,
						Hint:        "Use the print() function.",
					},
				},
			},
			{
				UUIDBase: model.UUIDBase{ID: id + "-lesson-1"},
				CourseID: id,
				Position: 1,
				Title:    "Variables",
				Exercises: []model.Exercise{
					{
						UUIDBase: model.UUIDBase{ID: id + "-ex-1"},
						LessonID: id + "-lesson-1",
						CourseID: id,
						Position: 0,
						Title:    "Assign an int",
						Solution: "age = 25",
						Hint:     "Use the equals sign.",
					},
					{
						UUIDBase: model.UUIDBase{ID: id + "-ex-2"},
						LessonID: id + "-lesson-1",
						CourseID: id,
						Position: 1,
						Title:    "Assign a string",
						Solution: `greeting = "Hello"`,
						Hint:     "Strings need quotes.",
					},
				},
			},
		},
	}
	require.NoError(t, f.db.Create(course).Error)
	return course
}

// createTest 建一份结课测验，每题四个选项，正确答案都是第一个选项。
func (f *fixture) createTest(t *testing.T, courseID string, questionCount, timeLimitMinutes int) *model.CourseTest {
	t.Helper()
	test := &model.CourseTest{
		UUIDBase:  model.UUIDBase{ID: courseID + "-test"},
		CourseID:  courseID,
		Title:     "Final Test",
		TimeLimit: timeLimitMinutes,
	}
	for i := 0; i < questionCount; i++ {
		qid := model.GenerateUUID()
		question := model.TestQuestion{
			UUIDBase: model.UUIDBase{ID: qid},
			TestID:   test.ID,
			Position: i,
			Prompt:   "Question",
		}
		for j := 0; j < 4; j++ {
			question.Answers = append(question.Answers, model.TestAnswer{
				UUIDBase:   model.UUIDBase{ID: model.GenerateUUID()},
				QuestionID: qid,
				Position:   j,
				Text:       "Option",
			})
		}
		question.CorrectAnswerID = question.Answers[0].ID
		test.Questions = append(test.Questions, question)
	}
	require.NoError(t, f.db.Create(test).Error)
	return test
}
