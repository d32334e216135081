package repository

import (
	"testing"
	"time"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestUpsertCreatesRecord(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(1, "py", 30, false))

	progress, err := repo.Find(1, "py")
	require.NoError(t, err)
	assert.Equal(t, 30, progress.Progress)
	assert.False(t, progress.Completed)
	assert.False(t, progress.StartedAt.IsZero())
	assert.Nil(t, progress.CompletedAt)
}

func TestUpsertNeverLowersProgress(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(1, "py", 60, false))
	// 并发重算谁后落库都安全：低值不覆盖高值
	require.NoError(t, repo.Upsert(1, "py", 45, false))

	progress, err := repo.Find(1, "py")
	require.NoError(t, err)
	assert.Equal(t, 60, progress.Progress)

	require.NoError(t, repo.Upsert(1, "py", 80, false))
	progress, err = repo.Find(1, "py")
	require.NoError(t, err)
	assert.Equal(t, 80, progress.Progress)
}

func TestUpsertCompletedWins(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(1, "py", 40, false))
	require.NoError(t, repo.Upsert(1, "py", 55, true))

	progress, err := repo.Find(1, "py")
	require.NoError(t, err)
	assert.Equal(t, 100, progress.Progress)
	assert.True(t, progress.Completed)
	require.NotNil(t, progress.CompletedAt)
	firstCompletedAt := *progress.CompletedAt

	// 完结后的普通写入不再改变进度，重复完结不刷新完成时间
	require.NoError(t, repo.Upsert(1, "py", 10, false))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Upsert(1, "py", 100, true))

	progress, err = repo.Find(1, "py")
	require.NoError(t, err)
	assert.Equal(t, 100, progress.Progress)
	assert.True(t, progress.Completed)
	assert.Equal(t, firstCompletedAt.Unix(), progress.CompletedAt.Unix())
}

func TestUpsertScopedPerUserAndCourse(t *testing.T) {
	repo := NewProgressRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(1, "py", 60, false))
	require.NoError(t, repo.Upsert(1, "ml", 20, false))
	require.NoError(t, repo.Upsert(2, "py", 90, false))

	records, err := repo.ListByUser(1)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	progress, err := repo.Find(2, "py")
	require.NoError(t, err)
	assert.Equal(t, 90, progress.Progress)
}

func TestCompletionLogDerivation(t *testing.T) {
	repo := NewExerciseCompletionRepository(newTestDB(t))

	records := []model.ExerciseCompletion{
		{UserID: 1, CourseID: "py", LessonID: "l0", ExerciseID: "ex-0", IsCorrect: false, Attempts: 1, CompletedAt: time.Now()},
		{UserID: 1, CourseID: "py", LessonID: "l0", ExerciseID: "ex-0", IsCorrect: true, Attempts: 2, CompletedAt: time.Now()},
		{UserID: 1, CourseID: "py", LessonID: "l0", ExerciseID: "ex-0", IsCorrect: true, Attempts: 3, CompletedAt: time.Now()},
		{UserID: 1, CourseID: "py", LessonID: "l0", ExerciseID: "ex-1", IsCorrect: false, Attempts: 1, CompletedAt: time.Now()},
		{UserID: 2, CourseID: "py", LessonID: "l0", ExerciseID: "ex-1", IsCorrect: true, Attempts: 1, CompletedAt: time.Now()},
	}
	for i := range records {
		require.NoError(t, repo.Append(&records[i]))
	}

	count, err := repo.CountForExercise(1, "ex-0")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// 重复答对同一练习只算一个完成
	ids, err := repo.CompletedExerciseIDs(1, "py", "l0")
	require.NoError(t, err)
	assert.Equal(t, []string{"ex-0"}, ids)

	// 他人的提交不泄漏进来
	ids, err = repo.CompletedExerciseIDs(2, "py", "l0")
	require.NoError(t, err)
	assert.Equal(t, []string{"ex-1"}, ids)

	all, err := repo.ListForLesson(1, "py", "l0")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
