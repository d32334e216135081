package service

import (
	"context"
	"testing"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(t *testing.T, f *fixture) *ContentService {
	t.Helper()
	completionRepo := repository.NewExerciseCompletionRepository(f.db)
	testRepo := repository.NewTestRepository(f.db)
	storage := NewStorageService(newLocalStorageConfig(t))
	// 测试不依赖 Redis，目录查询降级直接打库
	return NewContentService(f.courseRepo, testRepo, completionRepo, f.userRepo, f.progress, storage, nil)
}

func TestListCoursesFilters(t *testing.T) {
	f := newFixture(t)
	content := newContentService(t, f)

	free := f.createCourse(t, "py", false)
	free.Category = model.CategoryPython
	free.Popularity = 100
	require.NoError(t, f.db.Save(free).Error)

	premium := f.createCourse(t, "ml", true)
	premium.Title = "Machine Learning"
	premium.Category = model.CategoryAI
	premium.Popularity = 900
	require.NoError(t, f.db.Save(premium).Error)

	ctx := context.Background()

	catalog, err := content.ListCourses(ctx, repository.CourseFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, catalog.Total)
	// 默认按热度排序
	assert.Equal(t, "ml", catalog.Courses[0].ID)

	catalog, err = content.ListCourses(ctx, repository.CourseFilter{Category: model.CategoryAI})
	require.NoError(t, err)
	require.Len(t, catalog.Courses, 1)
	assert.Equal(t, "ml", catalog.Courses[0].ID)

	isPremium := false
	catalog, err = content.ListCourses(ctx, repository.CourseFilter{Premium: &isPremium})
	require.NoError(t, err)
	require.Len(t, catalog.Courses, 1)
	assert.Equal(t, "py", catalog.Courses[0].ID)

	catalog, err = content.ListCourses(ctx, repository.CourseFilter{Search: "Machine"})
	require.NoError(t, err)
	require.Len(t, catalog.Courses, 1)
	assert.Equal(t, "ml", catalog.Courses[0].ID)

	catalog, err = content.ListCourses(ctx, repository.CourseFilter{Sort: "title-asc"})
	require.NoError(t, err)
	assert.Equal(t, "ml", catalog.Courses[0].ID)
}

func TestGetCourseWithProgress(t *testing.T) {
	f := newFixture(t)
	content := newContentService(t, f)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)

	// 游客只拿课程本体
	detail, err := content.GetCourse("py", 0)
	require.NoError(t, err)
	assert.Nil(t, detail.Progress)
	require.Len(t, detail.Course.Lessons, 2)
	assert.Equal(t, "py-lesson-0", detail.Course.Lessons[0].ID)

	require.NoError(t, f.progress.UpdateProgress(user.ID, "py", 42, false))

	detail, err = content.GetCourse("py", user.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Progress)
	assert.Equal(t, 42, detail.Progress.Progress)

	_, err = content.GetCourse("nope", user.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestGetLessonOverlaysCompletion(t *testing.T) {
	f := newFixture(t)
	content := newContentService(t, f)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)

	_, err := f.progress.SubmitExercise(user.ID, "py", "py-lesson-1", "py-ex-1", "age = 25")
	require.NoError(t, err)

	view, err := content.GetLesson(user.ID, "py", "py-lesson-1")
	require.NoError(t, err)
	require.Len(t, view.Exercises, 2)
	assert.True(t, view.Exercises[0].Completed)
	assert.False(t, view.Exercises[1].Completed)
}

func TestGetLessonPremiumGate(t *testing.T) {
	f := newFixture(t)
	content := newContentService(t, f)
	freeUser := f.createUser(t, model.RoleFree)
	premiumUser := f.createUser(t, model.RolePremium)
	f.createCourse(t, "ml", true)

	// 第一课试学对游客和免费用户开放
	_, err := content.GetLesson(0, "ml", "ml-lesson-0")
	require.NoError(t, err)
	_, err = content.GetLesson(freeUser.ID, "ml", "ml-lesson-0")
	require.NoError(t, err)

	// 第二课起需要订阅
	_, err = content.GetLesson(0, "ml", "ml-lesson-1")
	assert.ErrorIs(t, err, util.ErrPremiumRequired)
	_, err = content.GetLesson(freeUser.ID, "ml", "ml-lesson-1")
	assert.ErrorIs(t, err, util.ErrPremiumRequired)

	_, err = content.GetLesson(premiumUser.ID, "ml", "ml-lesson-1")
	require.NoError(t, err)

	_, err = content.GetLesson(freeUser.ID, "ml", "nope")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestGetExercise(t *testing.T) {
	f := newFixture(t)
	content := newContentService(t, f)
	user := f.createUser(t, model.RoleFree)
	f.createCourse(t, "py", false)

	exercise, err := content.GetExercise(user.ID, "py", "py-lesson-0", "py-ex-0")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", exercise.Title)

	_, err = content.GetExercise(user.ID, "py", "py-lesson-0", "nope")
	assert.ErrorIs(t, err, util.ErrExerciseNotFound)
}

func TestSaveTestValidatesQuestions(t *testing.T) {
	f := newFixture(t)
	content := newContentService(t, f)
	f.createCourse(t, "py", false)

	bad := &model.CourseTest{
		UUIDBase:  model.UUIDBase{ID: "py-test"},
		CourseID:  "py",
		TimeLimit: 10,
		Questions: []model.TestQuestion{
			{
				UUIDBase:        model.UUIDBase{ID: "q-1"},
				TestID:          "py-test",
				Prompt:          "Broken",
				CorrectAnswerID: "missing",
				Answers: []model.TestAnswer{
					{UUIDBase: model.UUIDBase{ID: "a-1"}, QuestionID: "q-1", Text: "A"},
				},
			},
		},
	}
	assert.ErrorIs(t, content.SaveTest(bad), util.ErrMalformedQuestion)

	bad.Questions[0].CorrectAnswerID = "a-1"
	require.NoError(t, content.SaveTest(bad))
}

func TestDeleteCourse(t *testing.T) {
	f := newFixture(t)
	content := newContentService(t, f)
	f.createCourse(t, "py", false)

	require.NoError(t, content.DeleteCourse(context.Background(), "py"))
	assert.ErrorIs(t, content.DeleteCourse(context.Background(), "py"), util.ErrCourseNotFound)
}
