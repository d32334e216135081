package controller

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/internal/service"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	ContentService *service.ContentService
}

func NewCourseController(contentService *service.ContentService) *CourseController {
	return &CourseController{ContentService: contentService}
}

// ListCourses godoc
// @Summary 课程目录
// @Description 按分类/难度/付费/关键字筛选，支持 popular、newest、highest-rated、title-asc、title-desc 排序
// @Tags 课程
// @Produce  json
// @Param   category query string false "分类"
// @Param   level query string false "难度"
// @Param   premium query bool false "是否高级课程"
// @Param   search query string false "标题关键字"
// @Param   sort query string false "排序方式"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=service.CourseCatalog} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	filter := repository.CourseFilter{
		Category: ctx.Query("category"),
		Level:    ctx.Query("level"),
		Search:   ctx.Query("search"),
		Sort:     ctx.Query("sort"),
	}
	if premium := ctx.Query("premium"); premium != "" {
		if value, err := strconv.ParseBool(premium); err == nil {
			filter.Premium = &value
		}
	}
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	catalog, err := c.ContentService.ListCourses(ctx.Request.Context(), filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, catalog)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 课程信息与课时列表，登录用户附带学习进度
// @Tags 课程
// @Produce  json
// @Param   courseId path string true "课程 ID"
// @Success 200 {object} util.Response{data=service.CourseDetail} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	detail, err := c.ContentService.GetCourse(ctx.Param("courseId"), userID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

// GetLesson godoc
// @Summary 课时正文
// @Description 高级课程对非付费用户只开放第一课试学
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Param   lessonId path string true "课时 ID"
// @Success 200 {object} util.Response{data=service.LessonView} "成功"
// @Failure 402 {object} util.Response "需要订阅"
// @Failure 404 {object} util.Response "课程或课时不存在"
// @Router /api/courses/{courseId}/lessons/{lessonId} [get]
func (c *CourseController) GetLesson(ctx *gin.Context) {
	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	view, err := c.ContentService.GetLesson(userID, ctx.Param("courseId"), ctx.Param("lessonId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPremiumRequired):
			util.Error(ctx, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// GetExercise godoc
// @Summary 练习详情
// @Description 返回练习题面与起始代码，不含参考答案
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Param   lessonId path string true "课时 ID"
// @Param   exerciseId path string true "练习 ID"
// @Success 200 {object} util.Response{data=model.Exercise} "成功"
// @Failure 402 {object} util.Response "需要订阅"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/courses/{courseId}/lessons/{lessonId}/exercises/{exerciseId} [get]
func (c *CourseController) GetExercise(ctx *gin.Context) {
	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	exercise, err := c.ContentService.GetExercise(userID, ctx.Param("courseId"), ctx.Param("lessonId"), ctx.Param("exerciseId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound),
			errors.Is(err, util.ErrLessonNotFound),
			errors.Is(err, util.ErrExerciseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPremiumRequired):
			util.Error(ctx, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, exercise)
}

// SaveCourse godoc
// @Summary 保存课程（管理端）
// @Description 创建或整体更新课程树（课时、片段、练习）
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.Course true "课程"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Router /api/admin/courses [post]
func (c *CourseController) SaveCourse(ctx *gin.Context) {
	var course model.Course
	if err := ctx.ShouldBindJSON(&course); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ContentService.SaveCourse(ctx.Request.Context(), &course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程（管理端）
// @Tags 管理
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{courseId} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.ContentService.DeleteCourse(ctx.Request.Context(), ctx.Param("courseId")); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// SaveTest godoc
// @Summary 保存结课测验（管理端）
// @Description 入库前校验每道题的正确答案都在选项中
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.CourseTest true "测验"
// @Success 200 {object} util.Response{data=model.CourseTest} "成功"
// @Failure 400 {object} util.Response "题目数据缺陷"
// @Router /api/admin/tests [post]
func (c *CourseController) SaveTest(ctx *gin.Context) {
	var test model.CourseTest
	if err := ctx.ShouldBindJSON(&test); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ContentService.SaveTest(&test); err != nil {
		if errors.Is(err, util.ErrMalformedQuestion) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, test)
}

// UploadSectionVideo godoc
// @Summary 上传课时视频（管理端）
// @Description 探测视频时长后推到对象存储，并写回内容片段
// @Tags 管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Param   lessonId path string true "课时 ID"
// @Param   sectionId path string true "内容片段 ID"
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件类型不合法"
// @Router /api/admin/courses/{courseId}/lessons/{lessonId}/sections/{sectionId}/video [post]
func (c *CourseController) UploadSectionVideo(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateMimeType(file, []string{"video/", "application/x-mpegURL"})
	file.Close()
	if err != nil || !util.IsVideo(mimeType) {
		util.BadRequest(ctx, "only video files are allowed")
		return
	}

	// ffmpeg 探测需要本地文件，先落临时目录
	tmpPath := filepath.Join(os.TempDir(), "upload-"+model.GenerateUUID()+filepath.Ext(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	url, err := c.ContentService.UploadSectionVideo(
		ctx.Request.Context(),
		ctx.Param("courseId"),
		ctx.Param("lessonId"),
		ctx.Param("sectionId"),
		tmpPath,
		fileHeader.Filename,
		mimeType,
	)
	if err != nil {
		os.Remove(tmpPath)
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"videoUrl": url})
}
