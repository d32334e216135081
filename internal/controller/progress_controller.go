package controller

import (
	"errors"
	"net/http"

	"github.com/jk08y/PyAIApp/internal/service"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// SubmitExerciseRequest 练习提交请求
// swagger:model SubmitExerciseRequest
type SubmitExerciseRequest struct {
	Code string `json:"code" binding:"required"`
}

// SubmitExercise godoc
// @Summary 提交练习代码
// @Description 判定正误并记录提交；答对后返回重算的课程进度，答错超过两次返回提示
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Param   lessonId path string true "课时 ID"
// @Param   exerciseId path string true "练习 ID"
// @Param   body body SubmitExerciseRequest true "提交代码"
// @Success 200 {object} util.Response{data=service.SubmissionResult} "成功"
// @Failure 402 {object} util.Response "需要订阅"
// @Failure 404 {object} util.Response "资源不存在"
// @Router /api/courses/{courseId}/lessons/{lessonId}/exercises/{exerciseId}/submit [post]
func (c *ProgressController) SubmitExercise(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.SubmitExercise(
		claims.UserID,
		ctx.Param("courseId"),
		ctx.Param("lessonId"),
		ctx.Param("exerciseId"),
		req.Code,
	)
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
	util.Success(ctx, result)
}

// UpdateProgressRequest 进度写入请求
// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	Progress  int  `json:"progress" binding:"min=0,max=100"`
	Completed bool `json:"completed"`
}

// UpdateProgress godoc
// @Summary 写入课程进度
// @Description 课时推进等客户端事件上报进度；completed=true 时强制进度为 100
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Param   body body UpdateProgressRequest true "进度"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "进度越界"
// @Router /api/progress/{courseId} [put]
func (c *ProgressController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateProgress(claims.UserID, ctx.Param("courseId"), req.Progress, req.Completed); err != nil {
		if errors.Is(err, util.ErrInvalidProgress) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// GetProgress godoc
// @Summary 查询课程进度
// @Description 无学习记录时 data 为空
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Success 200 {object} util.Response{data=model.CourseProgress} "成功"
// @Router /api/progress/{courseId} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetCourseProgress(claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetOverview godoc
// @Summary 学习总览
// @Description 用户的进行中课程与已完成课程
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProgressOverview} "成功"
// @Router /api/progress [get]
func (c *ProgressController) GetOverview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	overview, err := c.ProgressService.GetOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}
