package controller

import (
	"errors"
	"net/http"

	"github.com/jk08y/PyAIApp/internal/service"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// StartTest godoc
// @Summary 开始结课测验
// @Description 创建测验会话并启动倒计时，返回题目（不含正确答案）
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Success 200 {object} util.Response{data=service.TestSessionView} "成功"
// @Failure 402 {object} util.Response "需要订阅"
// @Failure 404 {object} util.Response "课程或测验不存在"
// @Router /api/courses/{courseId}/test/start [post]
func (c *TestController) StartTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.TestService.Start(claims.UserID, ctx.Param("courseId"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound), errors.Is(err, util.ErrTestNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPremiumRequired):
			util.Error(ctx, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, util.ErrMalformedQuestion):
			util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.Unauthorized(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, session)
}

// AnswerRequest 答题请求
// swagger:model AnswerRequest
type AnswerRequest struct {
	QuestionIndex int    `json:"questionIndex" binding:"min=0"`
	AnswerID      string `json:"answerId" binding:"required"`
}

// AnswerQuestion godoc
// @Summary 记录答案
// @Description 单选，后答覆盖先答；会话完成后拒绝
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Param   body body AnswerRequest true "答案"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "选项不属于该题"
// @Failure 409 {object} util.Response "会话已完成"
// @Router /api/test-sessions/{sessionId}/answer [post]
func (c *TestController) AnswerQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.TestService.Answer(ctx.Param("sessionId"), claims.UserID, req.QuestionIndex, req.AnswerID); err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTestAlreadySubmitted):
			util.Error(ctx, http.StatusConflict, err.Error())
		case errors.Is(err, util.ErrInvalidQuestion), errors.Is(err, util.ErrInvalidAnswer):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// SubmitTest godoc
// @Summary 交卷
// @Description 判分并返回结果；对已完成会话重复调用返回同一份结果
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Success 200 {object} util.Response{data=model.TestResult} "成功"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/test-sessions/{sessionId}/submit [post]
func (c *TestController) SubmitTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.TestService.Submit(ctx.Param("sessionId"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// GetSession godoc
// @Summary 会话快照
// @Description 剩余时间与答题数，供客户端恢复界面轮询
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Success 200 {object} util.Response{data=service.TestSessionView} "成功"
// @Router /api/test-sessions/{sessionId} [get]
func (c *TestController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.TestService.GetSession(ctx.Param("sessionId"), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, session)
}

// GetResult godoc
// @Summary 测验结果
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Success 200 {object} util.Response{data=model.TestResult} "成功"
// @Failure 409 {object} util.Response "会话尚未交卷"
// @Router /api/test-sessions/{sessionId}/result [get]
func (c *TestController) GetResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.TestService.GetResult(ctx.Param("sessionId"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTestAlreadySubmitted):
			util.Error(ctx, http.StatusConflict, "test not submitted yet")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// CancelTest godoc
// @Summary 放弃测验
// @Description 停止倒计时并丢弃会话，幂等
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   sessionId path string true "会话 ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/test-sessions/{sessionId} [delete]
func (c *TestController) CancelTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	c.TestService.Cancel(ctx.Param("sessionId"), claims.UserID)
	util.Success(ctx, nil)
}

// ListResults godoc
// @Summary 历史测验结果
// @Description 用户在某课程的全部判分记录（时间倒序）
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程 ID"
// @Success 200 {object} util.Response{data=[]model.TestResult} "成功"
// @Router /api/courses/{courseId}/test/results [get]
func (c *TestController) ListResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.TestService.TestRepo.ListResults(claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
