package controller

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/jk08y/PyAIApp/internal/service"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/gin-gonic/gin"
)

// 头像大小上限 5MB
const maxAvatarSize = 5 << 20

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetProfile godoc
// @Summary 用户资料
// @Tags 用户
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/user/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary 更新用户资料
// @Description 更新昵称、简介、头像地址，未提供的字段保持不变
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProfileUpdate true "资料更新"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Router /api/user/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProfileUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary 上传头像
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "头像图片"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件类型不合法"
// @Router /api/user/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		util.BadRequest(ctx, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	// MIME 检测消耗前 512 字节，拼回去再上传
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	mimeType, err := util.ValidateMimeType(bytes.NewReader(head[:n]), []string{"image/"})
	if err != nil || !util.IsImage(mimeType) {
		util.BadRequest(ctx, "only image files are allowed")
		return
	}
	reader := io.MultiReader(bytes.NewReader(head[:n]), file)

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), claims.UserID, fileHeader.Filename, reader, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"photoUrl": url})
}

// ListPlans godoc
// @Summary 订阅套餐列表
// @Tags 订阅
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.SubscriptionPlan} "成功"
// @Router /api/subscription/plans [get]
func (c *UserController) ListPlans(ctx *gin.Context) {
	util.Success(ctx, service.SubscriptionPlans)
}

// SubscribeRequest 订阅请求
// swagger:model SubscribeRequest
type SubscribeRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

// Subscribe godoc
// @Summary 开通订阅
// @Description 开通后角色立即切换为 premium，付费墙在下一次访问即放行
// @Tags 订阅
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubscribeRequest true "套餐"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "未知套餐"
// @Failure 409 {object} util.Response "已有生效订阅"
// @Router /api/subscription/subscribe [post]
func (c *UserController) Subscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.Subscribe(claims.UserID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUnknownPlan):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrAlreadySubscribed):
			util.Error(ctx, http.StatusConflict, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// CancelSubscription godoc
// @Summary 取消订阅
// @Tags 订阅
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Router /api/subscription/cancel [post]
func (c *UserController) CancelSubscription(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.CancelSubscription(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}
