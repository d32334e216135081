package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/repository"
	"github.com/jk08y/PyAIApp/internal/util"
)

// SubscriptionPlan 订阅套餐
// swagger:model SubscriptionPlan
type SubscriptionPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
	Days        int      `json:"-"`
}

// 与移动端套餐页保持一致
var SubscriptionPlans = []SubscriptionPlan{
	{
		ID:          model.PlanMonthly,
		Name:        "Monthly",
		Price:       "$9.99",
		Period:      "/month",
		Description: "Full access to all premium courses",
		Features: []string{
			"Access to all premium courses",
			"Unlimited coding exercises",
			"Course completion certificates",
			"Priority support",
		},
		Days: 30,
	},
	{
		ID:          model.PlanYearly,
		Name:        "Yearly",
		Price:       "$99.99",
		Period:      "/year",
		Description: "Two months free compared to monthly",
		Features: []string{
			"Everything in Monthly plan",
			"Two months free",
			"Offline course downloads",
		},
		Popular: true,
		Days:    365,
	},
}

func FindPlan(planID string) *SubscriptionPlan {
	for i := range SubscriptionPlans {
		if SubscriptionPlans[i].ID == planID {
			return &SubscriptionPlans[i]
		}
	}
	return nil
}

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

type ProfileUpdate struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	PhotoURL    *string `json:"photoUrl"`
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if update.DisplayName != nil && *update.DisplayName != "" {
		user.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.PhotoURL != nil {
		user.PhotoURL = *update.PhotoURL
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar 上传头像并更新用户资料
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	objectName := fmt.Sprintf("avatars/%d/%d%s", userID, time.Now().UnixNano(), filepath.Ext(filename))
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	user.PhotoURL = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}

// Subscribe 开通订阅：角色切到 premium 并按套餐设置到期时间。
// 已处于有效订阅时拒绝重复开通。
func (s *UserService) Subscribe(userID uint, planID string) (*model.User, error) {
	plan := FindPlan(planID)
	if plan == nil {
		return nil, util.ErrUnknownPlan
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.Role == model.RolePremium && user.IsPremiumUser() {
		return nil, util.ErrAlreadySubscribed
	}

	expiresAt := time.Now().AddDate(0, 0, plan.Days)
	if err := s.UserRepo.UpdateSubscription(userID, model.RolePremium, plan.ID, &expiresAt); err != nil {
		return nil, err
	}

	return s.UserRepo.FindByID(userID)
}

// CancelSubscription 取消订阅，角色回落为 free
func (s *UserService) CancelSubscription(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	if user.Role != model.RolePremium {
		return user, nil
	}

	if err := s.UserRepo.UpdateSubscription(userID, model.RoleFree, "", nil); err != nil {
		return nil, err
	}
	return s.UserRepo.FindByID(userID)
}
