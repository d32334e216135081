package service

import (
	"testing"
	"time"

	"github.com/jk08y/PyAIApp/internal/model"
	"github.com/jk08y/PyAIApp/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPlan(t *testing.T) {
	monthly := FindPlan(model.PlanMonthly)
	require.NotNil(t, monthly)
	assert.Equal(t, "$9.99", monthly.Price)
	assert.Equal(t, 30, monthly.Days)

	yearly := FindPlan(model.PlanYearly)
	require.NotNil(t, yearly)
	assert.Equal(t, "$99.99", yearly.Price)
	assert.Equal(t, 365, yearly.Days)
	assert.True(t, yearly.Popular)

	assert.Nil(t, FindPlan("lifetime"))
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.userRepo, nil)
	user := f.createUser(t, model.RoleFree)

	updated, err := svc.Subscribe(user.ID, model.PlanMonthly)
	require.NoError(t, err)

	assert.Equal(t, model.RolePremium, updated.Role)
	assert.Equal(t, model.PlanMonthly, updated.SubscriptionPlan)
	require.NotNil(t, updated.SubscriptionExpiresAt)
	assert.True(t, updated.SubscriptionExpiresAt.After(time.Now().Add(29*24*time.Hour)))
	assert.True(t, updated.IsPremiumUser())

	// 已有生效订阅时拒绝重复开通
	_, err = svc.Subscribe(user.ID, model.PlanYearly)
	assert.ErrorIs(t, err, util.ErrAlreadySubscribed)

	_, err = svc.Subscribe(user.ID, "lifetime")
	assert.ErrorIs(t, err, util.ErrUnknownPlan)
}

func TestSubscribeAfterExpiry(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.userRepo, nil)
	user := f.createUser(t, model.RoleFree)

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, f.userRepo.UpdateSubscription(user.ID, model.RolePremium, model.PlanMonthly, &expired))

	// 到期的订阅不算生效，允许重新开通
	updated, err := svc.Subscribe(user.ID, model.PlanYearly)
	require.NoError(t, err)
	assert.Equal(t, model.PlanYearly, updated.SubscriptionPlan)
	assert.True(t, updated.IsPremiumUser())
}

func TestCancelSubscription(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.userRepo, nil)
	user := f.createUser(t, model.RolePremium)

	updated, err := svc.CancelSubscription(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleFree, updated.Role)
	assert.Empty(t, updated.SubscriptionPlan)
	assert.Nil(t, updated.SubscriptionExpiresAt)
	assert.False(t, updated.IsPremiumUser())

	// 非订阅用户取消是空操作
	again, err := svc.CancelSubscription(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleFree, again.Role)
}

func TestUpdateProfilePartial(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.userRepo, nil)
	user := f.createUser(t, model.RoleFree)

	bio := "Learning Python"
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Learning Python", updated.Bio)
	// 未提供的字段保持不变
	assert.Equal(t, user.DisplayName, updated.DisplayName)

	name := "New Name"
	updated, err = svc.UpdateProfile(user.ID, ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)
	assert.Equal(t, "Learning Python", updated.Bio)

	_, err = svc.UpdateProfile(99999, ProfileUpdate{Bio: &bio})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
