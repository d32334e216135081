package model

import (
	"time"
)

type UserRole string

const (
	RoleFree    UserRole = "free"
	RolePremium UserRole = "premium"
	RoleAdmin   UserRole = "admin"
)

// 订阅套餐
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// swagger:model User
type User struct {
	BaseModel
	DisplayName           string     `gorm:"size:100;not null" json:"displayName"`
	Email                 string     `gorm:"size:100;unique;not null" json:"email"`
	Password              string     `gorm:"size:100;not null" json:"-"`
	Role                  UserRole   `gorm:"size:20;default:'free';index" json:"role"`
	PhotoURL              string     `gorm:"size:255" json:"photoUrl"`
	Bio                   string     `gorm:"size:500" json:"bio"`
	SubscriptionPlan      string     `gorm:"size:20" json:"subscriptionPlan"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt"`
	Disabled              bool       `gorm:"default:false" json:"disabled"`
	LastLogin             time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"lastLogin"`
	LastSeen              time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// IsPremiumUser 判断用户当前是否处于有效的付费订阅状态。
// 订阅状态可能在会话中途变化（升级/到期），调用方每次都应重新读取用户记录，
// 不要缓存该结果。
func (u *User) IsPremiumUser() bool {
	if u.Role == RoleAdmin {
		return true
	}
	if u.Role != RolePremium {
		return false
	}
	if u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}
