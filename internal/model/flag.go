package model

import "time"

// 功能开关作用域
const (
	ScopeGlobal  = "global"
	ScopeSection = "section"
	ScopeGame    = "game"
	ScopeUser    = "user"
)

// 功能标识
const (
	FeatureChat       = "chat"
	FeatureFAQ        = "faq"
	FeatureGameAccess = "game_access"
)

// 开关元数据的已知键
const (
	MetaDailyLimit = "daily_limit"
)

// FeatureFlag 功能开关
// 同一 (feature_key, environment) 下可以存在多条记录，按
// (scope_type, scope_id, role) 区分；role 为空表示对所有角色生效。
type FeatureFlag struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	FeatureKey  string    `gorm:"index;size:100;not null" json:"feature_key"`
	Environment string    `gorm:"index;size:20;not null" json:"environment"`
	ScopeType   string    `gorm:"index;size:20;not null" json:"scope_type"` // global, section, game, user
	ScopeID     *string   `gorm:"index;size:36" json:"scope_id,omitempty"`
	Role        *string   `gorm:"size:50" json:"role,omitempty"`
	Enabled     bool      `gorm:"default:false" json:"enabled"`
	Metadata    JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (FeatureFlag) TableName() string {
	return "feature_flags"
}
