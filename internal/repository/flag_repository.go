package repository

import (
	"github.com/ashwinyue/tabletop-ai/internal/model"
	"gorm.io/gorm"
)

// FlagRepository 功能开关数据访问
type FlagRepository struct {
	db *gorm.DB
}

// NewFlagRepository 创建功能开关仓库
func NewFlagRepository(db *gorm.DB) *FlagRepository {
	return &FlagRepository{db: db}
}

// ListFlags 查询一个候选条件下的开关记录
// scopeID 为空表示 scope_id IS NULL；role 为空表示 role IS NULL。
func (r *FlagRepository) ListFlags(featureKey, environment, scopeType, scopeID, role string) ([]*model.FeatureFlag, error) {
	query := r.db.
		Where("feature_key = ? AND environment = ? AND scope_type = ?", featureKey, environment, scopeType)

	if scopeID == "" {
		query = query.Where("scope_id IS NULL")
	} else {
		query = query.Where("scope_id = ?", scopeID)
	}

	if role == "" {
		query = query.Where("role IS NULL")
	} else {
		query = query.Where("role = ?", role)
	}

	var flags []*model.FeatureFlag
	err := query.Order("updated_at DESC").Find(&flags).Error
	return flags, err
}

// ListByScopeType 查询某作用域类型下的全部开关记录（不限定 scope_id）
// 用于枚举用户可访问的游戏。
func (r *FlagRepository) ListByScopeType(featureKey, environment, scopeType, role string) ([]*model.FeatureFlag, error) {
	query := r.db.
		Where("feature_key = ? AND environment = ? AND scope_type = ?", featureKey, environment, scopeType)

	if role == "" {
		query = query.Where("role IS NULL")
	} else {
		query = query.Where("role = ?", role)
	}

	var flags []*model.FeatureFlag
	err := query.Find(&flags).Error
	return flags, err
}

// ListByFeature 查询某功能下的全部开关记录（管理侧）
func (r *FlagRepository) ListByFeature(featureKey, environment string) ([]*model.FeatureFlag, error) {
	query := r.db.Order("scope_type, scope_id, role")
	if featureKey != "" {
		query = query.Where("feature_key = ?", featureKey)
	}
	if environment != "" {
		query = query.Where("environment = ?", environment)
	}

	var flags []*model.FeatureFlag
	err := query.Find(&flags).Error
	return flags, err
}
