package model

import "time"

// GameFAQ 游戏常见问题
type GameFAQ struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GameID    string    `gorm:"index;size:36;not null" json:"game_id"`
	Language  string    `gorm:"index;size:5" json:"language"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Category  string    `gorm:"size:100" json:"category,omitempty"`
	Position  int       `gorm:"default:0;index" json:"position"`
	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (GameFAQ) TableName() string {
	return "game_faqs"
}
