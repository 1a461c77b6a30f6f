package model

import "time"

// 游戏状态
const (
	GameActive = "active"
	GameBeta   = "beta"
	GameHidden = "hidden"
)

// Game 桌游
type Game struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	NameBase     string    `gorm:"size:255;not null;index" json:"name_base"`
	Description  string    `gorm:"type:text" json:"description"`
	BggID        int       `gorm:"index" json:"bgg_id,omitempty"` // BoardGameGeek ID
	ThumbnailURL string    `gorm:"size:500" json:"thumbnail_url,omitempty"`
	ImageURL     string    `gorm:"size:500" json:"image_url,omitempty"`
	MinPlayers   int       `gorm:"default:0" json:"min_players"`
	MaxPlayers   int       `gorm:"default:0" json:"max_players"`
	PlayingTime  int       `gorm:"default:0" json:"playing_time"` // 分钟
	Rating       float64   `gorm:"default:0" json:"rating"`
	Status       string    `gorm:"index;size:20;default:active" json:"status"` // active, beta, hidden
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Game) TableName() string {
	return "games"
}
