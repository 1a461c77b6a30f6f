package model

import "time"

// 文档状态
const (
	DocumentPending    = "pending"
	DocumentProcessing = "processing"
	DocumentReady      = "ready"
	DocumentFailed     = "failed"
)

// GameDocument 规则书文档
// VectorStoreID 指向该文档内容所在的检索索引；同一游戏的所有文档共享一个索引。
type GameDocument struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	GameID        string    `gorm:"index;size:36;not null" json:"game_id"`
	Language      string    `gorm:"index;size:5" json:"language"`
	FileName      string    `gorm:"size:255" json:"file_name"`
	FilePath      string    `gorm:"size:500" json:"file_path"`
	MimeType      string    `gorm:"size:100" json:"mime_type"`
	Status        string    `gorm:"index;size:20;default:pending" json:"status"` // pending, processing, ready, failed
	VectorStoreID string    `gorm:"index;size:100" json:"vector_store_id,omitempty"`
	ChunkCount    int       `gorm:"default:0" json:"chunk_count"`
	ErrorMsg      string    `gorm:"type:text" json:"error_msg,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (GameDocument) TableName() string {
	return "game_documents"
}
