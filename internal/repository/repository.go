package repository

import "gorm.io/gorm"

// Repositories 仓库集合，用于统一管理所有仓库
type Repositories struct {
	DB       *gorm.DB // 直接访问数据库
	Flag     *FlagRepository
	Usage    *UsageRepository
	Chat     *ChatRepository
	Game     *GameRepository
	Document *DocumentRepository
	FAQ      *FAQRepository
}

// NewRepositories 创建所有仓库
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:       db,
		Flag:     NewFlagRepository(db),
		Usage:    NewUsageRepository(db),
		Chat:     NewChatRepository(db),
		Game:     NewGameRepository(db),
		Document: NewDocumentRepository(db),
		FAQ:      NewFAQRepository(db),
	}
}
