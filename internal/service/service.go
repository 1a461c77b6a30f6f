package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ashwinyue/tabletop-ai/internal/config"
	"github.com/ashwinyue/tabletop-ai/internal/repository"
	"github.com/ashwinyue/tabletop-ai/internal/service/access"
	"github.com/ashwinyue/tabletop-ai/internal/service/analytics"
	"github.com/ashwinyue/tabletop-ai/internal/service/faq"
	"github.com/ashwinyue/tabletop-ai/internal/service/game"
	"github.com/ashwinyue/tabletop-ai/internal/service/genai"
	"github.com/ashwinyue/tabletop-ai/internal/service/knowledge"
	"github.com/ashwinyue/tabletop-ai/internal/service/session"
	"github.com/ashwinyue/tabletop-ai/internal/service/usage"
	"github.com/cloudwego/eino-ext/components/embedding/dashscope"
	"github.com/cloudwego/eino-ext/components/model/openai"
	duckduckgov2 "github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino/components/embedding"
	ecomodel "github.com/cloudwego/eino/components/model"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// Services 服务集合
type Services struct {
	// 业务服务
	Access    *access.Service
	Usage     *usage.Service
	Sessions  *session.Manager
	Knowledge *knowledge.Locator
	Ingest    *knowledge.Processor
	GenAI     *genai.Orchestrator
	Analytics *analytics.Emitter
	Game      *game.Service
	FAQ       *faq.Service

	// 配置和当前生效的模型标识
	Config        *config.Config
	Repo          *repository.Repositories
	ModelProvider string
	ModelName     string
}

// modelKnobs 各阶段模型的采样参数
type modelKnobs struct {
	temperature *float32
	topP        *float32
	maxTokens   *int
}

func float32Ptr(v float32) *float32 { return &v }
func intPtr(v int) *int             { return &v }

// NewServices 创建所有服务
// 参考 eino-examples，使用简单的 newXxx() 函数直接初始化 eino 组件
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	ctx := context.Background()

	accessSvc := access.NewService(repo.Flag, repo.Game, cfg, access.NewCache(redisClient, 0))
	usageSvc := usage.NewService(repo.Usage, cfg.App.Environment)
	sessionMgr := session.NewManager(repo.Chat)
	locator := knowledge.NewLocator(repo.Document, cfg.Chat.FallbackLanguage)
	emitter := analytics.NewEmitter(usageSvc)

	// 创建 Embedding 器
	embedder := newEmbedder(ctx, cfg)

	// 创建 ES 客户端（文档入库和检索共用）
	esClient := newESClient(cfg)

	// 文档处理器
	var ingest *knowledge.Processor
	if esClient != nil && embedder != nil {
		ingest = knowledge.NewProcessor(repo, esClient, embedder, cfg.AI.Embedding.Dimensions)
	} else {
		log.Printf("Warning: document processor disabled, es or embedder unavailable")
	}

	// 三个阶段各自的 ChatModel，采样参数不同：
	// 文档问答和合成要低温度贴住原文，网络问答放宽一点
	docModel, err := newChatModel(ctx, cfg, modelKnobs{
		temperature: float32Ptr(0.1),
		topP:        float32Ptr(0.3),
		maxTokens:   intPtr(4096),
	})
	if err != nil {
		log.Printf("Warning: failed to create document chat model: %v", err)
	}
	webModel, err := newChatModel(ctx, cfg, modelKnobs{
		temperature: float32Ptr(0.1),
		topP:        float32Ptr(0.5),
		maxTokens:   intPtr(4096),
	})
	if err != nil {
		log.Printf("Warning: failed to create web chat model: %v", err)
	}
	synthModel, err := newChatModel(ctx, cfg, modelKnobs{
		temperature: float32Ptr(0.1),
		topP:        float32Ptr(0.3),
	})
	if err != nil {
		log.Printf("Warning: failed to create synthesis chat model: %v", err)
	}

	// 编排器
	docProvider := genai.NewDocumentProvider(docModel, esClient, embedder, 10)
	webProvider := genai.NewWebProvider(webModel, newWebSearchTool(ctx), genai.NewRedirectResolver())
	synthesizer := genai.NewModelSynthesizer(synthModel)
	orchestrator := genai.NewOrchestrator(docProvider, webProvider, synthesizer,
		time.Duration(cfg.AI.StageTimeout)*time.Second)

	provider, modelName := resolvedModel(cfg)

	return &Services{
		Access:    accessSvc,
		Usage:     usageSvc,
		Sessions:  sessionMgr,
		Knowledge: locator,
		Ingest:    ingest,
		GenAI:     orchestrator,
		Analytics: emitter,
		Game:      game.NewService(repo.Game, accessSvc),
		FAQ:       faq.NewService(repo.FAQ, accessSvc, emitter),

		Config:        cfg,
		Repo:          repo,
		ModelProvider: provider,
		ModelName:     modelName,
	}, nil
}

// resolvedModel 当前配置下实际生效的提供商和模型名
func resolvedModel(cfg *config.Config) (string, string) {
	aiCfg := cfg.AI
	switch aiCfg.Provider {
	case "alibaba", "qwen", "dashscope":
		return aiCfg.Provider, aiCfg.Alibaba.Model
	case "deepseek":
		return aiCfg.Provider, aiCfg.DeepSeek.Model
	default:
		name := aiCfg.OpenAI.Model
		if name == "" {
			name = "gpt-4o-mini"
		}
		return "openai", name
	}
}

// newChatModel 创建 ChatModel
func newChatModel(ctx context.Context, cfg *config.Config, knobs modelKnobs) (ecomodel.ChatModel, error) {
	aiCfg := cfg.AI

	var apiKey, baseURL, modelName string

	switch aiCfg.Provider {
	case "openai":
		apiKey = aiCfg.OpenAI.APIKey
		baseURL = aiCfg.OpenAI.BaseURL
		modelName = aiCfg.OpenAI.Model
	case "alibaba", "qwen", "dashscope":
		apiKey = aiCfg.Alibaba.AccessKeySecret
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
		modelName = aiCfg.Alibaba.Model
	case "deepseek":
		apiKey = aiCfg.DeepSeek.APIKey
		baseURL = aiCfg.DeepSeek.BaseURL
		modelName = aiCfg.DeepSeek.Model
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", aiCfg.Provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: %s", aiCfg.Provider)
	}

	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       modelName,
		Temperature: knobs.temperature,
		TopP:        knobs.topP,
		MaxTokens:   knobs.maxTokens,
	})
}

// newEmbedder 创建 Embedding 器
func newEmbedder(ctx context.Context, cfg *config.Config) embedding.Embedder {
	embCfg := cfg.AI.Embedding

	var apiKey, model string
	var timeout int

	switch embCfg.Provider {
	case "alibaba", "qwen", "dashscope", "":
		apiKey = embCfg.APIKey
		model = embCfg.Model
		timeout = embCfg.Timeout
	case "openai":
		apiKey = embCfg.APIKey
		model = embCfg.Model
		timeout = embCfg.Timeout
	default:
		log.Printf("Warning: unsupported embedding provider: %s", embCfg.Provider)
		return nil
	}

	if apiKey == "" {
		log.Printf("Warning: embedding api_key is empty")
		return nil
	}

	if model == "" {
		model = "text-embedding-v3"
	}

	embConfig := &dashscope.EmbeddingConfig{
		APIKey: apiKey,
		Model:  model,
	}

	if timeout > 0 {
		embConfig.Timeout = time.Duration(timeout) * time.Second
	}

	if embCfg.Dimensions > 0 {
		embConfig.Dimensions = &embCfg.Dimensions
	}

	embedder, err := dashscope.NewEmbedder(ctx, embConfig)
	if err != nil {
		log.Printf("Warning: failed to create embedder: %v", err)
		return nil
	}

	return embedder
}

// newESClient 创建 ES 客户端
func newESClient(cfg *config.Config) *elasticsearch.Client {
	esCfg := cfg.Elastic

	if esCfg.Host == "" {
		log.Printf("Warning: elasticsearch host not configured")
		return nil
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esCfg.Host},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
	})
	if err != nil {
		log.Printf("Warning: failed to create es client: %v", err)
		return nil
	}

	return esClient
}

// newWebSearchTool 创建网络搜索工具
func newWebSearchTool(ctx context.Context) einotool.InvokableTool {
	searchTool, err := duckduckgov2.NewTextSearchTool(ctx, &duckduckgov2.Config{
		ToolName:   "web_search",
		ToolDesc:   "Search the web for board game rulings, FAQs and errata using DuckDuckGo.",
		MaxResults: 10,
	})
	if err != nil {
		log.Printf("Warning: failed to create web search tool: %v", err)
		return nil
	}

	return searchTool
}
