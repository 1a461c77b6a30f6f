package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/cloudwego/eino-ext/components/retriever/es8"
	"github.com/cloudwego/eino-ext/components/retriever/es8/search_mode"
	"github.com/cloudwego/eino/components/embedding"
	ecomodel "github.com/cloudwego/eino/components/model"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
)

const maxExcerptLen = 200

// DocumentProvider 基于每局游戏的规则书向量索引回答问题
//
// 索引按游戏划分，检索器在每次查询时针对目标索引构建
type DocumentProvider struct {
	chatModel ecomodel.ChatModel
	esClient  *elasticsearch.Client
	embedder  embedding.Embedder
	topK      int
}

// NewDocumentProvider 创建文档检索提供方
func NewDocumentProvider(chatModel ecomodel.ChatModel, esClient *elasticsearch.Client, embedder embedding.Embedder, topK int) *DocumentProvider {
	if topK <= 0 {
		topK = 10
	}
	return &DocumentProvider{chatModel: chatModel, esClient: esClient, embedder: embedder, topK: topK}
}

// Query 检索规则书片段并生成答案
func (p *DocumentProvider) Query(ctx context.Context, storeID string, history []*model.ChatMessage, question string) (*StageOutput, error) {
	if p.chatModel == nil {
		return nil, fmt.Errorf("document chat model not configured")
	}
	if p.esClient == nil {
		return nil, fmt.Errorf("es client not configured")
	}
	if storeID == "" {
		return nil, fmt.Errorf("vector store not specified")
	}

	ret, err := es8.NewRetriever(ctx, &es8.RetrieverConfig{
		Client:     p.esClient,
		Index:      storeID,
		TopK:       p.topK,
		SearchMode: search_mode.SearchModeDenseVectorSimilarity(search_mode.DenseVectorSimilarityTypeCosineSimilarity, "content_vector"),
		Embedding:  p.embedder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create retriever: %w", err)
	}

	docs, err := ret.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve documents: %w", err)
	}

	var sb strings.Builder
	citations := make([]Citation, 0, len(docs))
	for i, doc := range docs {
		title := metaString(doc.MetaData, "document_title")
		fmt.Fprintf(&sb, "[%d] %s\n%s\n\n", i+1, title, doc.Content)
		citations = append(citations, Citation{
			DocumentTitle: title,
			Excerpt:       truncate(doc.Content, maxExcerptLen),
			Source:        SourceFileSearch,
		})
	}

	messages := []*schema.Message{
		schema.SystemMessage(documentInstruction + "\n\nRetrieved rulebook excerpts:\n\n" + sb.String()),
	}
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, schema.UserMessage(question))

	resp, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("document generation failed: %w", err)
	}

	return &StageOutput{
		Answer:    resp.Content,
		Citations: citations,
		Usage:     usageFromMessage(resp),
	}, nil
}

// WebProvider 基于网络搜索结果回答问题
type WebProvider struct {
	chatModel ecomodel.ChatModel
	search    einotool.InvokableTool
	resolver  *RedirectResolver
}

// NewWebProvider 创建网络检索提供方
func NewWebProvider(chatModel ecomodel.ChatModel, search einotool.InvokableTool, resolver *RedirectResolver) *WebProvider {
	return &WebProvider{chatModel: chatModel, search: search, resolver: resolver}
}

// webSearchResult 搜索工具返回的单条结果，字段名在不同版本间有差异，宽松解析
type webSearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
}

func (r webSearchResult) link() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Link
}

func (r webSearchResult) text() string {
	for _, s := range []string{r.Summary, r.Description, r.Snippet} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Query 执行网络搜索并生成答案
func (p *WebProvider) Query(ctx context.Context, history []*model.ChatMessage, question string) (*StageOutput, error) {
	if p.chatModel == nil {
		return nil, fmt.Errorf("web chat model not configured")
	}
	if p.search == nil {
		return nil, fmt.Errorf("web search tool not configured")
	}

	args, err := json.Marshal(map[string]string{"query": question})
	if err != nil {
		return nil, fmt.Errorf("failed to build search arguments: %w", err)
	}

	raw, err := p.search.InvokableRun(ctx, string(args))
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	results, searchContext := parseSearchResults(raw)

	citations := make([]Citation, 0, len(results))
	for _, r := range results {
		finalURL := r.link()
		if p.resolver != nil {
			finalURL = p.resolver.Resolve(ctx, finalURL)
		}
		citations = append(citations, Citation{
			DocumentTitle: r.Title,
			Excerpt:       finalURL,
			Source:        SourceGoogleSearch,
		})
	}

	messages := []*schema.Message{
		schema.SystemMessage(webInstruction + "\n\nWeb search results:\n\n" + searchContext),
	}
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, schema.UserMessage(question))

	resp, err := p.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("web generation failed: %w", err)
	}

	return &StageOutput{
		Answer:    resp.Content,
		Citations: citations,
		Usage:     usageFromMessage(resp),
	}, nil
}

// parseSearchResults 解析搜索工具输出
//
// 解析失败时把原始输出直接作为上下文，不丢弃这一路
func parseSearchResults(raw string) ([]webSearchResult, string) {
	var payload struct {
		Results []webSearchResult `json:"results"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || len(payload.Results) == 0 {
		if err != nil {
			log.Printf("Warning: failed to parse web search output, using raw text: %v", err)
		}
		return nil, raw
	}

	var sb strings.Builder
	for i, r := range payload.Results {
		fmt.Fprintf(&sb, "[%d] %s\n%s\n%s\n\n", i+1, r.Title, r.text(), r.link())
	}
	return payload.Results, sb.String()
}

// ModelSynthesizer 用一次模型调用合并文档答案和网络答案
type ModelSynthesizer struct {
	chatModel ecomodel.ChatModel
}

// NewModelSynthesizer 创建合成器
func NewModelSynthesizer(chatModel ecomodel.ChatModel) *ModelSynthesizer {
	return &ModelSynthesizer{chatModel: chatModel}
}

// Synthesize 合成最终答案
func (s *ModelSynthesizer) Synthesize(ctx context.Context, question, docAnswer, webAnswer string) (*StageOutput, error) {
	if s.chatModel == nil {
		return nil, fmt.Errorf("synthesis chat model not configured")
	}

	prompt := fmt.Sprintf("Question:\n%s\n\nRulebook-grounded answer (primary authority):\n%s\n\nWeb-grounded answer (complementary):\n%s", question, docAnswer, webAnswer)
	messages := []*schema.Message{
		schema.SystemMessage(synthesisInstruction),
		schema.UserMessage(prompt),
	}

	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("synthesis generation failed: %w", err)
	}

	return &StageOutput{
		Answer: resp.Content,
		Usage:  usageFromMessage(resp),
	}, nil
}

// historyMessages 把会话历史转成模型消息，跳过系统消息
func historyMessages(history []*model.ChatMessage) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Sender {
		case model.SenderUser:
			messages = append(messages, schema.UserMessage(msg.Content))
		case model.SenderAssistant:
			messages = append(messages, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return messages
}

func usageFromMessage(msg *schema.Message) TokenUsage {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return TokenUsage{}
	}
	u := msg.ResponseMeta.Usage
	return TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

func metaString(meta map[string]interface{}, key string) string {
	if meta == nil {
		return ""
	}
	if s, ok := meta[key].(string); ok {
		return s
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
