package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ashwinyue/tabletop-ai/internal/model"
	"github.com/ashwinyue/tabletop-ai/internal/repository"
	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/cloudwego/eino-ext/components/document/parser/html"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino-ext/components/indexer/es8"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

// Processor 规则书处理器
// 把上传好的规则书解析、分块、向量化并写入游戏的检索索引，
// 最后把文档标记为 ready 并记下索引标识。
type Processor struct {
	repo       *repository.Repositories
	esClient   *elasticsearch.Client
	embedder   embedding.Embedder
	dimensions int
}

// NewProcessor 创建规则书处理器
func NewProcessor(repo *repository.Repositories, esClient *elasticsearch.Client, embedder embedding.Embedder, dimensions int) *Processor {
	return &Processor{
		repo:       repo,
		esClient:   esClient,
		embedder:   embedder,
		dimensions: dimensions,
	}
}

// StoreIndexName 游戏检索索引的命名规则
func StoreIndexName(gameID string) string {
	return "game-" + gameID
}

// ProcessDocument 处理文档的完整流程
func (p *Processor) ProcessDocument(ctx context.Context, documentID string) error {
	doc, err := p.repo.Document.GetByID(documentID)
	if err != nil {
		return fmt.Errorf("document not found: %w", err)
	}

	doc.Status = model.DocumentProcessing
	doc.ErrorMsg = ""
	if err := p.repo.Document.Update(doc); err != nil {
		return fmt.Errorf("failed to mark document processing: %w", err)
	}

	indexName := StoreIndexName(doc.GameID)
	chunkCount, err := p.ingest(ctx, doc, indexName)
	if err != nil {
		doc.Status = model.DocumentFailed
		doc.ErrorMsg = err.Error()
		if updateErr := p.repo.Document.Update(doc); updateErr != nil {
			log.Printf("failed to mark document %s failed: %v", doc.ID, updateErr)
		}
		return err
	}

	doc.Status = model.DocumentReady
	doc.VectorStoreID = indexName
	doc.ChunkCount = chunkCount
	if err := p.repo.Document.Update(doc); err != nil {
		return fmt.Errorf("failed to mark document ready: %w", err)
	}

	log.Printf("Document %s indexed into %s (%d chunks)", doc.ID, indexName, chunkCount)
	return nil
}

// ingest 解析→分块→索引
func (p *Processor) ingest(ctx context.Context, doc *model.GameDocument, indexName string) (int, error) {
	if p.esClient == nil || p.embedder == nil {
		return 0, fmt.Errorf("indexing backend not configured")
	}

	parsed, err := p.parseDocument(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("failed to parse document: %w", err)
	}
	if len(parsed) == 0 {
		return 0, fmt.Errorf("no content parsed from document")
	}

	chunks, err := p.splitDocuments(ctx, parsed)
	if err != nil {
		return 0, fmt.Errorf("failed to split documents: %w", err)
	}

	if err := p.ensureIndex(ctx, indexName); err != nil {
		return 0, fmt.Errorf("failed to ensure index: %w", err)
	}

	indexer, err := es8.NewIndexer(ctx, &es8.IndexerConfig{
		Client:    p.esClient,
		Index:     indexName,
		BatchSize: 10,
		Embedding: p.embedder,
		DocumentToFields: func(ctx context.Context, doc *schema.Document) (map[string]es8.FieldValue, error) {
			return documentToESFields(doc), nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create indexer: %w", err)
	}

	ids, err := indexer.Store(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}
	return len(ids), nil
}

// parseDocument 按文件类型解析文档
func (p *Processor) parseDocument(ctx context.Context, doc *model.GameDocument) ([]*schema.Document, error) {
	if doc.FilePath == "" {
		return nil, fmt.Errorf("file path is empty")
	}

	fileParser, err := newParser(ctx, doc.FileName, doc.MimeType)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	docs, err := fileParser.Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("parser failed: %w", err)
	}

	// 元数据随块入索引，检索时用作引用标题
	for _, d := range docs {
		if d.MetaData == nil {
			d.MetaData = make(map[string]any)
		}
		d.MetaData["document_id"] = doc.ID
		d.MetaData["document_title"] = doc.FileName
		d.MetaData["game_id"] = doc.GameID
		d.MetaData["language"] = doc.Language
	}
	return docs, nil
}

// newParser 创建解析器
func newParser(ctx context.Context, fileName, mimeType string) (einoparser.Parser, error) {
	switch {
	case mimeType == "application/pdf" || strings.HasSuffix(fileName, ".pdf"):
		return pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	case strings.HasSuffix(fileName, ".docx"):
		return docx.NewDocxParser(ctx, &docx.Config{
			ToSections:      false,
			IncludeComments: false,
			IncludeHeaders:  true,
			IncludeFooters:  false,
			IncludeTables:   true,
		})
	case mimeType == "text/html" || strings.HasSuffix(fileName, ".html"):
		bodySelector := "body"
		return html.NewParser(ctx, &html.Config{Selector: &bodySelector})
	case strings.HasSuffix(fileName, ".txt") || strings.HasSuffix(fileName, ".md"):
		return &textParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileName)
	}
}

// textParser 纯文本解析器
type textParser struct{}

func (p *textParser) Parse(_ context.Context, reader io.Reader, opts ...einoparser.Option) ([]*schema.Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}

	text := string(content)
	if text == "" {
		return []*schema.Document{}, nil
	}

	return []*schema.Document{
		{
			Content:  text,
			MetaData: make(map[string]any),
		},
	}, nil
}

// splitDocuments 分块
func (p *Processor) splitDocuments(ctx context.Context, docs []*schema.Document) ([]*schema.Document, error) {
	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   512,
		OverlapSize: 50,
		Separators:  []string{"\n\n", "\n", ". ", "? ", "! ", ", ", " ", ""},
		KeepType:    recursive.KeepTypeNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}

	chunks, err := splitter.Transform(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("splitter failed: %w", err)
	}

	for i, chunk := range chunks {
		if chunk.ID == "" {
			chunk.ID = uuid.New().String()
		}
		if chunk.MetaData == nil {
			chunk.MetaData = make(map[string]any)
		}
		chunk.MetaData["chunk_index"] = i
	}
	return chunks, nil
}

// documentToESFields 将块转换为 ES 字段
func documentToESFields(doc *schema.Document) map[string]es8.FieldValue {
	fields := make(map[string]es8.FieldValue)

	// 内容字段（需要向量化）
	fields["content"] = es8.FieldValue{
		Value:    doc.Content,
		EmbedKey: "content_vector",
	}

	if doc.MetaData != nil {
		for k, v := range doc.MetaData {
			fields[k] = es8.FieldValue{Value: v}
		}
	}
	return fields
}

// ensureIndex 确保索引存在（如不存在则创建）
func (p *Processor) ensureIndex(ctx context.Context, indexName string) error {
	res, err := p.esClient.Indices.Exists([]string{indexName})
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	dimensions := p.dimensions
	if dimensions == 0 {
		dimensions = 1536
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"content": map[string]interface{}{
					"type": "text",
				},
				"content_vector": map[string]interface{}{
					"type":       "dense_vector",
					"dims":       dimensions,
					"index":      true,
					"similarity": "cosine",
				},
				"document_id": map[string]interface{}{
					"type": "keyword",
				},
				"document_title": map[string]interface{}{
					"type": "keyword",
				},
				"game_id": map[string]interface{}{
					"type": "keyword",
				},
				"language": map[string]interface{}{
					"type": "keyword",
				},
				"chunk_index": map[string]interface{}{
					"type": "integer",
				},
			},
		},
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
	}

	mappingData, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	req := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(mappingData),
	}

	res, err = req.Do(ctx, p.esClient)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to create index: %s", res.String())
	}

	log.Printf("Index %s created with %d dimensions", indexName, dimensions)
	return nil
}
