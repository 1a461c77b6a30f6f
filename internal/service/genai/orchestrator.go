// Package genai 实现两阶段检索问答编排
//
// 先查私有规则书索引，再查网络检索，两路都成功时用第三次调用
// 把两个答案合成为一个；任一路失败都不致命，只有两路全失败才
// 向调用方报提供方错误。
package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashwinyue/tabletop-ai/internal/model"
)

// 引用来源
const (
	SourceFileSearch   = "file_search"
	SourceGoogleSearch = "google_search"
)

// NoAnswerSentinel 无答案时的固定回复，下游 UI 依赖这个原文做特判
const NoAnswerSentinel = "I dont have information about your request"

// Citation 答案引用
type Citation struct {
	DocumentTitle string `json:"document_title,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	Source        string `json:"source"` // file_search, google_search
}

// TokenUsage token 用量
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

func (u TokenUsage) add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

// StageOutput 单个阶段的产出
type StageOutput struct {
	Answer    string
	Citations []Citation
	Usage     TokenUsage
}

// DocumentGroundedProvider 文档检索问答提供方
type DocumentGroundedProvider interface {
	Query(ctx context.Context, storeID string, history []*model.ChatMessage, question string) (*StageOutput, error)
}

// WebGroundedProvider 网络检索问答提供方
type WebGroundedProvider interface {
	Query(ctx context.Context, history []*model.ChatMessage, question string) (*StageOutput, error)
}

// Synthesizer 答案合成提供方
type Synthesizer interface {
	Synthesize(ctx context.Context, question, docAnswer, webAnswer string) (*StageOutput, error)
}

// Result 编排结果
type Result struct {
	Answer    string            `json:"answer"`
	Citations []Citation        `json:"citations"`
	Usage     TokenUsage        `json:"usage"`
	Errors    map[string]string `json:"errors,omitempty"` // 被吸收的阶段错误，按阶段名记录
}

// stageResult 带标签的阶段结果，失败作为值传递而不是向上抛
type stageResult struct {
	out *StageOutput
	err error
}

func (r stageResult) ok() bool {
	return r.err == nil && r.out != nil
}

// Orchestrator 查询编排器
type Orchestrator struct {
	docs         DocumentGroundedProvider
	web          WebGroundedProvider
	synth        Synthesizer
	stageTimeout time.Duration
}

// NewOrchestrator 创建编排器
func NewOrchestrator(docs DocumentGroundedProvider, web WebGroundedProvider, synth Synthesizer, stageTimeout time.Duration) *Orchestrator {
	if stageTimeout <= 0 {
		stageTimeout = 60 * time.Second
	}
	return &Orchestrator{docs: docs, web: web, synth: synth, stageTimeout: stageTimeout}
}

// Answer 运行两阶段检索加合成
//
// 两个检索阶段顺序执行，各带自己的超时；某一阶段超时或出错只
// 影响它自己。合成必须等两路都到终态才开始。
func (o *Orchestrator) Answer(ctx context.Context, storeID string, history []*model.ChatMessage, question string) (*Result, error) {
	doc := o.runDocStage(ctx, storeID, history, question)
	web := o.runWebStage(ctx, history, question)

	// 两路全失败才算致命
	if !doc.ok() && !web.ok() {
		return nil, fmt.Errorf("all grounded stages failed: file_search: %v; google_search: %v", doc.err, web.err)
	}

	result := &Result{Errors: make(map[string]string)}

	switch {
	case !doc.ok():
		// 只剩网络检索，原样返回
		result.Errors[SourceFileSearch] = doc.err.Error()
		result.Answer = web.out.Answer
		result.Citations = web.out.Citations
		result.Usage = web.out.Usage

	case !web.ok():
		// 只剩文档检索，原样返回
		result.Errors[SourceGoogleSearch] = web.err.Error()
		result.Answer = doc.out.Answer
		result.Citations = doc.out.Citations
		result.Usage = doc.out.Usage

	default:
		// 两路都成功，合成；文档答案是第一权威
		result.Citations = append(append([]Citation{}, doc.out.Citations...), web.out.Citations...)
		result.Usage = doc.out.Usage.add(web.out.Usage)

		synth := o.runSynthesis(ctx, question, doc.out.Answer, web.out.Answer)
		if synth.ok() {
			result.Answer = synth.out.Answer
			result.Usage = result.Usage.add(synth.out.Usage)
		} else {
			// 合成失败不致命，退回文档答案，再退网络答案
			result.Errors["synthesis"] = synth.err.Error()
			result.Answer = doc.out.Answer
			if strings.TrimSpace(result.Answer) == "" {
				result.Answer = web.out.Answer
			}
		}
	}

	if strings.TrimSpace(result.Answer) == "" {
		result.Answer = NoAnswerSentinel
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

func (o *Orchestrator) runDocStage(ctx context.Context, storeID string, history []*model.ChatMessage, question string) stageResult {
	if o.docs == nil {
		return stageResult{err: fmt.Errorf("document provider not configured")}
	}

	stageCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	out, err := o.docs.Query(stageCtx, storeID, history, question)
	return stageResult{out: out, err: err}
}

func (o *Orchestrator) runWebStage(ctx context.Context, history []*model.ChatMessage, question string) stageResult {
	if o.web == nil {
		return stageResult{err: fmt.Errorf("web provider not configured")}
	}

	stageCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	out, err := o.web.Query(stageCtx, history, question)
	return stageResult{out: out, err: err}
}

func (o *Orchestrator) runSynthesis(ctx context.Context, question, docAnswer, webAnswer string) stageResult {
	if o.synth == nil {
		return stageResult{err: fmt.Errorf("synthesizer not configured")}
	}

	stageCtx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	out, err := o.synth.Synthesize(stageCtx, question, docAnswer, webAnswer)
	return stageResult{out: out, err: err}
}
