package genai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ashwinyue/tabletop-ai/internal/model"
)

type mockDocProvider struct {
	out   *StageOutput
	err   error
	calls int
}

func (m *mockDocProvider) Query(ctx context.Context, storeID string, history []*model.ChatMessage, question string) (*StageOutput, error) {
	m.calls++
	return m.out, m.err
}

type mockWebProvider struct {
	out   *StageOutput
	err   error
	calls int
}

func (m *mockWebProvider) Query(ctx context.Context, history []*model.ChatMessage, question string) (*StageOutput, error) {
	m.calls++
	return m.out, m.err
}

type mockSynthesizer struct {
	out       *StageOutput
	err       error
	calls     int
	docAnswer string
	webAnswer string
}

func (m *mockSynthesizer) Synthesize(ctx context.Context, question, docAnswer, webAnswer string) (*StageOutput, error) {
	m.calls++
	m.docAnswer = docAnswer
	m.webAnswer = webAnswer
	return m.out, m.err
}

func docOutput() *StageOutput {
	return &StageOutput{
		Answer: "The rulebook says you draw two cards.",
		Citations: []Citation{
			{DocumentTitle: "Catan Rulebook", Excerpt: "draw two cards", Source: SourceFileSearch},
		},
		Usage: TokenUsage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	}
}

func webOutput() *StageOutput {
	return &StageOutput{
		Answer: "BGG consensus is two cards.",
		Citations: []Citation{
			{DocumentTitle: "BGG thread", Excerpt: "https://boardgamegeek.com/thread/1", Source: SourceGoogleSearch},
		},
		Usage: TokenUsage{PromptTokens: 80, CompletionTokens: 10, TotalTokens: 90},
	}
}

func TestAnswerBothStagesSucceed(t *testing.T) {
	docs := &mockDocProvider{out: docOutput()}
	web := &mockWebProvider{out: webOutput()}
	synth := &mockSynthesizer{out: &StageOutput{
		Answer: "You draw two resource cards.",
		Usage:  TokenUsage{PromptTokens: 50, CompletionTokens: 15, TotalTokens: 65},
	}}

	o := NewOrchestrator(docs, web, synth, time.Minute)
	result, err := o.Answer(context.Background(), "game-catan", nil, "How many cards do I draw?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.Answer != "You draw two resource cards." {
		t.Errorf("Answer = %q, want synthesized answer", result.Answer)
	}
	if synth.calls != 1 {
		t.Errorf("synthesizer calls = %d, want 1", synth.calls)
	}
	if synth.docAnswer != docOutput().Answer || synth.webAnswer != webOutput().Answer {
		t.Errorf("synthesizer received (%q, %q)", synth.docAnswer, synth.webAnswer)
	}
	if len(result.Citations) != 2 {
		t.Fatalf("citations = %d, want 2", len(result.Citations))
	}
	if result.Citations[0].Source != SourceFileSearch || result.Citations[1].Source != SourceGoogleSearch {
		t.Errorf("citation ordering wrong: %+v", result.Citations)
	}
	if result.Usage.TotalTokens != 120+90+65 {
		t.Errorf("TotalTokens = %d, want %d", result.Usage.TotalTokens, 120+90+65)
	}
	if result.Errors != nil {
		t.Errorf("Errors = %v, want nil", result.Errors)
	}
}

func TestAnswerDocumentStageFails(t *testing.T) {
	docs := &mockDocProvider{err: errors.New("index missing")}
	web := &mockWebProvider{out: webOutput()}
	synth := &mockSynthesizer{}

	o := NewOrchestrator(docs, web, synth, time.Minute)
	result, err := o.Answer(context.Background(), "game-catan", nil, "q")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.Answer != webOutput().Answer {
		t.Errorf("Answer = %q, want web answer verbatim", result.Answer)
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer called with a failed stage")
	}
	if len(result.Citations) != 1 || result.Citations[0].Source != SourceGoogleSearch {
		t.Errorf("citations = %+v, want web citations only", result.Citations)
	}
	if msg, ok := result.Errors["file_search"]; !ok || !strings.Contains(msg, "index missing") {
		t.Errorf("Errors = %v, want file_search entry", result.Errors)
	}
	if result.Usage.TotalTokens != 90 {
		t.Errorf("TotalTokens = %d, want web usage only", result.Usage.TotalTokens)
	}
}

func TestAnswerWebStageFails(t *testing.T) {
	docs := &mockDocProvider{out: docOutput()}
	web := &mockWebProvider{err: errors.New("search timeout")}
	synth := &mockSynthesizer{}

	o := NewOrchestrator(docs, web, synth, time.Minute)
	result, err := o.Answer(context.Background(), "game-catan", nil, "q")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.Answer != docOutput().Answer {
		t.Errorf("Answer = %q, want document answer verbatim", result.Answer)
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer called with a failed stage")
	}
	if msg, ok := result.Errors["google_search"]; !ok || !strings.Contains(msg, "search timeout") {
		t.Errorf("Errors = %v, want google_search entry", result.Errors)
	}
	if result.Usage.TotalTokens != 120 {
		t.Errorf("TotalTokens = %d, want document usage only", result.Usage.TotalTokens)
	}
}

func TestAnswerBothStagesFail(t *testing.T) {
	docs := &mockDocProvider{err: errors.New("index missing")}
	web := &mockWebProvider{err: errors.New("search timeout")}

	o := NewOrchestrator(docs, web, &mockSynthesizer{}, time.Minute)
	result, err := o.Answer(context.Background(), "game-catan", nil, "q")
	if err == nil {
		t.Fatal("Answer() error = nil, want fatal error")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	for _, want := range []string{"index missing", "search timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestAnswerSynthesisFailsFallsBackToDocument(t *testing.T) {
	docs := &mockDocProvider{out: docOutput()}
	web := &mockWebProvider{out: webOutput()}
	synth := &mockSynthesizer{err: errors.New("rate limited")}

	o := NewOrchestrator(docs, web, synth, time.Minute)
	result, err := o.Answer(context.Background(), "game-catan", nil, "q")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if result.Answer != docOutput().Answer {
		t.Errorf("Answer = %q, want document answer fallback", result.Answer)
	}
	if msg, ok := result.Errors["synthesis"]; !ok || !strings.Contains(msg, "rate limited") {
		t.Errorf("Errors = %v, want synthesis entry", result.Errors)
	}
	// 两路引用仍然都返回
	if len(result.Citations) != 2 {
		t.Errorf("citations = %d, want 2", len(result.Citations))
	}
	if result.Usage.TotalTokens != 120+90 {
		t.Errorf("TotalTokens = %d, want doc+web", result.Usage.TotalTokens)
	}
}

func TestAnswerSynthesisFailsEmptyDocFallsBackToWeb(t *testing.T) {
	doc := docOutput()
	doc.Answer = "   "
	docs := &mockDocProvider{out: doc}
	web := &mockWebProvider{out: webOutput()}
	synth := &mockSynthesizer{err: errors.New("rate limited")}

	o := NewOrchestrator(docs, web, synth, time.Minute)
	result, err := o.Answer(context.Background(), "game-catan", nil, "q")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if result.Answer != webOutput().Answer {
		t.Errorf("Answer = %q, want web answer fallback", result.Answer)
	}
}

func TestAnswerEmptyAnswerReturnsSentinel(t *testing.T) {
	docs := &mockDocProvider{out: &StageOutput{Answer: ""}}
	web := &mockWebProvider{err: errors.New("search down")}

	o := NewOrchestrator(docs, web, &mockSynthesizer{}, time.Minute)
	result, err := o.Answer(context.Background(), "game-catan", nil, "q")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if result.Answer != NoAnswerSentinel {
		t.Errorf("Answer = %q, want sentinel %q", result.Answer, NoAnswerSentinel)
	}
}

func TestAnswerMissingProvidersIsFatal(t *testing.T) {
	o := NewOrchestrator(nil, nil, nil, time.Minute)
	if _, err := o.Answer(context.Background(), "game-catan", nil, "q"); err == nil {
		t.Fatal("Answer() error = nil, want error when nothing is configured")
	}
}
