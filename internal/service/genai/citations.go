package genai

import (
	"context"
	"net/http"
	"time"
)

// RedirectResolver 把搜索引擎的跳转链接还原成最终地址
//
// 只发一个 HEAD 请求，任何失败都保留原始链接，不影响问答主流程
type RedirectResolver struct {
	client *http.Client
}

// NewRedirectResolver 创建链接还原器
func NewRedirectResolver() *RedirectResolver {
	return &RedirectResolver{
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Resolve 还原单个链接，失败时返回原始链接
func (r *RedirectResolver) Resolve(ctx context.Context, rawURL string) string {
	if r == nil || r.client == nil || rawURL == "" {
		return rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return rawURL
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return rawURL
	}
	defer resp.Body.Close()

	// http.Client 自动跟随跳转，Request.URL 就是落点
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return rawURL
}
