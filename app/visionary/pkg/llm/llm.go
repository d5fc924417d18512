// Package llm 封装对话模型调用：模板渲染、节流和空回复检查。
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
)

// ErrEmptyCompletion 模型返回空内容
var ErrEmptyCompletion = errors.New("empty completion")

// Client 对话模型客户端
type Client struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
}

// NewClient 包装已有的对话模型，limiter 为 nil 时不限流
func NewClient(cm model.BaseChatModel, limiter *rate.Limiter) *Client {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Client{chatModel: cm, limiter: limiter}
}

// NewFromConfig 使用 OpenAI 兼容接口初始化
func NewFromConfig(ctx context.Context, llmCfg config.LLMConfig, cc config.ConcurrencyConfig) (*Client, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: llmCfg.BaseURL,
		APIKey:  llmCfg.APIKey,
		Model:   llmCfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return NewClient(chatModel, NewLimiter(cc)), nil
}

// NewLimiter 按 RPM/QPS 创建限流器，RPM 未配置时不限流
func NewLimiter(cc config.ConcurrencyConfig) *rate.Limiter {
	if cc.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cc.QPS
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(cc.RPM)/60.0), burst)
}

// Generate 发送消息并返回文本，空回复视为错误
func (c *Client) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Content), nil
}

// Render 渲染模板并调用模型
func (c *Client) Render(ctx context.Context, tpl prompt.ChatTemplate, vars map[string]any) (string, error) {
	messages, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	return c.Generate(ctx, messages)
}

// StripFence 去掉模型常带的 ```json 代码块标记
func StripFence(content string) string {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
