package llm

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// FakeChatModel 测试用对话模型，记录收到的消息并按回调生成回复
type FakeChatModel struct {
	mu      sync.Mutex
	Calls   [][]*schema.Message
	Respond func(messages []*schema.Message) (string, error)
}

var _ model.BaseChatModel = (*FakeChatModel)(nil)

// Generate implements model.BaseChatModel
func (f *FakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, input)
	f.mu.Unlock()

	content := "ok"
	if f.Respond != nil {
		var err error
		content, err = f.Respond(input)
		if err != nil {
			return nil, err
		}
	}
	return schema.AssistantMessage(content, nil), nil
}

// Stream implements model.BaseChatModel
func (f *FakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// CallCount 已调用次数
func (f *FakeChatModel) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// LastUserPrompt 最近一次调用中的用户消息
func (f *FakeChatModel) LastUserPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return ""
	}
	return UserPrompt(f.Calls[len(f.Calls)-1])
}

// UserPrompt 取出消息列表中的用户消息
func UserPrompt(messages []*schema.Message) string {
	for _, m := range messages {
		if m.Role == schema.User {
			return m.Content
		}
	}
	return ""
}
