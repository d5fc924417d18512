package search

import (
	"context"
	"sync"
)

// FakeSearcher 测试用搜索实现，记录请求并按回调返回结果
type FakeSearcher struct {
	mu       sync.Mutex
	Requests []Request
	Respond  func(req *Request) (*Response, error)
}

// Search implements Searcher
func (f *FakeSearcher) Search(ctx context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, *req)
	f.mu.Unlock()

	if f.Respond != nil {
		return f.Respond(req)
	}
	return &Response{Results: []Result{{Title: "Result for " + req.Query, URL: "https://example.com/1", Content: "content"}}}, nil
}

// Recorded 已收到的请求副本
func (f *FakeSearcher) Recorded() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.Requests...)
}
