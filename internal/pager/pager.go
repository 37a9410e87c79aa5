package pager

import (
	"context"
	"sync"

	"mcpdex/internal/models"
)

// DefaultPageSize 无限滚动每页条数，与服务端一致
const DefaultPageSize = 12

// Page 一页目录条目和下一页游标
// NextCursor 为 nil 表示已到末页
type Page struct {
	Items      []models.Listing
	NextCursor *int
}

// Query 一次目录浏览的过滤与排序参数，翻页期间保持不变
type Query struct {
	Search      string
	HostingType string
	SetupType   string
	Pricing     string
	Category    string
	Promoted    bool
	Sort        string
	Ascending   bool
}

// Fetcher 拉取目录分页的最小接口
type Fetcher interface {
	FetchPage(ctx context.Context, query Query, cursor, limit int) (Page, error)
}

// Pager 无限滚动翻页器
// 重复触发的抑制在翻页器内部完成：请求在途或已到末页时，
// 再次 LoadMore 是无操作，滚动监听等调用方不需要自己去重。
// 查询条件变更走 Reset，在途的旧查询响应会被整页丢弃。
type Pager struct {
	fetcher Fetcher
	limit   int

	mu       sync.Mutex
	query    Query
	cursor   int
	gen      int // Reset 递增，用于识别过期响应
	inFlight bool
	done     bool
	items    []models.Listing
}

func New(fetcher Fetcher, query Query, limit int) *Pager {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Pager{fetcher: fetcher, query: query, limit: limit}
}

// LoadMore 拉取下一页并追加进结果集
// 返回 (本页条目, 是否真正发起了请求, 错误)。
// 在途请求未结束、已到末页、或响应属于已被 Reset 的旧查询时
// 返回 (nil, false, nil)。
func (p *Pager) LoadMore(ctx context.Context) ([]models.Listing, bool, error) {
	p.mu.Lock()
	if p.inFlight || p.done {
		p.mu.Unlock()
		return nil, false, nil
	}
	p.inFlight = true
	gen := p.gen
	query := p.query
	cursor := p.cursor
	p.mu.Unlock()

	page, err := p.fetcher.FetchPage(ctx, query, cursor, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		// 期间发生过 Reset，这一页属于旧查询
		return nil, false, nil
	}
	p.inFlight = false

	if err != nil {
		return nil, true, err
	}

	p.items = append(p.items, page.Items...)
	if page.NextCursor != nil {
		p.cursor = *page.NextCursor
	} else {
		p.done = true
	}
	return page.Items, true, nil
}

// Items 已加载的全部条目
func (p *Pager) Items() []models.Listing {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Listing, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore 是否还有下一页
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.done
}

// Reset 切换查询条件，清空游标和结果集
func (p *Pager) Reset(query Query) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.query = query
	p.cursor = 0
	p.inFlight = false
	p.done = false
	p.items = nil
}
