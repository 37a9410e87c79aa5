package pager

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"mcpdex/internal/models"
)

// scriptedFetcher 按脚本逐页返回的 Fetcher
// entered 在每次请求开始时收到信号，block 非 nil 时请求在此阻塞
type scriptedFetcher struct {
	mu      sync.Mutex
	calls   int
	cursors []int
	pages   []Page
	err     error
	entered chan struct{}
	block   chan struct{}
}

func (f *scriptedFetcher) FetchPage(ctx context.Context, query Query, cursor, limit int) (Page, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	f.cursors = append(f.cursors, cursor)
	entered, block := f.entered, f.block
	err := f.err
	var page Page
	if idx < len(f.pages) {
		page = f.pages[idx]
	}
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func makeItems(n int) []models.Listing {
	items := make([]models.Listing, n)
	for i := range items {
		items[i] = models.Listing{ID: uint(i + 1)}
	}
	return items
}

func cursorAt(n int) *int {
	return &n
}

// 请求在途时再次触发 LoadMore 必须是无操作，不产生第二个请求
func TestLoadMoreSuppressesDuplicateTrigger(t *testing.T) {
	fetcher := &scriptedFetcher{
		pages:   []Page{{Items: makeItems(12), NextCursor: cursorAt(12)}},
		entered: make(chan struct{}, 1),
		block:   make(chan struct{}),
	}
	p := New(fetcher, Query{}, 12)

	done := make(chan struct{})
	go func() {
		p.LoadMore(context.Background())
		close(done)
	}()
	<-fetcher.entered // 首个请求已在途

	items, triggered, err := p.LoadMore(context.Background())
	if triggered || items != nil || err != nil {
		t.Errorf("Duplicate trigger should be a no-op: triggered=%v items=%v err=%v", triggered, items, err)
	}

	close(fetcher.block)
	<-done

	if fetcher.callCount() != 1 {
		t.Errorf("Expected exactly 1 fetch, got %d", fetcher.callCount())
	}
	if len(p.Items()) != 12 {
		t.Errorf("Expected 12 items loaded, got %d", len(p.Items()))
	}
}

// 游标依次推进，末页后 LoadMore 不再发请求
func TestLoadMorePagination(t *testing.T) {
	fetcher := &scriptedFetcher{
		pages: []Page{
			{Items: makeItems(12), NextCursor: cursorAt(12)},
			{Items: makeItems(5), NextCursor: nil}, // 不满一页，到底了
		},
	}
	p := New(fetcher, Query{Sort: "weighted"}, 12)
	ctx := context.Background()

	items, triggered, err := p.LoadMore(ctx)
	if err != nil || !triggered || len(items) != 12 {
		t.Fatalf("First page: triggered=%v len=%d err=%v", triggered, len(items), err)
	}
	if !p.HasMore() {
		t.Fatal("Expected more pages after full first page")
	}

	items, triggered, err = p.LoadMore(ctx)
	if err != nil || !triggered || len(items) != 5 {
		t.Fatalf("Second page: triggered=%v len=%d err=%v", triggered, len(items), err)
	}
	if p.HasMore() {
		t.Error("Expected no more pages after short page")
	}

	// 到底之后触发为无操作
	_, triggered, _ = p.LoadMore(ctx)
	if triggered {
		t.Error("LoadMore after last page should be a no-op")
	}
	if fetcher.callCount() != 2 {
		t.Errorf("Expected 2 fetches, got %d", fetcher.callCount())
	}

	if got := fetcher.cursors; len(got) != 2 || got[0] != 0 || got[1] != 12 {
		t.Errorf("Unexpected cursor sequence: %v", got)
	}
	if len(p.Items()) != 17 {
		t.Errorf("Expected 17 accumulated items, got %d", len(p.Items()))
	}
}

// 请求失败不推进游标，重试从同一游标开始
func TestLoadMoreErrorKeepsCursor(t *testing.T) {
	fetcher := &scriptedFetcher{err: errors.New("server unavailable")}
	p := New(fetcher, Query{}, 12)
	ctx := context.Background()

	_, triggered, err := p.LoadMore(ctx)
	if !triggered || err == nil {
		t.Fatalf("Expected a failed fetch, triggered=%v err=%v", triggered, err)
	}

	fetcher.mu.Lock()
	fetcher.err = nil
	// 第二次调用的脚本页（下标 1）
	fetcher.pages = []Page{{}, {Items: makeItems(3), NextCursor: nil}}
	fetcher.mu.Unlock()

	items, triggered, err := p.LoadMore(ctx)
	if err != nil || !triggered || len(items) != 3 {
		t.Fatalf("Retry failed: triggered=%v len=%d err=%v", triggered, len(items), err)
	}
	if got := fetcher.cursors; got[0] != 0 || got[1] != 0 {
		t.Errorf("Retry should reuse cursor 0, got %v", got)
	}
}

// Reset 期间完成的旧查询响应被整页丢弃
func TestResetDiscardsStalePage(t *testing.T) {
	fetcher := &scriptedFetcher{
		pages:   []Page{{Items: makeItems(12), NextCursor: cursorAt(12)}},
		entered: make(chan struct{}, 1),
		block:   make(chan struct{}),
	}
	p := New(fetcher, Query{Search: "old"}, 12)

	type result struct {
		items     []models.Listing
		triggered bool
		err       error
	}
	resultCh := make(chan result, 1)
	go func() {
		items, triggered, err := p.LoadMore(context.Background())
		resultCh <- result{items, triggered, err}
	}()
	<-fetcher.entered

	// 旧查询还在途时切换条件
	p.Reset(Query{Search: "new"})
	close(fetcher.block)

	r := <-resultCh
	if r.triggered || r.items != nil || r.err != nil {
		t.Errorf("Stale page should be discarded: %+v", r)
	}
	if len(p.Items()) != 0 {
		t.Errorf("Reset pager should hold no items, got %d", len(p.Items()))
	}
	if !p.HasMore() {
		t.Error("Reset pager should be ready to load again")
	}
}

// HTTPFetcher 组装查询参数并解析 {mcps, next_cursor} 响应
func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mcps" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "files" || q.Get("cursor") != "12" || q.Get("limit") != "12" {
			t.Errorf("Unexpected query params: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mcps":[{"id":1,"name":"Filesystem"}],"next_cursor":24}`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(server.URL)
	page, err := fetcher.FetchPage(context.Background(), Query{Search: "files"}, 12, 12)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Filesystem" {
		t.Errorf("Unexpected items: %+v", page.Items)
	}
	if page.NextCursor == nil || *page.NextCursor != 24 {
		t.Errorf("Expected next_cursor 24, got %v", page.NextCursor)
	}
}
