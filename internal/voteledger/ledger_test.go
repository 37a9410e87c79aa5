package voteledger

import (
	"context"
	"errors"
	"testing"
)

// fakeAPI 内存投票后端，模拟服务端的 IP 去重语义
type fakeAPI struct {
	upvotes  map[uint]int
	voted    map[uint]bool
	failNext error
	calls    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{upvotes: map[uint]int{}, voted: map[uint]bool{}}
}

func (a *fakeAPI) Stats(ctx context.Context, listingID uint) (Stats, error) {
	n := a.upvotes[listingID]
	return Stats{Upvotes: n, Total: n}, nil
}

func (a *fakeAPI) Vote(ctx context.Context, listingID uint, voteType, ip string, remove bool) (Stats, error) {
	a.calls++
	if a.failNext != nil {
		err := a.failNext
		a.failNext = nil
		return Stats{}, err
	}
	if remove {
		if a.voted[listingID] {
			a.upvotes[listingID]--
			a.voted[listingID] = false
		}
	} else {
		if !a.voted[listingID] {
			a.upvotes[listingID]++
			a.voted[listingID] = true
		}
	}
	return a.Stats(ctx, listingID)
}

type fakeResolver struct {
	ip  string
	err error
}

func (r *fakeResolver) IP(ctx context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.ip, nil
}

func newTestLedger(api API) *Ledger {
	return New(api, NewMemStore(), &fakeResolver{ip: "203.0.113.7"})
}

func TestCastAndRemove(t *testing.T) {
	api := newFakeAPI()
	ledger := newTestLedger(api)
	ctx := context.Background()

	// 投票
	stats, err := ledger.Cast(ctx, 1, VoteTypeUp)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if stats.Upvotes != 1 {
		t.Errorf("Expected 1 upvote, got %d", stats.Upvotes)
	}
	if stats.UserVote == nil || *stats.UserVote != VoteTypeUp {
		t.Errorf("Expected user_vote=up, got %v", stats.UserVote)
	}

	// 同类型再投视为取消
	stats, err = ledger.Cast(ctx, 1, VoteTypeUp)
	if err != nil {
		t.Fatalf("Toggle off failed: %v", err)
	}
	if stats.Upvotes != 0 {
		t.Errorf("Expected 0 upvotes after removal, got %d", stats.Upvotes)
	}
	if stats.UserVote != nil {
		t.Errorf("Expected user_vote cleared, got %v", *stats.UserVote)
	}

	// 本地缓存也被清掉
	if v := ledger.cachedVote(1); v != nil {
		t.Errorf("Cached vote should be dropped after removal")
	}
}

// 点踩直接拒绝，不发请求也不动任何状态
func TestCastDownvoteRejected(t *testing.T) {
	api := newFakeAPI()
	ledger := newTestLedger(api)

	_, err := ledger.Cast(context.Background(), 1, "down")
	if !errors.Is(err, ErrDownvoteUnsupported) {
		t.Fatalf("Expected ErrDownvoteUnsupported, got %v", err)
	}
	if api.calls != 0 {
		t.Errorf("Downvote must not reach the API, got %d calls", api.calls)
	}
	if v := ledger.cachedVote(1); v != nil {
		t.Errorf("Downvote must not touch the local cache")
	}
}

// 提交失败时整体回滚：视图回到快照，本地缓存清空
func TestCastRollbackOnAPIFailure(t *testing.T) {
	api := newFakeAPI()
	api.upvotes[1] = 5
	ledger := newTestLedger(api)
	ctx := context.Background()

	// 先建立基线视图
	before, err := ledger.GetStats(ctx, 1)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if before.Upvotes != 5 {
		t.Fatalf("Expected baseline 5, got %d", before.Upvotes)
	}

	api.failNext = errors.New("server unavailable")
	if _, err := ledger.Cast(ctx, 1, VoteTypeUp); err == nil {
		t.Fatal("Expected Cast to fail")
	}

	// 视图与调用前一致
	view, ok := ledger.getView(1)
	if !ok {
		t.Fatal("View missing after rollback")
	}
	if view.Upvotes != 5 || view.UserVote != nil {
		t.Errorf("Rollback incomplete: upvotes=%d userVote=%v", view.Upvotes, view.UserVote)
	}
	if v := ledger.cachedVote(1); v != nil {
		t.Errorf("Cached vote should be dropped on failure")
	}

	// 失败后可以正常重试
	stats, err := ledger.Cast(ctx, 1, VoteTypeUp)
	if err != nil {
		t.Fatalf("Retry after failure should succeed: %v", err)
	}
	if stats.Upvotes != 6 {
		t.Errorf("Expected 6 upvotes after retry, got %d", stats.Upvotes)
	}
}

// IP 解析失败等同于提交失败，同样回滚
func TestCastRollbackOnResolverFailure(t *testing.T) {
	api := newFakeAPI()
	api.upvotes[2] = 3
	resolver := &fakeResolver{err: errors.New("echo service down")}
	ledger := New(api, NewMemStore(), resolver)
	ctx := context.Background()

	if _, err := ledger.GetStats(ctx, 2); err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if _, err := ledger.Cast(ctx, 2, VoteTypeUp); err == nil {
		t.Fatal("Expected Cast to fail when resolver fails")
	}
	if api.calls != 0 {
		t.Errorf("Vote must not be submitted without an IP, got %d calls", api.calls)
	}

	view, _ := ledger.getView(2)
	if view.Upvotes != 3 || view.UserVote != nil {
		t.Errorf("Rollback incomplete: upvotes=%d userVote=%v", view.Upvotes, view.UserVote)
	}
}

// GetStats 合并本地缓存的 userVote
func TestGetStatsMergesLocalVote(t *testing.T) {
	api := newFakeAPI()
	ledger := newTestLedger(api)
	ctx := context.Background()

	if _, err := ledger.Cast(ctx, 3, VoteTypeUp); err != nil {
		t.Fatalf("Cast failed: %v", err)
	}

	stats, err := ledger.GetStats(ctx, 3)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.UserVote == nil || *stats.UserVote != VoteTypeUp {
		t.Errorf("Expected merged user_vote=up, got %v", stats.UserVote)
	}
}
