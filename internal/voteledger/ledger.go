package voteledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// VoteTypeUp 目前唯一支持的投票类型
const VoteTypeUp = "up"

// ErrDownvoteUnsupported 点踩是明确不支持的功能，直接拒绝且不触碰任何状态
var ErrDownvoteUnsupported = errors.New("downvoting is not supported")

// Ledger 访客侧投票账本
// 服务端对访客身份只认 IP，userVote 完全由本地缓存维护。
// Cast 采用乐观更新：先改本地视图和缓存，请求失败再整体回滚，
// 保证失败后的界面状态与调用前一致。
type Ledger struct {
	api      API
	store    Store
	resolver Resolver

	mu    sync.Mutex
	view  map[uint]Stats       // 每个条目最后一次已知的统计
	locks map[uint]*sync.Mutex // 同一条目的并发 Cast 串行化
}

func New(api API, store Store, resolver Resolver) *Ledger {
	return &Ledger{
		api:      api,
		store:    store,
		resolver: resolver,
		view:     make(map[uint]Stats),
		locks:    make(map[uint]*sync.Mutex),
	}
}

// listingLock 取出条目专属的互斥锁
// 两次 Cast 之间夹着乐观更新和网络往返，不串行会叠加乐观增量
func (l *Ledger) listingLock(listingID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[listingID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[listingID] = lock
	}
	return lock
}

func (l *Ledger) getView(listingID uint) (Stats, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stats, ok := l.view[listingID]
	return stats, ok
}

func (l *Ledger) setView(listingID uint, stats Stats) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view[listingID] = stats
}

// cachedVote 读本地缓存的投票记录
func (l *Ledger) cachedVote(listingID uint) *StoredVote {
	votes, err := l.store.Load()
	if err != nil {
		return nil
	}
	if v, ok := votes[listingID]; ok {
		return &v
	}
	return nil
}

func (l *Ledger) storeVote(listingID uint, voteType string) {
	votes, err := l.store.Load()
	if err != nil {
		return // 缓存写失败不阻断投票
	}
	votes[listingID] = StoredVote{ListingID: listingID, Type: voteType, Timestamp: time.Now()}
	_ = l.store.Save(votes)
}

func (l *Ledger) dropVote(listingID uint) {
	votes, err := l.store.Load()
	if err != nil {
		return
	}
	delete(votes, listingID)
	_ = l.store.Save(votes)
}

// mergeUserVote 把本地缓存的 userVote 合并进服务端统计
func (l *Ledger) mergeUserVote(listingID uint, stats Stats) Stats {
	if cached := l.cachedVote(listingID); cached != nil {
		t := cached.Type
		stats.UserVote = &t
	} else {
		stats.UserVote = nil
	}
	return stats
}

// GetStats 拉取权威统计并合并本地 userVote
func (l *Ledger) GetStats(ctx context.Context, listingID uint) (Stats, error) {
	stats, err := l.api.Stats(ctx, listingID)
	if err != nil {
		return Stats{}, err
	}
	stats = l.mergeUserVote(listingID, stats)
	l.setView(listingID, stats)
	return stats, nil
}

// Cast 投票或取消投票（同类型再投视为取消）
// 三段式：快照当前视图 -> 乐观应用并持久化缓存 -> 提交失败则回滚。
// 失败路径清掉本地缓存条目，与提交前的界面状态保持一致。
func (l *Ledger) Cast(ctx context.Context, listingID uint, voteType string) (Stats, error) {
	if voteType != VoteTypeUp {
		return Stats{}, ErrDownvoteUnsupported
	}

	lock := l.listingLock(listingID)
	lock.Lock()
	defer lock.Unlock()

	// 没有本地视图时先拉一次权威统计作为基线
	current, ok := l.getView(listingID)
	if !ok {
		var err error
		current, err = l.GetStats(ctx, listingID)
		if err != nil {
			return Stats{}, err
		}
	} else {
		current = l.mergeUserVote(listingID, current)
	}

	isRemoval := current.UserVote != nil && *current.UserVote == voteType
	snapshot := current

	apply := func() {
		next := current
		if isRemoval {
			next.Upvotes--
			next.UserVote = nil
			l.dropVote(listingID)
		} else {
			next.Upvotes++
			t := voteType
			next.UserVote = &t
			l.storeVote(listingID, voteType)
		}
		next.Total = next.Upvotes
		l.setView(listingID, next)
	}

	revert := func() {
		l.setView(listingID, snapshot)
		l.dropVote(listingID)
	}

	var authoritative Stats
	commit := func() error {
		ip, err := l.resolver.IP(ctx)
		if err != nil {
			return fmt.Errorf("failed to get IP address: %w", err)
		}

		authoritative, err = l.api.Vote(ctx, listingID, voteType, ip, isRemoval)
		return err
	}

	if err := runOptimistic(apply, commit, revert); err != nil {
		return Stats{}, err
	}

	// 提交成功后以权威数据刷新视图
	authoritative = l.mergeUserVote(listingID, authoritative)
	l.setView(listingID, authoritative)
	return authoritative, nil
}

// runOptimistic 乐观更新的三段式骨架：应用、提交、失败回滚
// 单独抽出来是为了让 "失败后的状态 == 调用前的状态" 这一不变量可被机械验证
func runOptimistic(apply func(), commit func() error, revert func()) error {
	apply()
	if err := commit(); err != nil {
		revert()
		return err
	}
	return nil
}
