package services

import (
	"log"
	"sync"
	"time"

	"mcpdex/internal/db"
	"mcpdex/internal/models"
	"mcpdex/internal/utils"
)

// RankingService 异步计算并回写条目加权分数的服务
// 加权排序直接走 score 列的索引，投票后由这里保持分数新鲜
type RankingService struct {
	queue   chan uint // 待更新的条目 ID 队列
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	rankingService *RankingService
	once           sync.Once
)

// GetRankingService 获取单例排名服务
func GetRankingService() *RankingService {
	once.Do(func() {
		rankingService = &RankingService{
			queue:   make(chan uint, 1000), // 缓冲队列，防止阻塞
			pending: make(map[uint]bool),
		}
		// 启动后台 worker
		go rankingService.worker()
	})
	return rankingService
}

// ScheduleUpdate 将条目加入更新队列（异步）
// 使用去重机制避免短时间内重复计算同一条目
func (s *RankingService) ScheduleUpdate(listingID uint) {
	s.mu.Lock()
	if s.pending[listingID] {
		// 已在队列中，跳过
		s.mu.Unlock()
		return
	}
	s.pending[listingID] = true
	s.mu.Unlock()

	// 非阻塞发送到队列
	select {
	case s.queue <- listingID:
		// 成功加入队列
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, listingID)
		s.mu.Unlock()
		log.Printf("ranking queue full, skipping listing %d", listingID)
	}
}

// worker 后台处理队列中的更新请求
func (s *RankingService) worker() {
	// 批量处理：收集一批请求后统一处理
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case listingID := <-s.queue:
			batch = append(batch, listingID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *RankingService) processBatch(listingIDs []uint) {
	for _, listingID := range listingIDs {
		s.updateListingScore(listingID)

		s.mu.Lock()
		delete(s.pending, listingID)
		s.mu.Unlock()
	}
}

// updateListingScore 计算并回写单个条目的加权分数
func (s *RankingService) updateListingScore(listingID uint) {
	var listing models.Listing
	if err := db.DB.First(&listing, listingID).Error; err != nil {
		log.Printf("score update failed: listing %d not found", listingID)
		return
	}

	var upvotes int64
	db.DB.Model(&models.Vote{}).
		Where("listing_id = ? AND vote_type = ?", listingID, models.VoteTypeUp).
		Count(&upvotes)

	newScore := utils.WeightedScore(listing.IsPromoted, int(upvotes), listing.LastUpdated)

	if err := db.DB.Model(&listing).UpdateColumn("score", newScore).Error; err != nil {
		log.Printf("failed to update score for listing %d: %v", listingID, err)
	}
}

// UpdateListingScoreSync 同步更新条目分数（需要立即生效的场景，如批准上架）
func UpdateListingScoreSync(listingID uint) {
	GetRankingService().updateListingScore(listingID)
}

// StartScheduledScoreUpdate 启动定时分数刷新任务（每天凌晨 3 点执行）
// 新鲜度项随时间衰减，没有投票活动的条目也要定期重算
func (s *RankingService) StartScheduledScoreUpdate() {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			log.Println("starting scheduled score refresh...")
			s.refreshAllScores()
			log.Println("scheduled score refresh done")
		}
	}()
}

// refreshAllScores 分批刷新全部条目的分数
func (s *RankingService) refreshAllScores() {
	const batchSize = 200
	count := 0
	var lastID uint

	for {
		var listings []models.Listing
		db.DB.Where("id > ?", lastID).Order("id ASC").Limit(batchSize).Select("id").Find(&listings)
		if len(listings) == 0 {
			break
		}
		for _, l := range listings {
			s.updateListingScore(l.ID)
			lastID = l.ID
			count++
		}
	}

	log.Printf("refreshed scores for %d listings", count)
}
