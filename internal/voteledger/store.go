package voteledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StoredVote 本地记住的一次投票
type StoredVote struct {
	ListingID uint      `json:"listing_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Store 访客投票的本地持久化，listing id -> 最后一次投票
// 注入接口而非直接读写文件，方便测试替换
type Store interface {
	Load() (map[uint]StoredVote, error)
	Save(votes map[uint]StoredVote) error
}

// FileStore 把投票映射整体存成一个 JSON 文件
type FileStore struct {
	path string
	mu   sync.Mutex
}

// DefaultStorePath 默认存储位置 ~/.mcpdex/votes.json
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "votes.json"
	}
	return filepath.Join(home, ".mcpdex", "votes.json")
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultStorePath()
	}
	return &FileStore{path: path}
}

func (s *FileStore) Load() (map[uint]StoredVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[uint]StoredVote{}, nil
		}
		return nil, err
	}

	votes := map[uint]StoredVote{}
	if err := json.Unmarshal(data, &votes); err != nil {
		// 文件损坏视同为空，下次 Save 会覆盖
		return map[uint]StoredVote{}, nil
	}
	return votes, nil
}

func (s *FileStore) Save(votes map[uint]StoredVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(votes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// MemStore 内存实现，测试用
type MemStore struct {
	mu    sync.Mutex
	votes map[uint]StoredVote
}

func NewMemStore() *MemStore {
	return &MemStore{votes: map[uint]StoredVote{}}
}

func (s *MemStore) Load() (map[uint]StoredVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint]StoredVote, len(s.votes))
	for k, v := range s.votes {
		out[k] = v
	}
	return out, nil
}

func (s *MemStore) Save(votes map[uint]StoredVote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = make(map[uint]StoredVote, len(votes))
	for k, v := range votes {
		s.votes[k] = v
	}
	return nil
}
