package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notice is a user-visible failure message for a rolled-back submission
type Notice struct {
	ID        string    `json:"id"`
	TempID    string    `json:"temp_id"`
	Filename  string    `json:"filename"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NoticeBoard is an in-memory list of failure notices with expiration
type NoticeBoard struct {
	mu    sync.RWMutex
	items map[string]*noticeItem
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

type noticeItem struct {
	notice     Notice
	expireTime time.Time
}

// NewNoticeBoard creates a notice board whose entries live for ttl
func NewNoticeBoard(ttl time.Duration) *NoticeBoard {
	nb := &NoticeBoard{
		items: make(map[string]*noticeItem),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired notices
	go nb.cleanupExpired(time.Minute)

	return nb
}

// Post stores a notice and returns it with its id and timestamp set
func (nb *NoticeBoard) Post(n Notice) Notice {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	now := nb.now()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	nb.items[n.ID] = &noticeItem{
		notice:     n,
		expireTime: now.Add(nb.ttl),
	}
	return n
}

// Get retrieves a notice by id (false if not found or expired)
func (nb *NoticeBoard) Get(id string) (Notice, bool) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	item, exists := nb.items[id]
	if !exists || nb.now().After(item.expireTime) {
		return Notice{}, false
	}
	return item.notice, true
}

// Recent lists live notices, newest first
func (nb *NoticeBoard) Recent() []Notice {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	now := nb.now()
	out := make([]Notice, 0, len(nb.items))
	for _, item := range nb.items {
		if now.After(item.expireTime) {
			continue
		}
		out = append(out, item.notice)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete removes a notice
func (nb *NoticeBoard) Delete(id string) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	delete(nb.items, id)
}

// Close stops the cleanup goroutine
func (nb *NoticeBoard) Close() {
	nb.once.Do(func() { close(nb.stop) })
}

// cleanupExpired periodically removes expired notices
func (nb *NoticeBoard) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-nb.stop:
			return
		case <-ticker.C:
			nb.purge()
		}
	}
}

func (nb *NoticeBoard) purge() {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	now := nb.now()
	for id, item := range nb.items {
		if now.After(item.expireTime) {
			delete(nb.items, id)
		}
	}
}
