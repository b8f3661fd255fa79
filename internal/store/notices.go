package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-widget/internal/widget"
)

var (
	// ErrNotFound is returned when no notice matches the query.
	ErrNotFound = errors.New("no notices available")
)

// NoticeStore is a concurrency-safe, bounded in-memory log of user notices.
type NoticeStore struct {
	mu sync.RWMutex

	notices []widget.Notice

	// retention configuration
	maxHistory int           // max number of notices kept
	maxAge     time.Duration // optional max age for notices

	now func() time.Time
}

// NewNoticeStore creates a new NoticeStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewNoticeStore(maxHistory int, maxAge time.Duration) *NoticeStore {
	return &NoticeStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a notice and enforces retention. It satisfies widget.NoticeSink.
func (s *NoticeStore) Save(n widget.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices = append(s.notices, n)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.notices) > s.maxHistory {
		over := len(s.notices) - s.maxHistory
		s.notices = s.notices[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.notices); i++ {
			if !s.notices[i].Time.Before(cutoff) {
				break
			}
		}
		s.notices = s.notices[i:]
	}
}

// Latest returns the most recent notice.
func (s *NoticeStore) Latest() (widget.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.notices) == 0 {
		return widget.Notice{}, ErrNotFound
	}
	return s.notices[len(s.notices)-1], nil
}

// Since returns all notices at or after from, oldest first.
func (s *NoticeStore) Since(from time.Time) ([]widget.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []widget.Notice
	for _, n := range s.notices {
		if !n.Time.Before(from) {
			result = append(result, n)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
