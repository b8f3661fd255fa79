package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-widget/internal/widget"
)

func notice(id string, at time.Time) widget.Notice {
	return widget.Notice{ID: id, Kind: widget.NoticeLocationDenied, Message: "denied", Time: at}
}

func TestNoticeStoreEmpty(t *testing.T) {
	s := NewNoticeStore(10, time.Hour)

	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Since(time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoticeStoreRetentionByCount(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := NewNoticeStore(2, 0)

	s.Save(notice("a", base))
	s.Save(notice("b", base.Add(time.Minute)))
	s.Save(notice("c", base.Add(2*time.Minute)))

	all, err := s.Since(base)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "c", all[1].ID)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, "c", latest.ID)
}

func TestNoticeStoreRetentionByAge(t *testing.T) {
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	s := NewNoticeStore(0, time.Hour)
	s.now = func() time.Time { return now }

	s.Save(notice("old", now.Add(-2*time.Hour)))
	s.Save(notice("new", now.Add(-time.Minute)))

	all, err := s.Since(time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].ID)
}

func TestNoticeStoreSince(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := NewNoticeStore(0, 0)

	s.Save(notice("a", base))
	s.Save(notice("b", base.Add(time.Hour)))

	got, err := s.Since(base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	_, err = s.Since(base.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}
