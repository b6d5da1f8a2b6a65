package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nadcal/internal/event"
	"nadcal/internal/metrics"
)

var (
	created = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	later   = created.Add(2 * time.Hour)
)

func sampleEvent() event.Event {
	return event.New(event.Slots{
		Date:        event.String("2025-06-02"),
		Time:        event.String("14:00"),
		Description: event.String("ประชุม"),
		Location:    event.String("ห้อง 301"),
		RawText:     "พรุ่งนี้ประชุมที่ห้อง 301 บ่ายสอง",
	}, created)
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	dir := t.TempDir()
	file, err := NewFileBackend(filepath.Join(dir, "sessions"))
	require.NoError(t, err)
	sqlite, err := NewSQLiteBackend(filepath.Join(dir, "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	redis := NewRedisBackend(miniredis.RunT(t).Addr(), 0, "nadcal:events:")
	t.Cleanup(func() { _ = redis.Close() })
	return map[string]Backend{"file": file, "sqlite": sqlite, "redis": redis}
}

func TestRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(b, WithClock(func() time.Time { return later }))
			e := sampleEvent()

			require.NoError(t, s.Add(ctx, "s1", e))
			got, err := s.Load(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, e.ID, got[0].ID)
			assert.Equal(t, e.Slots, got[0].Slots)
			assert.True(t, e.CreatedAt.Equal(got[0].CreatedAt))
			assert.Nil(t, got[0].UpdatedAt)

			other, err := s.Load(ctx, "s2")
			require.NoError(t, err)
			assert.Empty(t, other)
		})
	}
}

func TestUpdate(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(b, WithClock(func() time.Time { return later }))
			e := sampleEvent()
			require.NoError(t, s.Add(ctx, "s1", e))

			updated, err := s.Update(ctx, "s1", e.ID, event.Patch{event.FieldDescription: event.String("X")})
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, "X", event.Value(updated.Description))

			got, err := s.Load(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "X", event.Value(got[0].Description))
			assert.Equal(t, e.RawText, got[0].RawText)
			assert.True(t, created.Equal(got[0].CreatedAt))
			require.NotNil(t, got[0].UpdatedAt)
			assert.True(t, later.Equal(*got[0].UpdatedAt))

			missing, err := s.Update(ctx, "s1", "evt_missing", event.Patch{event.FieldDescription: event.String("Y")})
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(b)
			first, second := sampleEvent(), sampleEvent()
			require.NoError(t, s.Add(ctx, "s1", first))
			require.NoError(t, s.Add(ctx, "s1", second))

			removed, err := s.Delete(ctx, "s1", "evt_missing")
			require.NoError(t, err)
			assert.False(t, removed)

			removed, err = s.Delete(ctx, "s1", first.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			got, err := s.Load(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, second.ID, got[0].ID)
		})
	}
}

func TestSaveOverwritesAndClears(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(b)
			require.NoError(t, s.Add(ctx, "s1", sampleEvent()))

			replacement := []event.Event{sampleEvent(), sampleEvent()}
			require.NoError(t, s.Save(ctx, "s1", replacement))
			got, err := s.Load(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, replacement[0].ID, got[0].ID)
			assert.Equal(t, replacement[1].ID, got[1].ID)

			require.NoError(t, s.Save(ctx, "s1", nil))
			got, err = s.Load(ctx, "s1")
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestAddRejectsDuplicateAndEmptyIDs(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s := New(b)
	e := sampleEvent()
	require.NoError(t, s.Add(ctx, "s1", e))
	assert.ErrorIs(t, s.Add(ctx, "s1", e), ErrDuplicateID)
	assert.ErrorIs(t, s.Add(ctx, "s1", event.Event{}), event.ErrEmptyID)
}

func TestFileLoadMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s := New(b, WithMetrics(m))

	got, err := s.Load(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, os.WriteFile(b.Path("broken"), []byte("{not json"), 0o644))
	got, err = s.Load(ctx, "broken")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Add(ctx, "broken", sampleEvent()))
	got, err = s.Load(ctx, "broken")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRedisDocumentAndCorruption(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	b := NewRedisBackend(mr.Addr(), 0, "nadcal:events:")
	t.Cleanup(func() { _ = b.Close() })

	got, err := b.Read(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, b.Write(ctx, "s1", []event.Event{sampleEvent()}))
	raw, err := mr.Get("nadcal:events:s1")
	require.NoError(t, err)
	assert.Contains(t, raw, `"events"`)
	assert.Contains(t, raw, `"description": "ประชุม"`)

	require.NoError(t, mr.Set("nadcal:events:broken", "{not json"))
	_, err = b.Read(ctx, "broken")
	assert.ErrorIs(t, err, ErrCorrupt)

	s := New(b)
	loaded, err := s.Load(ctx, "broken")
	require.NoError(t, err)
	assert.Empty(t, loaded)

	down := NewRedisBackend("127.0.0.1:1", 0, "nadcal:events:")
	t.Cleanup(func() { _ = down.Close() })
	_, err = New(down).Load(ctx, "s1")
	assert.Error(t, err)
}

func TestFileFormat(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, b.Write(context.Background(), "s1", nil))
	raw, err := os.ReadFile(b.Path("s1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"events": []}`, string(raw))
	assert.Equal(t, "events_s1.json", filepath.Base(b.Path("s1")))
}

func TestConcurrentAddsOnOneKey(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	s := New(b)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := sampleEvent()
			e.ID = fmt.Sprintf("evt_%08d", i)
			assert.NoError(t, s.Add(ctx, "shared", e))
		}(i)
	}
	wg.Wait()

	got, err := s.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

func TestOpenBackend(t *testing.T) {
	b, err := OpenBackend(BackendConfig{Backend: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "file", b.Name())

	r, err := OpenBackend(BackendConfig{Backend: "redis", RedisAddr: "localhost:6379", RedisPrefix: "nadcal:events:"})
	require.NoError(t, err)
	assert.Equal(t, "nadcal:events:s1", r.(*RedisBackend).redisKey("s1"))
	require.NoError(t, r.Close())

	_, err = OpenBackend(BackendConfig{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
