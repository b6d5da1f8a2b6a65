package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nadcal/internal/config"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default(root)
	cfg.Store.Dir = filepath.Join(root, "sessions")
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := New(cfg, root, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNewBuildsWorkingSession(t *testing.T) {
	a := newTestApp(t, nil)
	assert.Equal(t, "file", a.Store.Backend())
	assert.Equal(t, "Asia/Bangkok", a.Location().String())

	s := a.Session("demo")
	reply := s.Submit(context.Background(), "พรุ่งนี้ประชุมที่ห้อง 301 บ่ายสอง")
	require.Equal(t, 1, reply.PendingCount())

	report, err := s.ConfirmAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Saved, 1)

	events, err := a.Store.Load(context.Background(), "demo")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "14:00", *events[0].Time)
}

func TestNewSQLiteBackend(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.Store.Backend = "sqlite"
	})
	assert.Equal(t, "sqlite", a.Store.Backend())
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	cfg.Store.Backend = "tape"
	_, err := New(cfg, root, WithLogger(zap.NewNop()))
	assert.Error(t, err)
}

func TestBadEndpointFallsBackToGazetteer(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.NER.Endpoint = "::not a url"
	})
	slots := a.Extractor.Extract(context.Background(), "ประชุมกับคุณสมชาย")
	require.NotNil(t, slots.Description)
}
