package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/infrastructure/sources"
	apperrors "github.com/nexuscrm/hygiene/pkg/errors"
)

func TestNewSchedulerService_InvalidSpec(t *testing.T) {
	svc, _, _ := newTestHygiene(t)
	_, err := NewSchedulerService(svc, sources.NewInline(nil), "61 * * * *")
	assert.True(t, apperrors.IsValidation(err))
}

func TestSchedulerService_RunOnceSavesReport(t *testing.T) {
	svc, _, _ := newTestHygiene(t)
	scheduler, err := NewSchedulerService(svc, sources.NewInline([]models.Record{{"email": "a@b.co"}}), "*/5 * * * *")
	require.NoError(t, err)

	scheduler.RunOnce()

	runs, err := svc.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].RecordCount)
}

func TestSchedulerService_RunOnceSkipsWhileBusy(t *testing.T) {
	svc, _, _ := newTestHygiene(t)
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	done := make(chan struct{})
	go func() {
		_, _ = svc.Run(context.Background(), src)
		close(done)
	}()
	<-src.started

	scheduler, err := NewSchedulerService(svc, sources.NewInline(nil), "@daily")
	require.NoError(t, err)
	scheduler.RunOnce()

	close(src.release)
	<-done
	runs, err := svc.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "skipped run stores nothing")
}

func TestSchedulerService_StartStop(t *testing.T) {
	svc, _, _ := newTestHygiene(t)
	scheduler, err := NewSchedulerService(svc, sources.NewInline(nil), "@daily")
	require.NoError(t, err)

	assert.True(t, scheduler.Next().IsZero())
	require.NoError(t, scheduler.Start())
	require.NoError(t, scheduler.Start())
	assert.True(t, scheduler.Next().After(time.Now()))
	scheduler.Stop()
	scheduler.Stop()
	assert.True(t, scheduler.Next().IsZero())
}

func TestSchedulerService_RunOnceRecoversPanic(t *testing.T) {
	scheduler := &SchedulerService{hygiene: nil, source: sources.NewInline(nil), timeout: time.Second}
	assert.NotPanics(t, scheduler.RunOnce)
}

func TestServiceManager_WithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "leads.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"email":"a@b.co"}]`), 0o600))

	cfg := testConfig()
	cfg.Schedule.Cron = "@hourly"
	cfg.Schedule.Source = input

	sm, err := NewServiceManager(cfg, models.DefaultProfile(), nil, ManagerOptions{PersistRuns: true, Schedule: true})
	require.NoError(t, err)
	assert.Nil(t, sm.Outbox)
	assert.Nil(t, sm.Records)
	require.NotNil(t, sm.Scheduler)

	require.NoError(t, sm.Start())
	sm.Scheduler.RunOnce()
	sm.Stop()

	runs, err := sm.Hygiene.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestServiceManager_TableScheduleNeedsDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule.Cron = "@hourly"

	_, err := NewServiceManager(cfg, models.DefaultProfile(), nil, ManagerOptions{Schedule: true})
	assert.Error(t, err)
}

func TestServiceManager_InvalidProfileRule(t *testing.T) {
	profile := models.Profile{Rules: []models.Rule{{Name: "bad", Condition: "amount >"}}}
	_, err := NewServiceManager(testConfig(), profile, nil, ManagerOptions{})
	assert.Error(t, err)
}
