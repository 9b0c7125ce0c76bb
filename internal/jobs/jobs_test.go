package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/jobs"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeReconciler struct {
	result *service.ReconcileResult
	err    error
	calls  int
}

func (f *fakeReconciler) Run(ctx context.Context) (*service.ReconcileResult, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("run without deadline")
	}
	return f.result, f.err
}

type fakeExporter struct {
	err error
}

func (f *fakeExporter) Export(context.Context) (*service.LedgerExportResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.LedgerExportResult{Entries: 3}, nil
}

type fakeCleaner struct {
	days chan int
}

func (f *fakeCleaner) CleanupOldLogs(_ context.Context, retentionDays int) (int64, error) {
	f.days <- retentionDays
	return 7, nil
}

func TestScheduler_AddRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b", "@hourly", func() {}))
	require.NoError(t, s.AddJob("a", "0 */5 * * * *", func() {}))
	assert.Equal(t, []string{"a", "b"}, s.JobNames())

	err := s.AddJob("a", "@daily", func() {})
	assert.ErrorContains(t, err, "already exists")

	err = s.AddJob("c", "not a schedule", func() {})
	assert.Error(t, err)
	assert.NotContains(t, s.JobNames(), "c")

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.JobNames())
	assert.Error(t, s.RemoveJob("a"))
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	cleaner := &fakeCleaner{days: make(chan int, 4)}
	require.NoError(t, jobs.RegisterAuditCleanupJob(s, cleaner, zap.NewNop(), "@every 1s", 90))

	s.Start()
	defer func() { <-s.Stop().Done() }()

	select {
	case days := <-cleaner.days:
		assert.Equal(t, 90, days)
	case <-time.After(3 * time.Second):
		t.Fatal("audit cleanup did not run")
	}
}

func TestRegisterAuditCleanupJob_Disabled(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, jobs.RegisterAuditCleanupJob(s, &fakeCleaner{}, zap.NewNop(), "@daily", 0))
	assert.Empty(t, s.JobNames())
}

func TestReconcileJob_Run(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	t.Run("changes are logged at info", func(t *testing.T) {
		reconciler := &fakeReconciler{result: &service.ReconcileResult{Checked: 4, Updated: 1}}
		jobs.NewReconcileJob(reconciler, zap.New(core), 0).Run()

		assert.Equal(t, 1, reconciler.calls)
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.EqualValues(t, 1, entries[0].ContextMap()["updated"])
	})

	t.Run("failure is logged at error", func(t *testing.T) {
		reconciler := &fakeReconciler{err: errors.New("db down")}
		jobs.NewReconcileJob(reconciler, zap.New(core), time.Second).Run()

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	})
}

func TestLedgerExportJob_Run(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	jobs.NewLedgerExportJob(&fakeExporter{}, zap.New(core), 0).Run()
	entries := logs.FilterMessage("ledger export completed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 3, entries[0].ContextMap()["entries"])

	jobs.NewLedgerExportJob(&fakeExporter{err: errors.New("warehouse offline")}, zap.New(core), 0).Run()
	assert.Equal(t, 1, logs.FilterMessage("ledger export failed").Len())
}

func TestRegisterJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, jobs.RegisterReconcileJob(s, &fakeReconciler{}, zap.NewNop(), "@hourly", time.Minute))
	require.NoError(t, jobs.RegisterLedgerExportJob(s, &fakeExporter{}, zap.NewNop(), "0 30 2 * * *", 0))
	assert.Equal(t, []string{jobs.LedgerExportJobName, jobs.ReconcileJobName}, s.JobNames())
}
