package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/infrastructure/storage"
)

type countingPoller struct {
	cycles int
	delays []time.Duration
}

func (c *countingPoller) Run(ctx context.Context, cycle func(ctx context.Context, now time.Time) time.Duration) int {
	for i := 0; i < c.cycles; i++ {
		c.delays = append(c.delays, cycle(ctx, cycleNow.Add(time.Duration(i)*time.Minute)))
	}
	return c.cycles
}

type recordingDriver struct {
	started int
	stopped int
	job     func(time.Time)
}

func (r *recordingDriver) Start(_ context.Context, job func(time.Time)) error {
	r.started++
	r.job = job
	return nil
}

func (r *recordingDriver) Stop(context.Context) error {
	r.stopped++
	return nil
}

func TestSchedulerOnceRunsSingleCycle(t *testing.T) {
	t.Parallel()

	source := &stubSource{score: "0 - 0"}
	store := storage.NewMemoryRepository()
	poller := &countingPoller{cycles: 5}
	driver := &recordingDriver{}

	s := NewScheduler(SchedulerDeps{
		Mode:     config.ModeOnce,
		Pipeline: newTestPipeline(source, store, &memorySender{}),
		Poller:   poller,
		Driver:   driver,
		Now:      func() time.Time { return cycleNow },
	})

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, 1, source.calls)
	require.Equal(t, 1, store.Len())
	require.Empty(t, poller.delays)
	require.Zero(t, driver.started)
}

func TestSchedulerRunLoopsAndWiresDailySchedule(t *testing.T) {
	t.Parallel()

	source := &stubSource{score: "0 - 0"}
	store := storage.NewMemoryRepository()
	sender := &memorySender{}
	poller := &countingPoller{cycles: 2}
	driver := &recordingDriver{}

	s := NewScheduler(SchedulerDeps{
		Mode:     config.ModeRun,
		Pipeline: newTestPipeline(source, store, sender),
		Poller:   poller,
		Driver:   driver,
		Schedule: NewDailySchedule(store, sender, nil, nil).WithPause(0),
	})

	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, 2, source.calls)
	require.Equal(t, []time.Duration{time.Minute, time.Minute}, poller.delays)
	require.Equal(t, 1, driver.started)
	require.Equal(t, 1, driver.stopped)

	driver.job(time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC))
	require.Len(t, sender.messages(), 1)
}

func TestSchedulerSaveModeSkipsDailySchedule(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryRepository()
	driver := &recordingDriver{}

	s := NewScheduler(SchedulerDeps{
		Mode:     config.ModeSave,
		Pipeline: newTestPipeline(&stubSource{score: "0 - 0"}, store, &memorySender{}),
		Poller:   &countingPoller{cycles: 1},
		Driver:   driver,
		Schedule: NewDailySchedule(store, &memorySender{}, nil, nil),
	})

	require.NoError(t, s.Run(context.Background()))
	require.Zero(t, driver.started)
	require.Equal(t, 1, store.Len())
}
