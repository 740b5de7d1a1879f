package threadpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToGOMAXPROCS(t *testing.T) {
	p := New(0)
	assert.Greater(t, p.N(), 0)
}

func TestRangePartitionsCoverWithoutOverlap(t *testing.T) {
	p := New(5)
	total := 23
	covered := make([]bool, total)
	for i := 0; i < p.N(); i++ {
		r := p.Range(total, i)
		for j := r.Start; j < r.End; j++ {
			require.False(t, covered[j], "index %d covered twice", j)
			covered[j] = true
		}
	}
	for i, c := range covered {
		require.True(t, c, "index %d never covered", i)
	}
}

func TestBarrierRunsEveryWorker(t *testing.T) {
	p := New(8)
	var count int64
	err := p.Barrier(func(worker, n int) error {
		atomic.AddInt64(&count, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)
}

func TestBarrierAggregatesErrors(t *testing.T) {
	p := New(4)
	err := p.Barrier(func(worker, n int) error {
		if worker == 0 {
			return assertErr
		}
		return nil
	})
	require.Error(t, err)
}

func TestStartTwicePanics(t *testing.T) {
	p := New(2)
	p.Start()
	defer p.Stop()
	require.Panics(t, func() { p.Start() })
}

func TestBroadcastFromMainReturnsBuiltValue(t *testing.T) {
	got := BroadcastFromMain(func() int { return 7 })
	assert.Equal(t, 7, got)
}

var assertErr = &poolTestError{"boom"}

type poolTestError struct{ msg string }

func (e *poolTestError) Error() string { return e.msg }
