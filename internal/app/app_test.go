package app

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg     *Config
		wantErr string
	}{
		"missing everything": {
			cfg:     &Config{},
			wantErr: "service name is required\nstop timeout is required",
		},
		"valid": {
			cfg: &Config{ServiceName: "hut", StopTimeout: time.Second},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			req := require.New(t)
			a, err := New(tc.cfg)
			if tc.wantErr != "" {
				req.EqualError(err, tc.wantErr)
				req.Nil(a)
				return
			}
			req.NoError(err)
			req.NotNil(a)
		})
	}
}

func newDep(ctrl *gomock.Controller, name string) *MockDependency {
	dep := NewMockDependency(ctrl)
	dep.EXPECT().Name().Return(name).AnyTimes()
	return dep
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	t.Run("context cancelled", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		ctrl := gomock.NewController(t)

		first := newDep(ctrl, "first")
		second := newDep(ctrl, "second")
		first.EXPECT().Start().Return(nil).MaxTimes(1)
		second.EXPECT().Start().Return(nil).MaxTimes(1)
		gomock.InOrder(
			second.EXPECT().Stop().Return(nil),
			first.EXPECT().Stop().Return(nil),
		)

		a, err := New(&Config{ServiceName: "hut", StopTimeout: time.Second}, first, second)
		req.NoError(err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		req.NoError(a.Run(ctx))

		req.ErrorIs(a.Run(context.Background()), ErrAlreadyRun)
	})

	t.Run("dependency fails to start", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		ctrl := gomock.NewController(t)

		failing := newDep(ctrl, "failing")
		failing.EXPECT().Start().Return(assert.AnError)
		failing.EXPECT().Stop().Return(nil)

		a, err := New(&Config{ServiceName: "hut", StopTimeout: time.Second}, failing)
		req.NoError(err)

		err = a.Run(context.Background())
		req.ErrorIs(err, assert.AnError)
		req.Contains(err.Error(), "failing")
	})

	t.Run("dependency panics", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		ctrl := gomock.NewController(t)

		dep := newDep(ctrl, "panicky")
		dep.EXPECT().Start().DoAndReturn(func() error { panic("boom") })
		dep.EXPECT().Stop().Return(nil)

		a, err := New(&Config{ServiceName: "hut", StopTimeout: time.Second}, dep)
		req.NoError(err)

		err = a.Run(context.Background())
		req.Error(err)
		req.Contains(err.Error(), "boom")
	})

	t.Run("stop failure and timeout", func(t *testing.T) {
		t.Parallel()
		req := require.New(t)
		ctrl := gomock.NewController(t)

		dep := newDep(ctrl, "slow")
		dep.EXPECT().Start().Return(nil).MaxTimes(1)
		dep.EXPECT().Stop().DoAndReturn(func() error {
			time.Sleep(200 * time.Millisecond)
			return nil
		})

		a, err := New(&Config{ServiceName: "hut", StopTimeout: 10 * time.Millisecond}, dep)
		req.NoError(err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req.ErrorIs(a.Run(ctx), context.DeadlineExceeded)
	})
}
