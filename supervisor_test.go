package printlink

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allbin/go-printlink/logger"
)

type mockAdapter struct {
	mock.Mock
}

var _ Adapter = (*mockAdapter)(nil)

func (m *mockAdapter) Configure(port string) { m.Called(port) }

func (m *mockAdapter) Start(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockAdapter) SendCommand(ctx context.Context, cmd string) error {
	return m.Called(ctx, cmd).Error(0)
}

func (m *mockAdapter) IsConnected() bool { return m.Called().Bool(0) }

func (m *mockAdapter) Status() State { return m.Called().Get(0).(State) }

func (m *mockAdapter) Stop() error { return m.Called().Error(0) }

func runSupervisor(t *testing.T, sup *Supervisor) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, done
}

func TestSupervisor_RetriesForever(t *testing.T) {
	require := require.New(t)

	adapter := &mockAdapter{}
	adapter.On("IsConnected").Return(false)
	adapter.On("Start", mock.Anything).Return(newError(opStart, "COM3", ErrOpenFailed, errors.New("no such device")))

	log := logger.NewMockLogger()
	log.On("Info", mock.Anything, mock.Anything).Maybe()
	log.On("Warn", "failed to connect to printer", mock.Anything)

	sup := NewSupervisor(adapter, WithRetryInterval(5*time.Millisecond), WithSupervisorLogger(log))
	cancel, done := runSupervisor(t, sup)

	require.Eventually(func() bool {
		return sup.Metrics().ConnAttemptCount.Load() >= 10
	}, 2*time.Second, time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("supervisor returned early: %v", err)
	default:
	}
	require.GreaterOrEqual(sup.Metrics().ConnRetryGauge.Load(), uint32(10))

	cancel()
	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop after cancellation")
	}
	log.AssertCalled(t, "Warn", "failed to connect to printer", mock.Anything)
}

func TestSupervisor_NoPrinterConfigured(t *testing.T) {
	require := require.New(t)

	adapter := &mockAdapter{}
	adapter.On("IsConnected").Return(false)
	adapter.On("Start", mock.Anything).Return(newError(opStart, "", ErrNoPrinterConfigured, nil))

	sup := NewSupervisor(adapter, WithRetryInterval(time.Millisecond), WithSupervisorLogger(quietLogger()))
	err := sup.Run(context.Background())
	require.ErrorIs(err, ErrNoPrinterConfigured)
	adapter.AssertNumberOfCalls(t, "Start", 1)
}

func TestSupervisor_ConnectOnceThenIdle(t *testing.T) {
	require := require.New(t)

	adapter := &mockAdapter{}
	adapter.On("IsConnected").Return(false).Once()
	adapter.On("IsConnected").Return(true)
	adapter.On("Start", mock.Anything).Return(nil).Once()

	var hooks atomic.Int32
	sup := NewSupervisor(adapter,
		WithRetryInterval(2*time.Millisecond),
		WithSupervisorLogger(quietLogger()),
		WithConnectHook(func(ctx context.Context, a Adapter) error {
			hooks.Add(1)
			return errors.New("homing failed")
		}),
	)
	cancel, done := runSupervisor(t, sup)

	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(<-done)

	adapter.AssertNumberOfCalls(t, "Start", 1)
	require.EqualValues(1, hooks.Load())
	require.Zero(sup.Metrics().ConnRetryGauge.Load())
}

func TestSupervisor_ReconnectsSession(t *testing.T) {
	require := require.New(t)

	tr := newScripted(replyOK)
	var opens atomic.Int32
	s := newTestSession(t, tr, WithOpener(func(string, Mode) (Transport, error) {
		if opens.Add(1) <= 2 {
			return nil, errors.New("resource busy")
		}
		return tr, nil
	}))
	s.Configure("COM3")

	sup := NewSupervisor(s, WithRetryInterval(5*time.Millisecond), WithSupervisorLogger(quietLogger()))
	_, _ = runSupervisor(t, sup)

	require.Eventually(s.IsConnected, 2*time.Second, time.Millisecond)
	require.EqualValues(3, opens.Load())
	require.NoError(s.SendCommand(context.Background(), "M115"))
}
