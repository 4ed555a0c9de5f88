package printlink

import "sync/atomic"

// SessionMetrics contains atomic counters for a printer session.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type SessionMetrics struct {
	// CommandSendCount indicates the number of commands written.
	CommandSendCount atomic.Uint64
	// CommandAckCount indicates the number of commands acknowledged.
	CommandAckCount atomic.Uint64
	// CommandTimeoutCount indicates the number of acknowledgment waits that timed out.
	CommandTimeoutCount atomic.Uint64
	// DeviceFaultCount indicates the number of error lines that failed a command.
	DeviceFaultCount atomic.Uint64
	// LineRecvCount indicates the number of lines received.
	LineRecvCount atomic.Uint64
	// IOErrCount indicates the number of transport read or write failures.
	IOErrCount atomic.Uint64

	// ConnectCount indicates the number of successful connects.
	ConnectCount atomic.Uint64
	// ConnectErrCount indicates the number of failed connect attempts.
	ConnectErrCount atomic.Uint64
}

func (m *SessionMetrics) incCommandSendCount() {
	m.CommandSendCount.Add(1)
}

func (m *SessionMetrics) incCommandAckCount() {
	m.CommandAckCount.Add(1)
}

func (m *SessionMetrics) incCommandTimeoutCount() {
	m.CommandTimeoutCount.Add(1)
}

func (m *SessionMetrics) incDeviceFaultCount() {
	m.DeviceFaultCount.Add(1)
}

func (m *SessionMetrics) incLineRecvCount() {
	m.LineRecvCount.Add(1)
}

func (m *SessionMetrics) incIOErrCount() {
	m.IOErrCount.Add(1)
}

func (m *SessionMetrics) incConnectCount() {
	m.ConnectCount.Add(1)
}

func (m *SessionMetrics) incConnectErrCount() {
	m.ConnectErrCount.Add(1)
}

// SupervisorMetrics contains atomic counters for a reconnect supervisor.
type SupervisorMetrics struct {
	// ConnAttemptCount indicates the total number of connect attempts.
	ConnAttemptCount atomic.Uint64
	// ConnRetryGauge indicates the number of consecutive failed attempts.
	ConnRetryGauge atomic.Uint32
}

func (m *SupervisorMetrics) incConnAttemptCount() {
	m.ConnAttemptCount.Add(1)
}

func (m *SupervisorMetrics) incConnRetryGauge() {
	m.ConnRetryGauge.Add(1)
}

func (m *SupervisorMetrics) resetConnRetryGauge() {
	m.ConnRetryGauge.Store(0)
}
