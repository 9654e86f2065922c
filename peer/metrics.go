package peer

import "sync/atomic"

// Metrics counts messages successfully handed to the network, one
// counter per outbound message kind. One instance lives in each peer's
// sender context and one process-wide instance aggregates across peers.
type Metrics struct {
	milestoneRequestsSent     atomic.Uint64
	transactionBroadcastsSent atomic.Uint64
	transactionRequestsSent   atomic.Uint64
	heartbeatsSent            atomic.Uint64
}

// MilestoneRequestSent bumps the milestone-request counter.
func (m *Metrics) MilestoneRequestSent() { m.milestoneRequestsSent.Add(1) }

// TransactionBroadcastSent bumps the transaction-broadcast counter.
func (m *Metrics) TransactionBroadcastSent() { m.transactionBroadcastsSent.Add(1) }

// TransactionRequestSent bumps the transaction-request counter.
func (m *Metrics) TransactionRequestSent() { m.transactionRequestsSent.Add(1) }

// HeartbeatSent bumps the heartbeat counter.
func (m *Metrics) HeartbeatSent() { m.heartbeatsSent.Add(1) }

// MilestoneRequestsSent returns the number of milestone requests sent.
func (m *Metrics) MilestoneRequestsSent() uint64 { return m.milestoneRequestsSent.Load() }

// TransactionBroadcastsSent returns the number of transaction broadcasts sent.
func (m *Metrics) TransactionBroadcastsSent() uint64 { return m.transactionBroadcastsSent.Load() }

// TransactionRequestsSent returns the number of transaction requests sent.
func (m *Metrics) TransactionRequestsSent() uint64 { return m.transactionRequestsSent.Load() }

// HeartbeatsSent returns the number of heartbeats sent.
func (m *Metrics) HeartbeatsSent() uint64 { return m.heartbeatsSent.Load() }
