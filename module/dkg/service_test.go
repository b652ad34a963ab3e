package dkg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravityledger/gravity-core/model/gravity"
	"github.com/gravityledger/gravity-core/module/chainclock"
	"github.com/gravityledger/gravity-core/module/dkg"
	"github.com/gravityledger/gravity-core/module/metrics"
	"github.com/gravityledger/gravity-core/state/protocol"
	"github.com/gravityledger/gravity-core/state/protocol/events"
	"github.com/gravityledger/gravity-core/utils/unittest"
)

func newService(t *testing.T) (*dkg.Service, unittest.RoleIdentities) {
	auth, ids := unittest.AuthorizerFixture(t)
	clock := chainclock.New(unittest.Logger(), auth, 1_000_000)
	service := dkg.NewService(unittest.Logger(), auth, clock, events.NewNoop(), metrics.NewNoopCollector())
	return service, ids
}

func start(t *testing.T, service *dkg.Service, orchestrator gravity.Identifier, epoch uint64) {
	err := service.Start(orchestrator, epoch, unittest.RandomnessConfigFixture(),
		unittest.ValidatorConsensusListFixture(4), unittest.ValidatorConsensusListFixture(5))
	require.NoError(t, err)
}

func TestStart(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		service, ids := newService(t)
		start(t, service, ids.Orchestrator, 7)

		require.True(t, service.InProgress())
		session, ok := service.IncompleteSession()
		require.True(t, ok)
		assert.Equal(t, uint64(7), session.DealerEpoch)
		assert.Equal(t, uint64(1_000_000), session.StartTimeMicros)
		assert.Len(t, session.Dealers, 4)
		assert.Len(t, session.Targets, 5)
		assert.False(t, session.Completed())
	})

	t.Run("second start fails", func(t *testing.T) {
		service, ids := newService(t)
		start(t, service, ids.Orchestrator, 7)

		err := service.Start(ids.Orchestrator, 7, unittest.RandomnessConfigFixture(), nil, nil)
		require.ErrorIs(t, err, protocol.ErrDKGAlreadyInProgress)
	})

	t.Run("rejects non-orchestrator caller", func(t *testing.T) {
		service, ids := newService(t)

		err := service.Start(ids.Governance, 7, unittest.RandomnessConfigFixture(), nil, nil)
		require.Error(t, err)
		assert.True(t, protocol.IsInvalidCallerError(err))
		assert.False(t, service.InProgress())
	})
}

func TestFinish(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		service, ids := newService(t)
		start(t, service, ids.Orchestrator, 7)

		transcript := unittest.TranscriptFixture()
		err := service.Finish(ids.Orchestrator, transcript)
		require.NoError(t, err)

		assert.False(t, service.InProgress())
		_, ok := service.IncompleteSession()
		assert.False(t, ok)

		completed, ok := service.LastCompletedSession()
		require.True(t, ok)
		assert.Equal(t, uint64(7), completed.DealerEpoch)
		assert.Equal(t, transcript, completed.Transcript)
		assert.True(t, completed.Completed())
	})

	t.Run("fails with no session", func(t *testing.T) {
		service, ids := newService(t)

		err := service.Finish(ids.Orchestrator, unittest.TranscriptFixture())
		require.ErrorIs(t, err, protocol.ErrDKGNotInProgress)
	})

	t.Run("rejects non-orchestrator caller", func(t *testing.T) {
		service, ids := newService(t)
		start(t, service, ids.Orchestrator, 7)

		err := service.Finish(ids.ConsensusEngine, unittest.TranscriptFixture())
		require.Error(t, err)
		assert.True(t, protocol.IsInvalidCallerError(err))
		assert.True(t, service.InProgress())
	})
}

func TestClearIncomplete(t *testing.T) {
	t.Run("clears open session", func(t *testing.T) {
		service, ids := newService(t)
		start(t, service, ids.Orchestrator, 7)

		cleared, err := service.ClearIncomplete(ids.Orchestrator)
		require.NoError(t, err)
		assert.True(t, cleared)
		assert.False(t, service.InProgress())

		// the cleared session is gone, not completed
		_, ok := service.LastCompletedSession()
		assert.False(t, ok)
	})

	t.Run("no-op with nothing in progress", func(t *testing.T) {
		service, ids := newService(t)

		cleared, err := service.ClearIncomplete(ids.Orchestrator)
		require.NoError(t, err)
		assert.False(t, cleared)
	})

	t.Run("does not touch last completed session", func(t *testing.T) {
		service, ids := newService(t)
		start(t, service, ids.Orchestrator, 7)
		require.NoError(t, service.Finish(ids.Orchestrator, unittest.TranscriptFixture()))

		start(t, service, ids.Orchestrator, 8)
		cleared, err := service.ClearIncomplete(ids.Orchestrator)
		require.NoError(t, err)
		assert.True(t, cleared)

		completed, ok := service.LastCompletedSession()
		require.True(t, ok)
		assert.Equal(t, uint64(7), completed.DealerEpoch)
	})
}

// TestQueryIsolation ensures query results are copies: mutating them must
// not affect service-owned state.
func TestQueryIsolation(t *testing.T) {
	service, ids := newService(t)
	start(t, service, ids.Orchestrator, 7)

	session, ok := service.IncompleteSession()
	require.True(t, ok)
	session.DealerEpoch = 99
	session.Dealers[0].VotingPower = 0

	fresh, ok := service.IncompleteSession()
	require.True(t, ok)
	assert.Equal(t, uint64(7), fresh.DealerEpoch)
	assert.NotZero(t, fresh.Dealers[0].VotingPower)
}
