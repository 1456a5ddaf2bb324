package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupSyncTest(mock *mockSyncOrchestrator) func() {
	oldSync := syncOrchestrator
	syncOrchestrator = mock
	return func() {
		syncOrchestrator = oldSync
	}
}

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_Executes(t *testing.T) {
	mock := &mockSyncOrchestrator{}
	defer setupSyncTest(mock)()

	out, err := runCommand("sync", "--owner", "alice")

	assert.NoError(t, err)
	assert.Contains(t, out, "Synchronising sources for alice")
	assert.Contains(t, out, "Sync complete.")
	assert.Equal(t, []string{"alice"}, mock.synced)
}

func TestSyncCmd_RequiresOwner(t *testing.T) {
	defer setupSyncTest(&mockSyncOrchestrator{})()

	_, err := runCommand("sync")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--owner is required")
}

func TestSyncCmd_ServiceNotConfigured(t *testing.T) {
	defer setupSyncTest(nil)()
	syncOrchestrator = nil

	_, err := runCommand("sync", "--owner", "alice")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync service not configured")
}

func TestSyncCmd_ServiceError(t *testing.T) {
	mock := &mockSyncOrchestrator{err: errors.New("boom")}
	defer setupSyncTest(mock)()

	_, err := runCommand("sync", "--owner", "alice")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}
