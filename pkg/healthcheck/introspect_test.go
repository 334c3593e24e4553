package healthcheck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupField(t *testing.T) {
	snapshot := TimerSnapshot{
		ContainerID:     "container-1",
		Status:          Unhealthy,
		FailingStreak:   4,
		GraceRemainingS: 0,
		LastExitCode:    1,
		LastProbeAt:     time.Unix(0, 0).UTC(),
	}

	value, err := LookupField(snapshot, "FailingStreak")
	assert.NoError(t, err)
	assert.Equal(t, "4", value)

	value, err = LookupField(snapshot, "ContainerID")
	assert.NoError(t, err)
	assert.Equal(t, "container-1", value)
}

func TestLookupFieldUnknownPath(t *testing.T) {
	snapshot := TimerSnapshot{}
	_, err := LookupField(snapshot, "NoSuchField")
	assert.Error(t, err)
}
