package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckAccountAllowed(t *testing.T) {
	now := time.Now()
	status := CheckAccount(nil, nil, now)
	assert.Equal(t, StatusAllowed, status.Code)
	assert.True(t, status.Allowed())
}

func TestCheckAccountBanWinsOverSuspension(t *testing.T) {
	now := time.Now()
	banned := now.Add(-time.Hour)
	until := now.Add(48 * time.Hour)

	status := CheckAccount(&banned, &until, now)
	assert.Equal(t, StatusBanned, status.Code)
	assert.Nil(t, status.SuspendedUntil)
}

func TestCheckAccountSuspended(t *testing.T) {
	now := time.Now()
	until := now.Add(time.Hour)

	status := CheckAccount(nil, &until, now)
	assert.Equal(t, StatusSuspended, status.Code)
	assert.Equal(t, &until, status.SuspendedUntil)
}

func TestCheckAccountExpiredSuspensionAllowed(t *testing.T) {
	now := time.Now()
	until := now.Add(-time.Minute)

	status := CheckAccount(nil, &until, now)
	assert.Equal(t, StatusAllowed, status.Code)
}
