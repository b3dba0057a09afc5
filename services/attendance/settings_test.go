package attendance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_SeedsDefaultsBeforeRefresh(t *testing.T) {
	settings := NewSettings(&fakeConfigService{})

	snap := settings.Snapshot()

	assert.Equal(t, 0.60, snap.ConfidenceThreshold)
	assert.Equal(t, "", snap.AbsenceNotifyAddress)
	assert.Equal(t, uint64(0), settings.Version())
}

func TestSettings_RefreshAppliesOverridesAndBumpsVersion(t *testing.T) {
	svc := &fakeConfigService{
		floats:  map[string]float64{SettingConfidenceThreshold: 0.8},
		ints:    map[string]int{SettingLateThresholdMinutes: 15},
		strings: map[string]string{SettingAbsenceNotifyAddress: "office@example.com"},
	}
	settings := NewSettings(svc)

	err := settings.Refresh(context.Background())

	require.NoError(t, err)
	snap := settings.Snapshot()
	assert.Equal(t, 0.8, snap.ConfidenceThreshold)
	assert.Equal(t, 15, snap.LateThresholdMinutes)
	assert.Equal(t, "office@example.com", snap.AbsenceNotifyAddress)
	assert.Equal(t, uint64(1), settings.Version())
}

func TestSettings_RefreshFallsBackToDefaultsWhenUnset(t *testing.T) {
	settings := NewSettings(&fakeConfigService{})

	err := settings.Refresh(context.Background())

	require.NoError(t, err)
	snap := settings.Snapshot()
	assert.Equal(t, defaultSnapshot(), snap)
}
