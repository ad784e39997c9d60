package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginMonitor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewLoginMonitor()
	m.Now = func() time.Time { return now }
	ip := "127.0.0.1"

	t.Run("Alert after threshold", func(t *testing.T) {
		for i := 0; i < failedLoginThreshold-1; i++ {
			assert.False(t, m.TrackFailedLogin(ip, "a@b.c"))
		}
		assert.True(t, m.TrackFailedLogin(ip, "a@b.c"))

		alerts := m.RecentAlerts()
		assert.Len(t, alerts, 1)
		assert.Equal(t, ip, alerts[0].IP)
		assert.Equal(t, failedLoginThreshold, alerts[0].Attempts)
	})

	t.Run("Cooldown suppresses duplicate alerts", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.False(t, m.TrackFailedLogin(ip, "a@b.c"))
		}
		assert.Len(t, m.RecentAlerts(), 1)
	})

	t.Run("Failures outside the window are forgotten", func(t *testing.T) {
		other := "10.0.0.9"
		for i := 0; i < failedLoginThreshold-1; i++ {
			m.TrackFailedLogin(other, "x@y.z")
		}
		now = now.Add(failedLoginWindow + time.Minute)
		assert.False(t, m.TrackFailedLogin(other, "x@y.z"))
	})

	t.Run("Reset clears an IP", func(t *testing.T) {
		other := "10.0.0.10"
		for i := 0; i < failedLoginThreshold-1; i++ {
			m.TrackFailedLogin(other, "x@y.z")
		}
		m.ResetIP(other)
		assert.False(t, m.TrackFailedLogin(other, "x@y.z"))
	})

	t.Run("Cleanup drops stale entries", func(t *testing.T) {
		now = now.Add(2 * time.Hour)
		m.Cleanup()
		m.mu.Lock()
		defer m.mu.Unlock()
		assert.Empty(t, m.failedLogins)
		assert.Empty(t, m.alertedIPs)
	})
}
