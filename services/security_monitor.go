package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	alertCooldown        = time.Hour
	maxAlerts            = 100
)

// LoginMonitor counts failed logins per IP and raises an alert when an IP
// crosses the threshold inside the window.
type LoginMonitor struct {
	clock
	mu           sync.Mutex
	failedLogins map[string][]time.Time // IP -> failure timestamps
	alertedIPs   map[string]time.Time   // IP -> last alert time
	alerts       []SecurityAlert
}

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Reason    string    `json:"reason"`
	Attempts  int       `json:"attempts"`
}

func NewLoginMonitor() *LoginMonitor {
	return &LoginMonitor{
		failedLogins: make(map[string][]time.Time),
		alertedIPs:   make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failure and reports whether it raised an alert.
func (m *LoginMonitor) TrackFailedLogin(ip, email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-failedLoginWindow)

	attempts := append(m.failedLogins[ip], now)
	valid := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	m.failedLogins[ip] = valid

	zap.S().Warnw("Failed login", "ip", ip, "email", email, "attempts", len(valid))

	if len(valid) < failedLoginThreshold {
		return false
	}
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < alertCooldown {
		return false
	}

	m.alertedIPs[ip] = now
	alert := SecurityAlert{Timestamp: now, IP: ip, Reason: "Multiple failed logins detected", Attempts: len(valid)}
	m.alerts = append([]SecurityAlert{alert}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}

	zap.S().Errorw("[SECURITY ALERT] Multiple failed logins", "ip", ip, "attempts", len(valid))
	return true
}

// ResetIP forgets the failures of an IP after a successful login.
func (m *LoginMonitor) ResetIP(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failedLogins, ip)
}

// RecentAlerts returns a copy of the alerts, newest first.
func (m *LoginMonitor) RecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SecurityAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Cleanup drops stale failure and alert entries.
func (m *LoginMonitor) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for ip, attempts := range m.failedLogins {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > failedLoginWindow {
			delete(m.failedLogins, ip)
		}
	}
	for ip, last := range m.alertedIPs {
		if now.Sub(last) > alertCooldown {
			delete(m.alertedIPs, ip)
		}
	}
}
