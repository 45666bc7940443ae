// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long an untouched workspace is kept.
const DefaultTTL = 2 * time.Hour

// entry tracks one workspace and when it was last used.
type entry struct {
	ws       *Workspace
	lastUsed time.Time
}

// Manager keeps one Workspace per client id and drops workspaces idle
// for longer than the TTL. With Config.MaxWorkspaces set, new clients
// are refused once that many workspaces are live.
type Manager struct {
	mu         sync.Mutex
	workspaces map[string]*entry
	cfg        Config
	ttl        time.Duration
	now        func() time.Time
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewManager creates a manager that builds workspaces from cfg. It
// starts a background goroutine that evicts idle workspaces; call Stop
// to end it.
func NewManager(cfg Config, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	m := &Manager{
		workspaces: make(map[string]*entry),
		cfg:        cfg,
		ttl:        ttl,
		now:        now,
		stopCh:     make(chan struct{}),
	}

	// Sweep a few times per TTL, between once a second and once a minute.
	interval := max(min(ttl/4, time.Minute), time.Second)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Evict()
			case <-m.stopCh:
				return
			}
		}
	}()

	return m
}

// Stop terminates the background eviction goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Get returns clientID's workspace, creating it on first use, and marks
// it as used. ErrAtCapacity is returned when a new workspace would exceed
// the limit even after evicting idle ones.
func (m *Manager) Get(clientID string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.workspaces[clientID]
	if !ok {
		if limit := m.cfg.MaxWorkspaces; limit > 0 && len(m.workspaces) >= limit {
			m.evictLocked()
			if len(m.workspaces) >= limit {
				slog.Warn("workspace limit reached", "limit", limit)
				return nil, ErrAtCapacity
			}
		}
		e = &entry{ws: NewWorkspace(m.cfg)}
		m.workspaces[clientID] = e
		slog.Debug("workspace created", "workspaces", len(m.workspaces))
	}
	e.lastUsed = m.now()
	return e.ws, nil
}

// Drop discards clientID's workspace.
func (m *Manager) Drop(clientID string) {
	m.mu.Lock()
	delete(m.workspaces, clientID)
	m.mu.Unlock()
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Evict removes workspaces idle longer than the TTL and returns how many
// were dropped.
func (m *Manager) Evict() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictLocked()
}

func (m *Manager) evictLocked() int {
	cutoff := m.now().Add(-m.ttl)
	evicted := 0
	for id, e := range m.workspaces {
		if e.lastUsed.Before(cutoff) {
			delete(m.workspaces, id)
			evicted++
		}
	}
	if evicted > 0 {
		slog.Info("idle workspaces evicted", "evicted", evicted, "remaining", len(m.workspaces))
	}
	return evicted
}
