// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import "github.com/Divyansh7131/Rakshak/internal/domain/alert/model"

// Subscribe registers ch for display state changes. Sends never block: a
// subscriber that is not ready misses intermediate states. Use a buffered
// channel. The returned func unsubscribes.
func (m *Manager) Subscribe(ch chan<- model.DisplayState) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = ch
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish() {
	m.mu.Lock()
	state := model.DisplayStateFor(m.session)
	targets := make([]chan<- model.DisplayState, 0, len(m.subscribers))
	for _, ch := range m.subscribers {
		targets = append(targets, ch)
	}
	m.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- state:
		default:
		}
	}
}
