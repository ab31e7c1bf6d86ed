// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package form

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/textguard/internal/config"
)

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Watch reloads path on change and sends the result to s. Reloads run on
// the watcher goroutine, so they reach the form only as messages.
func Watch(s Sender, path string, opts ...config.WatcherOption) (*config.Watcher, error) {
	opts = append([]config.WatcherOption{
		config.WithErrorHandler(func(err error) { s.Send(ConfigErrorMsg{Err: err}) }),
	}, opts...)

	w, err := config.NewWatcher(path, func(cfg *config.Config) {
		s.Send(ConfigReloadedMsg{Config: cfg})
	}, opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
