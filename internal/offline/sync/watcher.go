package sync

import (
	"context"
	"log"
	"time"

	"github.com/heritagebakes/bakebook/internal/offline/api"
)

// ConnectivityWatcher polls the server's health endpoint and triggers a
// sync pass when connectivity returns after an offline stretch.
type ConnectivityWatcher struct {
	engine   *Engine
	client   *api.Client
	interval time.Duration
	stopChan chan struct{}
}

// NewConnectivityWatcher creates a watcher with the given poll interval.
func NewConnectivityWatcher(engine *Engine, client *api.Client, interval time.Duration) *ConnectivityWatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ConnectivityWatcher{
		engine:   engine,
		client:   client,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the watcher loop
func (w *ConnectivityWatcher) Start() {
	log.Printf("[Watcher] starting connectivity watcher (interval: %s)", w.interval)

	go func() {
		// Probe immediately on start
		wasOnline := w.check(false)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				wasOnline = w.check(wasOnline)
			case <-w.stopChan:
				log.Println("[Watcher] stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the watcher
func (w *ConnectivityWatcher) Stop() {
	close(w.stopChan)
}

// check probes connectivity and runs a sync pass on an offline→online
// transition. Returns the current online state.
func (w *ConnectivityWatcher) check(wasOnline bool) bool {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	online := w.client.Online(ctx)
	if online && !wasOnline {
		log.Println("[Watcher] back online, draining outbox")
		res, err := w.engine.ProcessOutbox(ctx)
		if err != nil {
			log.Printf("[Watcher] sync pass failed: %v", err)
		} else if res.Synced > 0 || res.Errors > 0 {
			log.Printf("[Watcher] synced %d, errors %d", res.Synced, res.Errors)
		}
	}
	return online
}
