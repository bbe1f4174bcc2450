package main

import (
	"fmt"
	"io"
	"log"

	"github.com/pearcec/clubportal/internal/bus"
	"github.com/pearcec/clubportal/internal/collab"
	"github.com/pearcec/clubportal/internal/config"
	"github.com/pearcec/clubportal/internal/metrics"
	"github.com/pearcec/clubportal/internal/portal"
)

// app wires one CLI session: collaborator client, store, change bus and
// metrics.
type app struct {
	cfg     *config.Config
	client  *collab.Client
	store   *portal.Store
	board   *portal.Board
	changes *bus.Bus[portal.Change]
	metrics *metrics.Metrics
	out     io.Writer
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	m := metrics.New()
	client, err := collab.New(cfg.API.BaseURL,
		collab.WithHTTPClient(collab.NewHTTPClient(cfg.API.Timeout)),
		collab.WithObserver(m),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("[cli] event service at %s", client.BaseURL())

	changes := bus.New[portal.Change]()
	changes.Subscribe(m.OnChange)
	changes.Subscribe(func(c portal.Change) error {
		log.Printf("[cli][store] %s event %q, %d held", c.Type, c.Event.ID, c.Count)
		return nil
	})

	board := portal.NewBoard()
	board.OnPost = m.OnAnnouncement

	return &app{
		cfg:     cfg,
		client:  client,
		store:   portal.NewStore(client, portal.WithPublisher(changes)),
		board:   board,
		changes: changes,
		metrics: m,
		out:     out,
	}, nil
}

// session opens a gate of the given role over the app's store.
func (a *app) session(role portal.Role) *portal.Session {
	return portal.NewSession(role, a.store)
}

// close flushes metrics and stops change delivery.
func (a *app) close() error {
	a.changes.Close()
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
