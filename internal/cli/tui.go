package cli

import (
	"context"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"compgrip/internal/catalogue"
	"compgrip/internal/eventbus"
	"compgrip/internal/ui"
)

// forwardedEvents reach the model as ui.EventMsg
var forwardedEvents = []eventbus.EventType{
	eventbus.EventCatalogueLoaded,
	eventbus.EventCatalogueChanged,
	eventbus.EventToggleCompleted,
	eventbus.EventError,
}

func runTUI(ctx context.Context, opts *Options, out io.Writer) error {
	confirmer := ui.NewConfirmer()
	s, err := openSession(opts, confirmer)
	if err != nil {
		return err
	}
	defer s.Close()

	if !catalogue.IsRemote(s.source) {
		watcher := catalogue.NewWatchService(s.bus, s.loader)
		if err := watcher.Start(ctx, s.source); err != nil {
			log.Printf("Component list will not be reloaded: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	model := ui.NewModel(ctx, s.bus, s.cfg, s.coord)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)
	confirmer.SetProgram(p)

	for _, eventType := range forwardedEvents {
		s.bus.Subscribe(eventType, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	log.Printf("UI exited normally")

	if plan := model.Plan(); plan != nil {
		return writePlanJSON(out, *plan)
	}
	return nil
}
