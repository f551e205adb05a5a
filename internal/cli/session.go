package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"compgrip/internal/catalogue"
	"compgrip/internal/config"
	"compgrip/internal/coordinator"
	"compgrip/internal/eventbus"
	"compgrip/internal/logic"
	"compgrip/internal/resolver"
)

// session wires config, bus, resolver and coordinator for one command run
type session struct {
	cfg    *config.Config
	bus    eventbus.EventBus
	source string
	loader catalogue.Loader
	res    resolver.Service
	coord  *coordinator.Coordinator

	logPath string
	logFile *os.File
}

func openSession(opts *Options, confirmer coordinator.Confirmer) (*session, error) {
	s := &session{}

	logPath := opts.LogFile
	if logPath == "" {
		logPath = config.DefaultConfig().LogFile
	}
	s.openLog(logPath)

	s.bus = eventbus.New()
	s.bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ErrorEvent); ok {
			log.Printf("Error event: %s: %v", event.Message, event.Err)
		}
	})

	cfg, err := config.NewConfigServiceWithBus(s.bus, opts.ConfigPath).Load()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.cfg = cfg
	if opts.LogFile == "" && cfg.LogFile != "" && cfg.LogFile != s.logPath {
		s.openLog(cfg.LogFile)
	}

	s.source = opts.Catalogue
	if s.source == "" {
		s.source, err = cfg.ChannelURL(runtime.GOOS, opts.Channel)
		if err != nil {
			s.Close()
			return nil, err
		}
	}
	log.Printf("Session: component list %s", s.source)

	s.loader = catalogue.NewLoader(nil)
	s.res = resolver.NewService(s.bus, s.loader, s.source)
	s.coord = coordinator.New(s.res, confirmer, logic.NewMemorySelectionStore(), s.bus)
	return s, nil
}

// openLog sends the standard logger to path, keeping the previous output if it cannot be opened
func (s *session) openLog(path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return
	}
	log.SetOutput(f)
	if s.logFile != nil {
		s.logFile.Close()
	}
	s.logFile = f
	s.logPath = path
}

// load fetches the component list and applies selections through the select path
func (s *session) load(ctx context.Context, selections []string) error {
	if _, err := s.coord.Load(ctx); err != nil {
		return err
	}
	for _, id := range selections {
		err := s.coord.Select(ctx, id)
		switch {
		case err == nil:
		case coordinator.IsComponentRequired(err):
			log.Printf("Session: %s is required, nothing to select", id)
		default:
			return fmt.Errorf("select %s: %w", id, err)
		}
	}
	s.sync()
	return nil
}

// sync applies the resolver's current selection without waiting for the bus
func (s *session) sync() {
	s.coord.ApplySync(nil, s.res.Selection())
}

func (s *session) Close() {
	if s.bus != nil {
		s.bus.Close()
	}
	if s.logFile != nil {
		log.SetOutput(os.Stderr)
		s.logFile.Close()
		s.logFile = nil
	}
}
