package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/config"
	"github.com/tdoa-platform/core/internal/eventbus"
	"github.com/tdoa-platform/core/internal/nodemonitor"
)

// initEventBus connects the event bus and builds its node-health producer
// when enabled in configuration. A connection failure is non-fatal: the
// core continues operating with the bus (and therefore the node-monitor
// push) disabled.
func initEventBus(cfg config.EventBusConfig, nodeID string) (*eventbus.Bus, *nodemonitor.Producer) {
	if !cfg.Enabled {
		log.Info().Msg("eventbus: disabled")
		return nil, nil
	}

	bus, err := eventbus.New(eventbus.DefaultConfig(cfg.URL))
	if err != nil {
		log.Warn().Err(err).Msg("eventbus: connect failed, node metrics push disabled")
		return nil, nil
	}

	producer := nodemonitor.New(nodemonitor.DefaultConfig(nodeID), bus)
	return bus, producer
}

// localNodeID derives a stable node identifier from the host name,
// falling back to a fixed label when unavailable.
func localNodeID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "tdoa-node"
}
