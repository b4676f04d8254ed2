package nodemonitor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tdoa-platform/core/internal/eventbus"
)

// healthWarnThreshold mirrors the node monitor's own high-utilization alert
// thresholds, so a misbehaving node is visible in this node's own logs even
// before the external monitor raises a health alert on its copy.
const healthWarnThreshold = 90.0

// SignalLoadFunc reports the current signal-processing load, 0-100.
type SignalLoadFunc func() float64

// ActiveSignalsFunc reports the number of signals currently being tracked.
type ActiveSignalsFunc func() int64

// QueuedTasksFunc reports the depth of the node's pending work queue.
type QueuedTasksFunc func() int64

// Config configures a Producer.
type Config struct {
	NodeID        string
	Interval      time.Duration
	DiskPath      string
	SignalLoad    SignalLoadFunc
	ActiveSignals ActiveSignalsFunc
	QueuedTasks   QueuedTasksFunc
}

// DefaultConfig returns a Config sampling every 15 seconds against the root
// filesystem, with signal-processing hooks reporting zero until the caller
// supplies real ones.
func DefaultConfig(nodeID string) Config {
	return Config{
		NodeID:   nodeID,
		Interval: 15 * time.Second,
		DiskPath: "/",
	}
}

// Producer periodically samples node health and publishes it as a
// NodeMetricsEvent. It implements suture.Service.
type Producer struct {
	cfg     Config
	bus     *eventbus.Bus
	sampler *sampler
}

// New builds a Producer. Unset hook fields default to functions returning
// zero so main.go can wire real ones incrementally.
func New(cfg Config, bus *eventbus.Bus) *Producer {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Second
	}
	if cfg.DiskPath == "" {
		cfg.DiskPath = "/"
	}
	if cfg.SignalLoad == nil {
		cfg.SignalLoad = func() float64 { return 0 }
	}
	if cfg.ActiveSignals == nil {
		cfg.ActiveSignals = func() int64 { return 0 }
	}
	if cfg.QueuedTasks == nil {
		cfg.QueuedTasks = func() int64 { return 0 }
	}
	return &Producer{cfg: cfg, bus: bus, sampler: newSampler(cfg.DiskPath)}
}

// Serve implements suture.Service, sampling and publishing on cfg.Interval
// until ctx is canceled.
func (p *Producer) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.publishOnce(ctx)
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (p *Producer) String() string {
	return "nodemonitor(" + p.cfg.NodeID + ")"
}

func (p *Producer) publishOnce(ctx context.Context) {
	cpuPct, memPct, diskPct, netBPS, err := p.sampler.sample(ctx)
	if err != nil {
		log.Warn().Err(err).Str("node_id", p.cfg.NodeID).Msg("nodemonitor: sample failed")
		return
	}

	evt := eventbus.NodeMetricsEvent{
		NodeID:         p.cfg.NodeID,
		CPUPercent:     cpuPct,
		MemoryPercent:  memPct,
		DiskPercent:    diskPct,
		NetworkBytesPS: netBPS,
		SignalLoad:     p.cfg.SignalLoad(),
		ActiveSignals:  p.cfg.ActiveSignals(),
		QueuedTasks:    p.cfg.QueuedTasks(),
		Timestamp:      time.Now(),
	}

	p.logHealth(evt)

	if err := p.bus.PublishNodeMetrics(ctx, evt); err != nil {
		log.Warn().Err(err).Str("node_id", p.cfg.NodeID).Msg("nodemonitor: publish failed")
	}
}

func (p *Producer) logHealth(evt eventbus.NodeMetricsEvent) {
	var issues []string
	if evt.CPUPercent > healthWarnThreshold {
		issues = append(issues, "high cpu usage")
	}
	if evt.MemoryPercent > healthWarnThreshold {
		issues = append(issues, "high memory usage")
	}
	if evt.DiskPercent > healthWarnThreshold {
		issues = append(issues, "high disk usage")
	}
	if evt.SignalLoad > healthWarnThreshold {
		issues = append(issues, "high signal processing load")
	}
	if len(issues) > 0 {
		log.Warn().Str("node_id", p.cfg.NodeID).Strs("issues", issues).Msg("nodemonitor: health threshold exceeded")
	}
}
