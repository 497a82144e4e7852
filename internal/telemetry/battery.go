// Package telemetry periodically samples the rover's power monitor and feeds
// the readings to the telemetry broadcaster.
package telemetry

import (
	"context"
	"time"

	"github.com/edaniels/golog"

	"github.com/soar/roverctl/internal/rover"
)

// DefaultInterval between battery polls.
const DefaultInterval = 10 * time.Second

// PowerSource is the slice of the rover client the poller needs.
type PowerSource interface {
	INA219Info() (rover.PowerInfo, error)
}

// BatteryPoller queries the INA219 monitor on a fixed interval.
type BatteryPoller struct {
	logger   golog.Logger
	source   PowerSource
	interval time.Duration
	out      chan rover.PowerInfo
}

// NewBatteryPoller returns the poller and the channel its readings arrive on.
// The channel is closed when Run returns.
func NewBatteryPoller(source PowerSource, interval time.Duration, logger golog.Logger) (*BatteryPoller, <-chan rover.PowerInfo) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &BatteryPoller{
		logger:   logger,
		source:   source,
		interval: interval,
		out:      make(chan rover.PowerInfo, 1),
	}
	return p, p.out
}

// Run polls until ctx is cancelled.
func (p *BatteryPoller) Run(ctx context.Context) {
	defer close(p.out)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *BatteryPoller) poll() {
	info, err := p.source.INA219Info()
	if err != nil {
		p.logger.Errorw("reading power monitor", "error", err)
		return
	}

	p.logger.Debugw("battery",
		"percent", info.BatteryPercent(),
		"busVolts", info.BusVolts,
		"currentMilliamps", info.CurrentMilliamps,
		"state", info.PowerState(),
	)

	select {
	case p.out <- info:
	default:
		// Drop the reading if the broadcaster is behind.
	}
}
