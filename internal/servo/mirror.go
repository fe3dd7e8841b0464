package servo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/san-kum/armsim/internal/sim"
)

const writeTimeout = 20 * time.Millisecond

// Mirror drives a physical arm on a feetech bus to follow sampled joint
// angles. It is a sim.Observer; write failures are counted, not returned.
type Mirror struct {
	bus   *feetech.Bus
	group *feetech.ServoGroup
	cal   Calibration

	mu      sync.Mutex
	writes  int
	failed  int
	lastErr error
}

// NewMirror opens the serial bus and enables torque on the calibrated
// servos.
func NewMirror(ctx context.Context, port string, cal Calibration) (*Mirror, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("servo: open bus: %w", err)
	}

	group := feetech.NewServoGroupByIDs(bus, cal.IDs()...)
	if err := group.EnableAll(ctx); err != nil {
		bus.Close()
		return nil, fmt.Errorf("servo: enable torque: %w", err)
	}

	return &Mirror{bus: bus, group: group, cal: cal}, nil
}

func (m *Mirror) OnSample(s sim.Sample) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	positions := feetech.PositionMap(m.cal.Positions(s.State.Angles()))
	err := m.group.SetPositions(ctx, positions)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if err != nil {
		m.failed++
		m.lastErr = err
	}
}

// Stats reports how many writes were attempted and how many failed.
func (m *Mirror) Stats() (writes, failed int, lastErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes, m.failed, m.lastErr
}

// Close releases torque and the bus.
func (m *Mirror) Close(ctx context.Context) error {
	derr := m.group.DisableAll(ctx)
	if err := m.bus.Close(); err != nil {
		return err
	}
	return derr
}
