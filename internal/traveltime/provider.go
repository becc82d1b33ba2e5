package traveltime

import (
	"golfsim/internal/models"
)

// Leg is one directed movement between two course locations.
type Leg struct {
	DistanceM float64 `json:"distance_m"`
	TimeS     float64 `json:"time_s"`
}

// minSpeedMps keeps time derivation finite even if a caller bypasses config
// validation and hands us a degenerate speed.
const minSpeedMps = 0.1

// defaultHoleDistancesM is the built-in clubhouse-to-hole distance table used
// when a course has no precomputed routing data. The shape follows a typical
// out-and-back layout: the front nine runs away from the clubhouse, the turn
// is the far point, and the back nine works home.
var defaultHoleDistancesM = [18]float64{
	0, 200, 400, 600, 800, 1000, 1200, 1400, 1600,
	1800, 1600, 1400, 1200, 1000, 800, 600, 400, 200,
}

// Provider resolves delivery targets to travel legs from the clubhouse,
// preferring the most precise data loaded: node-indexed table, then per-hole
// distances, then the built-in table. It never fails for holes 1-18.
type Provider struct {
	speedMps  float64
	nodeTable *NodeTable
	holeTable *HoleTable
}

// New returns a provider that derives durations at speedMps wherever the
// loaded data has no precomputed time.
func New(speedMps float64) *Provider {
	if speedMps < minSpeedMps {
		speedMps = minSpeedMps
	}
	return &Provider{speedMps: speedMps}
}

// FromConfig builds a provider with whichever course tables the scenario
// references. Table errors are configuration errors; the caller gets them
// before the clock starts.
func FromConfig(cfg *models.Config) (*Provider, error) {
	p := New(cfg.RunnerSpeedMps)
	if cfg.TravelTimesFile != "" {
		table, err := LoadNodeTable(cfg.TravelTimesFile)
		if err != nil {
			return nil, err
		}
		p.nodeTable = table
	}
	if cfg.HoleDistancesFile != "" {
		table, err := LoadHoleTable(cfg.HoleDistancesFile)
		if err != nil {
			return nil, err
		}
		p.holeTable = table
	}
	return p, nil
}

// SetNodeTable installs a node-indexed travel-time table.
func (p *Provider) SetNodeTable(t *NodeTable) { p.nodeTable = t }

// SetHoleTable installs a per-hole distance table.
func (p *Provider) SetHoleTable(t *HoleTable) { p.holeTable = t }

// SpeedMps is the (clamped) runner speed used for derived durations.
func (p *Provider) SpeedMps() float64 { return p.speedMps }

// OutboundTo resolves the leg from the clubhouse to a delivery target. A
// non-nil nodeIndex wins when a node table is loaded; otherwise the hole
// number resolves against the hole table or the built-in distances.
func (p *Provider) OutboundTo(holeNum int, nodeIndex *int) Leg {
	if nodeIndex != nil && p.nodeTable != nil {
		if node, ok := p.nodeTable.Node(*nodeIndex); ok {
			return Leg{DistanceM: node.DistanceM, TimeS: node.TimeS}
		}
	}
	if p.holeTable != nil {
		if d, ok := p.holeTable.DistanceM(holeNum); ok {
			return p.legFromDistance(d)
		}
	}
	return p.legFromDistance(heuristicDistanceM(holeNum))
}

// ReturnFrom is the leg back to the clubhouse for a runner parked at loc,
// mirroring the outbound estimate; there is no distinct return-path model.
func (p *Provider) ReturnFrom(loc models.Location) Leg {
	if loc.IsClubhouse() {
		return Leg{}
	}
	return p.OutboundTo(loc.Hole, nil)
}

func (p *Provider) legFromDistance(distanceM float64) Leg {
	return Leg{DistanceM: distanceM, TimeS: distanceM / p.speedMps}
}

func heuristicDistanceM(holeNum int) float64 {
	if holeNum < 1 {
		holeNum = 1
	}
	if holeNum > 18 {
		holeNum = 18
	}
	return defaultHoleDistancesM[holeNum-1]
}
