package traveltime

import (
	"encoding/json"
	"fmt"
	"os"
)

// NodeTravelTime is one precomputed shortest-path result from the clubhouse
// to a node on the course's cart-path graph.
type NodeTravelTime struct {
	NodeIndex int     `json:"node_index"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	DistanceM float64 `json:"distance_m"`
	TimeS     float64 `json:"time_s"`
}

// NodeTable is the offline routing output for a course: per-node travel
// times keyed by node index, plus the parameters they were computed with.
type NodeTable struct {
	RunnerSpeedMps  float64
	ClubhouseCoords [2]float64
	nodes           map[int]NodeTravelTime
}

// Node looks up a precomputed travel time by node index.
func (t *NodeTable) Node(index int) (NodeTravelTime, bool) {
	node, ok := t.nodes[index]
	return node, ok
}

// Len is the number of nodes in the table.
func (t *NodeTable) Len() int { return len(t.nodes) }

// rawNodeTable parses with pointers so missing fields are distinguishable
// from zero values; a malformed table must fail loading, not mis-route
// deliveries at hole granularity later.
type rawNodeTable struct {
	RunnerSpeedMps  *float64     `json:"runner_speed_mps"`
	ClubhouseCoords []float64    `json:"clubhouse_coords"`
	Nodes           []rawNodeRow `json:"nodes"`
}

type rawNodeRow struct {
	NodeIndex *int     `json:"node_index"`
	Lon       float64  `json:"lon"`
	Lat       float64  `json:"lat"`
	DistanceM *float64 `json:"distance_m"`
	TimeS     *float64 `json:"time_s"`
}

// ParseNodeTable validates and indexes a node travel-time table.
func ParseNodeTable(data []byte) (*NodeTable, error) {
	var raw rawNodeTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing travel-time table: %w", err)
	}
	if raw.RunnerSpeedMps == nil {
		return nil, fmt.Errorf("travel-time table missing runner_speed_mps")
	}
	if *raw.RunnerSpeedMps <= 0 {
		return nil, fmt.Errorf("travel-time table runner_speed_mps must be positive, got %v", *raw.RunnerSpeedMps)
	}
	if len(raw.Nodes) == 0 {
		return nil, fmt.Errorf("travel-time table has no nodes")
	}

	table := &NodeTable{
		RunnerSpeedMps: *raw.RunnerSpeedMps,
		nodes:          make(map[int]NodeTravelTime, len(raw.Nodes)),
	}
	if len(raw.ClubhouseCoords) == 2 {
		table.ClubhouseCoords = [2]float64{raw.ClubhouseCoords[0], raw.ClubhouseCoords[1]}
	}

	for i, row := range raw.Nodes {
		if row.NodeIndex == nil {
			return nil, fmt.Errorf("travel-time table node %d missing node_index", i)
		}
		if row.DistanceM == nil || row.TimeS == nil {
			return nil, fmt.Errorf("travel-time table node %d missing distance_m or time_s", *row.NodeIndex)
		}
		if *row.DistanceM < 0 || *row.TimeS < 0 {
			return nil, fmt.Errorf("travel-time table node %d has negative distance or time", *row.NodeIndex)
		}
		if _, dup := table.nodes[*row.NodeIndex]; dup {
			return nil, fmt.Errorf("travel-time table has duplicate node_index %d", *row.NodeIndex)
		}
		table.nodes[*row.NodeIndex] = NodeTravelTime{
			NodeIndex: *row.NodeIndex,
			Lon:       row.Lon,
			Lat:       row.Lat,
			DistanceM: *row.DistanceM,
			TimeS:     *row.TimeS,
		}
	}
	return table, nil
}

// LoadNodeTable reads and parses a node travel-time table from disk.
func LoadNodeTable(path string) (*NodeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading travel-time table: %w", err)
	}
	table, err := ParseNodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// HoleTable is the legacy per-hole clubhouse distance format. Holes absent
// from the file fall through to the built-in distances.
type HoleTable struct {
	distances map[int]float64
}

// DistanceM looks up the clubhouse distance for a hole.
func (t *HoleTable) DistanceM(hole int) (float64, bool) {
	d, ok := t.distances[hole]
	return d, ok
}

// Len is the number of holes in the table.
func (t *HoleTable) Len() int { return len(t.distances) }

type rawHoleTable struct {
	Holes []rawHoleRow `json:"holes"`
}

type rawHoleRow struct {
	Hole        *int `json:"hole"`
	TravelTimes struct {
		GolfCart struct {
			ToTarget struct {
				DistanceM *float64 `json:"distance_m"`
			} `json:"to_target"`
		} `json:"golf_cart"`
	} `json:"travel_times"`
}

// ParseHoleTable validates and indexes a legacy hole distance table.
func ParseHoleTable(data []byte) (*HoleTable, error) {
	var raw rawHoleTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing hole distance table: %w", err)
	}
	if len(raw.Holes) == 0 {
		return nil, fmt.Errorf("hole distance table has no holes")
	}

	table := &HoleTable{distances: make(map[int]float64, len(raw.Holes))}
	for i, row := range raw.Holes {
		if row.Hole == nil {
			return nil, fmt.Errorf("hole distance table entry %d missing hole", i)
		}
		if *row.Hole < 1 || *row.Hole > 18 {
			return nil, fmt.Errorf("hole distance table entry %d has hole %d outside 1-18", i, *row.Hole)
		}
		d := row.TravelTimes.GolfCart.ToTarget.DistanceM
		if d == nil {
			return nil, fmt.Errorf("hole distance table hole %d missing travel_times.golf_cart.to_target.distance_m", *row.Hole)
		}
		if *d < 0 {
			return nil, fmt.Errorf("hole distance table hole %d has negative distance", *row.Hole)
		}
		table.distances[*row.Hole] = *d
	}
	return table, nil
}

// LoadHoleTable reads and parses a legacy hole distance table from disk.
func LoadHoleTable(path string) (*HoleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading hole distance table: %w", err)
	}
	table, err := ParseHoleTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
