package models

// Golfer is one player in a group; only identity matters to dispatch.
type Golfer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GolferGroup is a tee-time group moving around the course at a fixed pace.
// Groups are scenario inputs: the dispatcher only ever sees the orders they
// place.
type GolferGroup struct {
	ID       string   `json:"id"`
	TeeTimeS float64  `json:"tee_time_s"`
	Golfers  []Golfer `json:"golfers"`
}

// HoleAt returns the hole the group is playing at time tS given a constant
// pace, or 0 when the group is not on the course (before its tee time or
// after finishing 18).
func (g *GolferGroup) HoleAt(tS, secondsPerHole float64) int {
	if tS < g.TeeTimeS || secondsPerHole <= 0 {
		return 0
	}
	hole := 1 + int((tS-g.TeeTimeS)/secondsPerHole)
	if hole > 18 {
		return 0
	}
	return hole
}

// RoundEndS is when the group walks off the 18th green.
func (g *GolferGroup) RoundEndS(secondsPerHole float64) float64 {
	return g.TeeTimeS + 18*secondsPerHole
}
