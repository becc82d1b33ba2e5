package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is where a runner is parked between deliveries: the clubhouse or
// one of the 18 holes. Hole 0 means the clubhouse; there is no other state.
type Location struct {
	Hole int `json:"hole"`
}

// AtClubhouse is the runner's position at service start and after a reset.
func AtClubhouse() Location { return Location{} }

// AtHole is the runner's position after delivering to hole n.
func AtHole(n int) Location { return Location{Hole: n} }

func (l Location) IsClubhouse() bool { return l.Hole == 0 }

func (l Location) String() string {
	if l.IsClubhouse() {
		return "clubhouse"
	}
	return fmt.Sprintf("hole_%d", l.Hole)
}

// ParseLocation reads the string form back ("clubhouse" or "hole_<n>").
func ParseLocation(s string) (Location, error) {
	if s == "clubhouse" {
		return AtClubhouse(), nil
	}
	rest, ok := strings.CutPrefix(s, "hole_")
	if !ok {
		return Location{}, fmt.Errorf("unrecognised location %q", s)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 18 {
		return Location{}, fmt.Errorf("unrecognised location %q", s)
	}
	return AtHole(n), nil
}
