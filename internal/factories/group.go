package factories

import (
	"fmt"
	"math/rand"

	"github.com/jaswdr/faker"

	"golfsim/internal/models"
)

// GroupFactory builds the day's tee sheet: groups of two to four golfers
// teeing off at a fixed interval between the first and last tee times.
type GroupFactory struct{}

func (gf *GroupFactory) CreateGroups(cfg *models.Config, rng *rand.Rand) []*models.GolferGroup {
	fake := faker.NewWithSeed(rand.NewSource(int64(cfg.Seed)))

	var groups []*models.GolferGroup
	idx := 0
	for teeS := cfg.FirstTeeS; teeS <= cfg.LastTeeS; teeS += cfg.TeeIntervalS {
		idx++
		group := &models.GolferGroup{
			ID:       fmt.Sprintf("group_%02d", idx),
			TeeTimeS: teeS,
		}
		size := 2 + rng.Intn(3)
		for k := 0; k < size; k++ {
			group.Golfers = append(group.Golfers, models.Golfer{
				ID:   fmt.Sprintf("%s_p%d", group.ID, k+1),
				Name: fake.Person().Name(),
			})
		}
		groups = append(groups, group)
	}
	return groups
}
