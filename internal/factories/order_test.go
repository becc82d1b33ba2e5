package factories

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"golfsim/internal/models"
)

func buildOrders(cfg *models.Config) ([]*models.GolferGroup, []*models.Order) {
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))
	groups := (&GroupFactory{}).CreateGroups(cfg, rng)
	orders := (&OrderFactory{}).CreateOrders(cfg, groups, rng)
	return groups, orders
}

func TestCreateOrdersStayInsideTheRound(t *testing.T) {
	cfg := teeSheetConfig()
	cfg.OrderProbPerNine = 1.0
	groups, orders := buildOrders(cfg)

	var golfers int
	byID := map[string]*models.GolferGroup{}
	for _, group := range groups {
		golfers += len(group.Golfers)
		byID[group.ID] = group
	}
	// At probability one every golfer orders once per nine.
	if len(orders) != 2*golfers {
		t.Fatalf("got %d orders for %d golfers, want %d", len(orders), golfers, 2*golfers)
	}

	secondsPerHole := cfg.MinutesPerHole * 60
	for _, order := range orders {
		group, ok := byID[order.GolferGroupID]
		if !ok {
			t.Fatalf("order %s references unknown group %s", order.ID, order.GolferGroupID)
		}
		if !strings.HasPrefix(order.GolferID, group.ID+"_p") {
			t.Fatalf("order %s golfer %s not in group %s", order.ID, order.GolferID, group.ID)
		}
		if order.HoleNum < 1 || order.HoleNum > 18 {
			t.Fatalf("order %s at hole %d", order.ID, order.HoleNum)
		}
		if order.OrderTimeS < group.TeeTimeS || order.OrderTimeS >= group.RoundEndS(secondsPerHole) {
			t.Fatalf("order %s at %v outside group %s round", order.ID, order.OrderTimeS, group.ID)
		}
		if got := group.HoleAt(order.OrderTimeS, secondsPerHole); got != order.HoleNum {
			t.Fatalf("order %s stamped hole %d, group was at %d", order.ID, order.HoleNum, got)
		}
		if order.Status != models.OrderStatusPending {
			t.Fatalf("order %s status = %s, want pending", order.ID, order.Status)
		}
	}

	for i, order := range orders {
		if want := fmt.Sprintf("%03d", i+1); order.ID != want {
			t.Fatalf("order id = %s, want %s", order.ID, want)
		}
		if i > 0 && order.OrderTimeS < orders[i-1].OrderTimeS {
			t.Fatalf("stream out of order at %d: %v after %v", i, order.OrderTimeS, orders[i-1].OrderTimeS)
		}
	}
}

func TestCreateOrdersDeterministicUnderSeed(t *testing.T) {
	cfg := teeSheetConfig()
	cfg.Seed = 7
	_, first := buildOrders(cfg)
	_, second := buildOrders(cfg)

	if len(first) == 0 {
		t.Fatalf("seed 7 produced no orders")
	}
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Fatalf("order streams differ between identical seeds")
	}
}

func TestCreateOrdersHonorZeroProbability(t *testing.T) {
	cfg := teeSheetConfig()
	cfg.OrderProbPerNine = 0
	_, orders := buildOrders(cfg)
	if len(orders) != 0 {
		t.Fatalf("got %d orders at probability zero, want none", len(orders))
	}
}
