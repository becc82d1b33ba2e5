package traveltime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseNodeTable(t *testing.T) {
	table, err := ParseNodeTable([]byte(`{
		"runner_speed_mps": 5.5,
		"clubhouse_coords": [-0.7594, 51.2438],
		"nodes": [
			{"node_index": 0, "lon": -0.7594, "lat": 51.2438, "distance_m": 0, "time_s": 0},
			{"node_index": 9, "lon": -0.7562, "lat": 51.2461, "distance_m": 645, "time_s": 107.5}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseNodeTable: %v", err)
	}
	if table.RunnerSpeedMps != 5.5 {
		t.Fatalf("speed = %v, want 5.5", table.RunnerSpeedMps)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
	node, ok := table.Node(9)
	if !ok || node.DistanceM != 645 || node.TimeS != 107.5 {
		t.Fatalf("Node(9) = %+v, %v", node, ok)
	}
	if _, ok := table.Node(1); ok {
		t.Fatal("Node(1) should be absent")
	}
}

func TestParseNodeTableErrors(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"missing speed", `{"nodes": [{"node_index": 0, "distance_m": 1, "time_s": 1}]}`, "runner_speed_mps"},
		{"zero speed", `{"runner_speed_mps": 0, "nodes": [{"node_index": 0, "distance_m": 1, "time_s": 1}]}`, "runner_speed_mps"},
		{"no nodes", `{"runner_speed_mps": 6, "nodes": []}`, "no nodes"},
		{"missing node index", `{"runner_speed_mps": 6, "nodes": [{"distance_m": 1, "time_s": 1}]}`, "node_index"},
		{"missing distance", `{"runner_speed_mps": 6, "nodes": [{"node_index": 3, "time_s": 1}]}`, "distance_m"},
		{"negative time", `{"runner_speed_mps": 6, "nodes": [{"node_index": 3, "distance_m": 1, "time_s": -2}]}`, "negative"},
		{"duplicate node", `{"runner_speed_mps": 6, "nodes": [
			{"node_index": 3, "distance_m": 1, "time_s": 1},
			{"node_index": 3, "distance_m": 2, "time_s": 2}]}`, "duplicate"},
		{"malformed json", `{"runner_speed_mps":`, "parsing"},
	}
	for _, tc := range cases {
		_, err := ParseNodeTable([]byte(tc.data))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: error %q does not mention %q", tc.name, err, tc.wantErr)
		}
	}
}

func TestParseHoleTableErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no holes", `{"holes": []}`},
		{"missing hole", `{"holes": [{"travel_times": {"golf_cart": {"to_target": {"distance_m": 1}}}}]}`},
		{"hole out of range", `{"holes": [{"hole": 19, "travel_times": {"golf_cart": {"to_target": {"distance_m": 1}}}}]}`},
		{"missing distance", `{"holes": [{"hole": 4}]}`},
		{"negative distance", `{"holes": [{"hole": 4, "travel_times": {"golf_cart": {"to_target": {"distance_m": -5}}}}]}`},
	}
	for _, tc := range cases {
		if _, err := ParseHoleTable([]byte(tc.data)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadNodeTableFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "travel_times.json")
	data := `{"runner_speed_mps": 6, "nodes": [{"node_index": 4, "distance_m": 310, "time_s": 51.7}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadNodeTable(path)
	if err != nil {
		t.Fatalf("LoadNodeTable: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("Len = %d, want 1", table.Len())
	}

	if _, err := LoadNodeTable(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file should error")
	}
}
