package component

import "github.com/milk9111/horde/common"

// WaveSpawner places Count agents on the ground around Center, one every
// Delay seconds.
type WaveSpawner struct {
	Center      common.Vec3
	Radius      float64
	Count       int
	Delay       float64
	MinSpacing  float64
	SpawnHeight float64
	// Archetypes are picked uniformly for each spawn.
	Archetypes []string

	Active   bool
	Spawned  int
	Alive    int
	Attempts int
	Cleared  bool
	Timer    float64
	Placed   []common.Vec3
}

var WaveSpawnerComponent = NewComponent[WaveSpawner]()
