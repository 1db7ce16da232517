package component

import core "github.com/milk9111/horde/component"

var AgentComponent = NewComponent[core.Agent]()

// Archetype records which prefab an entity was built from.
type Archetype struct {
	Name string
	// Spawner is the wave spawner that owns this entity, if any.
	Spawner core.EntityRef
}

var ArchetypeComponent = NewComponent[Archetype]()

// Corpse marks an agent whose death has been processed and which is waiting
// for its TTL to expire.
type Corpse struct{}

var CorpseComponent = NewComponent[Corpse]()
