package ecs

import (
	"strconv"

	core "github.com/milk9111/horde/component"
)

// Entity packs a slot id and a generation. A handle whose generation no
// longer matches its slot refers to a destroyed entity.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}

// Ref converts the handle to the opaque reference the simulation core uses.
func (e Entity) Ref() core.EntityRef {
	return core.EntityRef(e)
}

// FromRef is the inverse of Entity.Ref.
func FromRef(r core.EntityRef) Entity {
	return Entity(r)
}
