package component

import core "github.com/milk9111/horde/component"

var HealthComponent = NewComponent[core.HealthPool]()

// Team assigns a faction for friendly-fire checks.
type Team struct {
	Faction core.Faction
}

var TeamComponent = NewComponent[Team]()
