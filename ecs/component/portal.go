package component

// Portal leads to the next level. Tier is one of the names returned by the
// tier script.
type Portal struct {
	Tier   string
	Level  int
	Radius float64
}

var PortalComponent = NewComponent[Portal]()

const (
	TierNormal   = "normal"
	TierTreasure = "treasure"
	TierHard     = "hard"
	TierViolence = "violence"
	TierExtreme  = "extreme"
	TierBrutal   = "brutal"
	TierEnd      = "end"
)
