package component

// Cooldown is a countdown in seconds. An action may fire when Ready and the
// owner calls Reset after firing.
type Cooldown struct {
	Remaining float64
	Interval  float64
}

func NewCooldown(interval float64) Cooldown {
	return Cooldown{Interval: interval}
}

// Tick counts down by dt. Remaining may go negative; Ready only checks <= 0.
func (c *Cooldown) Tick(dt float64) {
	if c == nil || dt <= 0 {
		return
	}
	c.Remaining -= dt
}

func (c *Cooldown) Ready() bool {
	return c != nil && c.Remaining <= 0
}

func (c *Cooldown) Reset() {
	if c == nil {
		return
	}
	c.Remaining = c.Interval
}
