package component

import "sync"

// HealthPool is a reusable health and armor pool for anything that can take
// damage. Armor always absorbs damage before health does.
type HealthPool struct {
	mu sync.Mutex

	Health    int
	MaxHealth int
	Armor     int
	MaxArmor  int
	Dead      bool

	OnDamage func(h *HealthPool, evt CombatEvent)
	OnDeath  func(h *HealthPool, evt CombatEvent)
}

// NewHealthPool creates a pool with health full and armor empty.
func NewHealthPool(maxHealth, maxArmor int) *HealthPool {
	if maxHealth <= 0 {
		maxHealth = 1
	}
	if maxArmor < 0 {
		maxArmor = 0
	}
	return &HealthPool{Health: maxHealth, MaxHealth: maxHealth, MaxArmor: maxArmor}
}

// IsAlive reports whether the pool has not died.
func (h *HealthPool) IsAlive() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.Dead && h.Health > 0
}

// ApplyDamage subtracts amount, armor first. Returns true if the damage was
// applied. The death transition and OnDeath fire at most once.
func (h *HealthPool) ApplyDamage(amount int, evt CombatEvent) bool {
	if h == nil || amount < 0 {
		return false
	}

	h.mu.Lock()
	if h.Dead {
		h.mu.Unlock()
		return false
	}

	absorbed := min(h.Armor, amount)
	h.Armor -= absorbed
	remaining := amount - absorbed
	h.Health -= remaining
	if h.Health < 0 {
		h.Health = 0
	}

	died := h.Health <= 0
	if died {
		h.Dead = true
	}
	onDamage, onDeath := h.OnDamage, h.OnDeath
	h.mu.Unlock()

	evt.Type = EventDamageApplied
	evt.Damage = remaining
	evt.Absorbed = absorbed
	if onDamage != nil {
		onDamage(h, evt)
	}
	if died && onDeath != nil {
		evt.Type = EventDeath
		onDeath(h, evt)
	}
	return true
}

// Heal restores health up to MaxHealth. Returns false when nothing changed.
func (h *HealthPool) Heal(amount int) bool {
	if h == nil || amount <= 0 {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Dead || h.Health >= h.MaxHealth {
		return false
	}
	h.Health = min(h.MaxHealth, h.Health+amount)
	return true
}

// AddArmor restores armor up to MaxArmor. Returns false when nothing changed.
func (h *HealthPool) AddArmor(amount int) bool {
	if h == nil || amount <= 0 {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Dead || h.Armor >= h.MaxArmor {
		return false
	}
	h.Armor = min(h.MaxArmor, h.Armor+amount)
	return true
}

// CurrentHP returns the current health value.
func (h *HealthPool) CurrentHP() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Health
}

// MaxHP returns the maximum health value.
func (h *HealthPool) MaxHP() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.MaxHealth
}

// CurrentArmor returns the current armor value.
func (h *HealthPool) CurrentArmor() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Armor
}

// MaxArmorValue returns the armor cap.
func (h *HealthPool) MaxArmorValue() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.MaxArmor
}

// NeedsHealth reports whether a heal would have any effect.
func (h *HealthPool) NeedsHealth() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.Dead && h.Health < h.MaxHealth
}

// NeedsArmor reports whether adding armor would have any effect.
func (h *HealthPool) NeedsArmor() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.Dead && h.Armor < h.MaxArmor
}

// Reset restores a full pool and clears the dead flag.
func (h *HealthPool) Reset() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Health = h.MaxHealth
	h.Armor = 0
	h.Dead = false
}
