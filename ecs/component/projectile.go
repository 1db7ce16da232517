package component

import core "github.com/milk9111/horde/component"

var ProjectileComponent = NewComponent[core.Projectile]()
