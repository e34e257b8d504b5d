package assets

// Ability identifiers.
const (
	AbilityDeath   = "Ability.Death"
	AbilityStun    = "Ability.Stun"
	AbilityGrenade = "Ability.Grenade"
)

// Gameplay tags referenced from Go code. The catalog may register more.
const (
	TagStunCooldown    = "Ability.Stun.Cooldown"
	TagGrenadeThrowing = "Ability.Grenade.Throwing"
	TagMovementBlocked = "Character.Movement.Blocked"
	TagCasting         = "Character.Movement.Blocked.Casting"
	TagStunned         = "Character.Movement.Blocked.Stunned"
	TagDying           = "Character.State.Dying"
	TagSilenced        = "Character.State.Silenced"
)

// Item ids.
const ItemGrenade uint16 = 1

// Procedure signal and trigger names.
const (
	SignalConfirm  = "confirm"
	TriggerStun    = "stun_area"
	TriggerExplode = "explode"
)

// Tuning, in ticks at the default rate of 10 per second unless noted.
const (
	StunRange       = 4 // cells
	StunTicks       = 50
	SilenceTicks    = 20
	GrenadeRadius   = 2 // cells
	GrenadeDamage   = 40
	EnemyMaxHealth  = 60
	DefaultTickRate = 10
)
