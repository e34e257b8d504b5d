package assets

// Emoji constants used as entity glyphs.
const (
	GlyphPlayer  = "🧙"
	GlyphEnemy   = "👹"
	GlyphStunned = "💫"
	GlyphDying   = "💀"
	GlyphBlast   = "💥"
)

// Arena dimensions of the demo, in cells.
const (
	ArenaWidth  = 24
	ArenaHeight = 12
)

// Hints rotate through the message log while the demo is idle.
var Hints = []string{
	"Space casts Stun. It costs 25 mana and locks you in place while you channel.",
	"G readies a grenade. Enter throws it. Each throw spends one grenade.",
	"C hexes you with Silence for two seconds. A channelled Stun is cancelled.",
	"X ends it all. The Dying tag blocks every other ability.",
}
