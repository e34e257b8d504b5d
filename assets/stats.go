package assets

import "fmt"

// Stat is the demo's closed set of numeric resources.
type Stat uint8

const (
	StatMana Stat = iota
	StatHealth
	StatStamina
)

func (s Stat) String() string {
	switch s {
	case StatMana:
		return "mana"
	case StatHealth:
		return "health"
	case StatStamina:
		return "stamina"
	default:
		return fmt.Sprintf("Stat(%d)", uint8(s))
	}
}

// ParseStat maps a catalog stat name to a Stat.
func ParseStat(name string) (Stat, error) {
	switch name {
	case "mana":
		return StatMana, nil
	case "health":
		return StatHealth, nil
	case "stamina":
		return StatStamina, nil
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}
