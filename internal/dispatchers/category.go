package dispatchers

type CommandCategory int

const (
	CategoryUncategorized CommandCategory = iota
	CategoryModeration                    // Punishments: kick, warn, freeze
	CategoryTeleport                      // Moving players around
	CategoryMatch                         // Match settings: mutations, teams
	CategoryAssistance                    // Requests to staff
	CategoryUtility                       // Help and confirmation
	CategoryAdmin                         // Operator tooling: config, audit
)

func (c CommandCategory) String() string {
	switch c {
	case CategoryModeration:
		return "moderation"
	case CategoryTeleport:
		return "teleportation"
	case CategoryMatch:
		return "match settings"
	case CategoryAssistance:
		return "player assistance"
	case CategoryUtility:
		return "utility"
	case CategoryAdmin:
		return "administration"
	default:
		return "other commands"
	}
}

var categoryOrder = []CommandCategory{
	CategoryModeration,
	CategoryTeleport,
	CategoryMatch,
	CategoryAssistance,
	CategoryUtility,
	CategoryAdmin,
	CategoryUncategorized,
}

// CategoryOrder returns the display order for categories.
func CategoryOrder() []CommandCategory {
	return categoryOrder
}
