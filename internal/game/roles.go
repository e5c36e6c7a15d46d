package game

import "github.com/b14tz/bluph/internal/models"

// Coin costs per action. Costs are paid at declaration and are not
// refunded if the action is blocked or lost to a challenge.
const (
	costCoup        = 7
	costAssassinate = 3

	// mustCoupThreshold forces a Coup when a player's balance reaches it.
	mustCoupThreshold = 10
)

// actionCost returns the coin cost of declaring kind.
func actionCost(kind models.ActionKind) int {
	switch kind {
	case models.ActionCoup:
		return costCoup
	case models.ActionAssassinate:
		return costAssassinate
	default:
		return 0
	}
}

// requiredRole returns the role a player implicitly claims by declaring
// kind, and false for actions that claim nothing.
func requiredRole(kind models.ActionKind) (models.Role, bool) {
	switch kind {
	case models.ActionTax:
		return models.RoleDuke, true
	case models.ActionAssassinate:
		return models.RoleAssassin, true
	case models.ActionSteal:
		return models.RoleCaptain, true
	case models.ActionExchange:
		return models.RoleAmbassador, true
	default:
		return "", false
	}
}

// isChallengeable reports whether declaring kind asserts a role claim that
// other players may challenge.
func isChallengeable(kind models.ActionKind) bool {
	_, ok := requiredRole(kind)
	return ok
}

// blockingRoles returns the roles that may be claimed to block kind.
// Empty for unblockable actions.
func blockingRoles(kind models.ActionKind) []models.Role {
	switch kind {
	case models.ActionForeignAid:
		return []models.Role{models.RoleDuke}
	case models.ActionAssassinate:
		return []models.Role{models.RoleContessa}
	case models.ActionSteal:
		return []models.Role{models.RoleCaptain, models.RoleAmbassador}
	default:
		return nil
	}
}

// isBlockable reports whether kind can be countered by a block claim.
func isBlockable(kind models.ActionKind) bool {
	return len(blockingRoles(kind)) > 0
}

// roleCanBlock reports whether claiming role is a legal block against kind.
func roleCanBlock(role models.Role, kind models.ActionKind) bool {
	for _, r := range blockingRoles(kind) {
		if r == role {
			return true
		}
	}
	return false
}

// isTargeted reports whether kind requires a target player.
func isTargeted(kind models.ActionKind) bool {
	switch kind {
	case models.ActionCoup, models.ActionAssassinate, models.ActionSteal:
		return true
	}
	return false
}
