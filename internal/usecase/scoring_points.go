package usecase

import (
	"math"

	"github.com/riskibarqy/fantasy-hockey/internal/domain/gamestat"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
)

// scoreLine computes fantasy points for one line. Unknown roles score 0.
func scoreLine(table rules.Table, c gamestat.Candidate) float64 {
	role := c.Role
	var points float64

	switch role {
	case player.RoleForward, player.RoleDefense:
		counts := []struct {
			key   rules.Key
			count int
		}{
			{rules.KeyGoal, c.Goals},
			{rules.KeyAssist, c.Assists},
			{rules.KeyShotOnGoal, c.ShotsOnGoal},
			{rules.KeyHit, c.Hits},
			{rules.KeyBlockedShot, c.BlockedShots},
			{rules.KeyGiveaway, c.Giveaways},
			{rules.KeyTakeaway, c.Takeaways},
			{rules.KeyPowerPlayGoal, c.PowerPlayGoals},
			{rules.KeyPenaltyMinutes, c.PenaltyMinutes},
		}
		for _, item := range counts {
			points += float64(item.count) * table.Value(item.key, role)
		}
		points += outcomeValue(table, c.IsWin, role)
	case player.RoleGoalie:
		points += outcomeValue(table, c.IsWin, role)
		if c.IsShutout {
			points += table.Value(rules.KeyShutout, role)
		}
		points += float64(c.PenaltyMinutes) * table.Value(rules.KeyPenaltyMinutes, role)
		points += table.SaveTiers.Lookup(c.Saves)
		points += table.GoalsAgainstTiers.Lookup(c.GoalsAgainst)
	default:
		return 0
	}

	return math.Round(points*100) / 100
}

func outcomeValue(table rules.Table, isWin bool, role player.Role) float64 {
	if isWin {
		return table.Value(rules.KeyWin, role)
	}
	return table.Value(rules.KeyLoss, role)
}
