package rules

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/player"
)

// Key names a scoring rule. Counting keys pay per unit, event keys pay once.
type Key string

const (
	KeyGoal           Key = "GOAL"
	KeyAssist         Key = "ASSIST"
	KeyShotOnGoal     Key = "SOG"
	KeyHit            Key = "HIT"
	KeyBlockedShot    Key = "BLOCK"
	KeyGiveaway       Key = "GIVEAWAY"
	KeyTakeaway       Key = "TAKEAWAY"
	KeyPowerPlayGoal  Key = "PPG"
	KeyPenaltyMinutes Key = "PIM"
	KeyWin            Key = "WIN"
	KeyLoss           Key = "LOSS"
	KeyShutout        Key = "SHUTOUT"
)

var (
	ErrInvalidTier = errors.New("invalid tier")
	ErrTierGap     = errors.New("tier table has a gap")
	ErrTierOverlap = errors.New("tier table has overlapping ranges")
)

// Payout is the value of one rule for each player role.
type Payout struct {
	Forward float64
	Defense float64
	Goalie  float64
}

func (p Payout) For(role player.Role) float64 {
	switch role {
	case player.RoleForward:
		return p.Forward
	case player.RoleDefense:
		return p.Defense
	case player.RoleGoalie:
		return p.Goalie
	default:
		return 0
	}
}

// Tier maps an inclusive [Min, Max] count range to points.
type Tier struct {
	Min    int
	Max    int
	Points float64
}

// TierTable is kept sorted by Min.
type TierTable []Tier

func NewTierTable(tiers []Tier) TierTable {
	out := append(TierTable(nil), tiers...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Min != out[j].Min {
			return out[i].Min < out[j].Min
		}
		return out[i].Max < out[j].Max
	})
	return out
}

// Lookup returns the points of the tier containing value, or 0 when none does.
func (t TierTable) Lookup(value int) float64 {
	for _, tier := range t {
		if tier.Min > value {
			break
		}
		if value <= tier.Max {
			return tier.Points
		}
	}
	return 0
}

// Validate checks that tiers start at zero and partition the counts they cover
// with no gaps or overlaps.
func (t TierTable) Validate(name string) error {
	for idx, tier := range t {
		if tier.Min < 0 || tier.Max < tier.Min {
			return errors.Wrapf(ErrInvalidTier, "%s tier %d: [%d, %d]", name, idx, tier.Min, tier.Max)
		}
		if idx == 0 {
			if tier.Min != 0 {
				return errors.Wrapf(ErrTierGap, "%s: first tier starts at %d, want 0", name, tier.Min)
			}
			continue
		}
		prev := t[idx-1]
		switch {
		case tier.Min <= prev.Max:
			return errors.Wrapf(ErrTierOverlap, "%s: [%d, %d] overlaps [%d, %d]", name, tier.Min, tier.Max, prev.Min, prev.Max)
		case tier.Min > prev.Max+1:
			return errors.Wrapf(ErrTierGap, "%s: no tier covers %d..%d", name, prev.Max+1, tier.Min-1)
		}
	}
	return nil
}

// Table is the full rule configuration loaded once per scoring run.
type Table struct {
	Payouts           map[Key]Payout
	SaveTiers         TierTable
	GoalsAgainstTiers TierTable
}

func NewTable(payouts map[Key]Payout, saveTiers, goalsAgainstTiers []Tier) Table {
	copied := make(map[Key]Payout, len(payouts))
	for key, payout := range payouts {
		copied[key] = payout
	}
	return Table{
		Payouts:           copied,
		SaveTiers:         NewTierTable(saveTiers),
		GoalsAgainstTiers: NewTierTable(goalsAgainstTiers),
	}
}

// Value returns the payout of key for role; a missing rule is worth 0.
func (t Table) Value(key Key, role player.Role) float64 {
	return t.Payouts[key].For(role)
}

func (t Table) Validate() error {
	if err := t.SaveTiers.Validate("goalie_save_points"); err != nil {
		return err
	}
	if err := t.GoalsAgainstTiers.Validate("goalie_goals_against_penalty"); err != nil {
		return err
	}
	return nil
}
