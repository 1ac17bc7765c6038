package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/rules"
	qb "github.com/riskibarqy/fantasy-hockey/internal/platform/querybuilder"
)

type RulesRepository struct {
	db *sqlx.DB
}

func NewRulesRepository(db *sqlx.DB) *RulesRepository {
	return &RulesRepository{db: db}
}

// Load reads the payout table and both goalie tier tables in one snapshot.
func (r *RulesRepository) Load(ctx context.Context) (rules.Table, error) {
	var (
		payoutRows []scoringRuleModel
		saveRows   []tierModel
		gaRows     []tierModel
	)

	err := readSnapshot(ctx, r.db, "load scoring rules", func(tx *sqlx.Tx) error {
		query, args, err := qb.Select("rule_key", "forward", "defense", "goalie").
			From("scoring_rules").
			OrderBy("rule_key").
			Build()
		if err != nil {
			return fmt.Errorf("build select scoring rules query: %w", err)
		}
		if err := tx.SelectContext(ctx, &payoutRows, query, args...); err != nil {
			return fmt.Errorf("select scoring rules: %w", err)
		}

		if err := selectTiers(ctx, tx, &saveRows, "goalie_save_points", "min_saves", "max_saves"); err != nil {
			return err
		}
		return selectTiers(ctx, tx, &gaRows, "goalie_goals_against_penalty", "min_goals_against", "max_goals_against")
	})
	if err != nil {
		return rules.Table{}, err
	}

	payouts := make(map[rules.Key]rules.Payout, len(payoutRows))
	for _, row := range payoutRows {
		payouts[rules.Key(row.RuleKey)] = rules.Payout{
			Forward: row.Forward,
			Defense: row.Defense,
			Goalie:  row.Goalie,
		}
	}
	return rules.NewTable(payouts, toTiers(saveRows), toTiers(gaRows)), nil
}

func selectTiers(ctx context.Context, tx *sqlx.Tx, dest *[]tierModel, table, minColumn, maxColumn string) error {
	query, args, err := qb.Select(minColumn+" AS min_value", maxColumn+" AS max_value", "points").
		From(table).
		OrderBy(minColumn, maxColumn).
		Build()
	if err != nil {
		return fmt.Errorf("build select %s query: %w", table, err)
	}
	if err := tx.SelectContext(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

func toTiers(rows []tierModel) []rules.Tier {
	out := make([]rules.Tier, 0, len(rows))
	for _, row := range rows {
		out = append(out, rules.Tier{Min: row.Min, Max: row.Max, Points: row.Points})
	}
	return out
}
