package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"smmh/domain/core"
	"smmh/domain/stats"
	"smmh/domain/survey"
	"smmh/internal/errors"
)

// SaveRecords replaces the cleaned records of a run
func (s *Store) SaveRecords(ctx context.Context, id core.RunID, records []survey.CleanRecord) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM clean_records WHERE run_id = ?`), id.String()); err != nil {
			return errors.DatabaseError("failed to clear records", err)
		}
		stmt, err := tx.PreparexContext(ctx, tx.Rebind(
			`INSERT INTO clean_records (run_id, line, include_in_analysis, payload) VALUES (?, ?, ?, ?)`))
		if err != nil {
			return errors.DatabaseError("failed to prepare record insert", err)
		}
		defer stmt.Close()

		for i := range records {
			payload, err := json.Marshal(&records[i])
			if err != nil {
				return fmt.Errorf("failed to marshal record %d: %w", records[i].Line, err)
			}
			if _, err := stmt.ExecContext(ctx, id.String(), records[i].Line, boolInt(records[i].IncludeInAnalysis), string(payload)); err != nil {
				return errors.DatabaseError(fmt.Sprintf("failed to insert record %d", records[i].Line), err)
			}
		}
		return nil
	})
}

// LoadRecords returns a run's records in line order
func (s *Store) LoadRecords(ctx context.Context, id core.RunID, includedOnly bool) ([]survey.CleanRecord, error) {
	query := `SELECT payload FROM clean_records WHERE run_id = ?`
	if includedOnly {
		query += ` AND include_in_analysis = 1`
	}
	query += ` ORDER BY line`

	var payloads []string
	if err := s.db.SelectContext(ctx, &payloads, s.db.Rebind(query), id.String()); err != nil {
		return nil, errors.DatabaseError("failed to load records", err)
	}
	out := make([]survey.CleanRecord, len(payloads))
	for i, p := range payloads {
		if err := json.Unmarshal([]byte(p), &out[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
	}
	return out, nil
}

// SaveResults replaces the hypothesis results of a run
func (s *Store) SaveResults(ctx context.Context, id core.RunID, results []stats.Result) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM hypothesis_results WHERE run_id = ?`), id.String()); err != nil {
			return errors.DatabaseError("failed to clear results", err)
		}
		for _, r := range results {
			payload, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal result %s: %w", r.ID, err)
			}
			_, err = tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO hypothesis_results (
					run_id, hypothesis_id, test, n, statistic, p_value, effect_size, significant, skipped, payload
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				id.String(), r.ID.String(), string(r.Test), r.N, r.Statistic, r.PValue, r.EffectSize,
				boolInt(r.Significant), boolInt(r.Skipped), string(payload))
			if err != nil {
				return errors.DatabaseError("failed to insert result "+r.ID.String(), err)
			}
		}
		return nil
	})
}

// ListResults returns a run's results ordered by hypothesis id
func (s *Store) ListResults(ctx context.Context, id core.RunID) ([]stats.Result, error) {
	var payloads []string
	query := s.db.Rebind(`SELECT payload FROM hypothesis_results WHERE run_id = ? ORDER BY hypothesis_id`)
	if err := s.db.SelectContext(ctx, &payloads, query, id.String()); err != nil {
		return nil, errors.DatabaseError("failed to list results", err)
	}
	out := make([]stats.Result, len(payloads))
	for i, p := range payloads {
		if err := json.Unmarshal([]byte(p), &out[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
