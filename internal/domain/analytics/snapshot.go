package analytics

import (
	"context"
	"encoding/json"
	"time"
)

// SaveSnapshot upserts the serialized envelope keyed by employee and day, so
// repeated runs on the same day overwrite rather than accumulate.
func (s *Store) SaveSnapshot(ctx context.Context, employeeID string, day time.Time, envelope Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO report_snapshots (employee_id, snapshot_date, report_json)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id, snapshot_date)
    DO UPDATE SET report_json = EXCLUDED.report_json, updated_at = now()
  `, employeeID, day, payload)
	return err
}
