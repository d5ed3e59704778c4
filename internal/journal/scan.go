package journal

import (
	"database/sql"
	"time"

	"stagecast/internal/stageerr"
)

const entryColumns = "id, run_id, stage, encoder, status, output_path, error_kind, error_message, started_at, finished_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		encoder     sql.NullString
		status      string
		output      sql.NullString
		errorKind   sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Stage,
		&encoder,
		&status,
		&output,
		&errorKind,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.Encoder = encoder.String
	entry.Status = Status(status)
	entry.OutputPath = output.String
	entry.ErrorKind = stageerr.Kind(errorKind.String)
	entry.ErrorMessage = errorMsg.String
	entry.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		entry.FinishedAt = parseTime(finishedRaw.String)
	}
	return entry, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
