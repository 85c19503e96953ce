package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	pgvector "github.com/pgvector/pgvector-go"
)

// UUIDToPgtype converts uuid.UUID to pgtype.UUID
func UUIDToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// PgtypeToUUID converts pgtype.UUID to uuid.UUID
func PgtypeToUUID(id pgtype.UUID) uuid.UUID {
	return id.Bytes
}

// PgtextToStringPtr converts pgtype.Text to *string
func PgtextToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

// PgtypeToTime converts pgtype.Timestamptz to time.Time
func PgtypeToTime(ts pgtype.Timestamptz) time.Time {
	return ts.Time
}

// TimeToPgdate converts time.Time to pgtype.Date
func TimeToPgdate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

// PgdateToTime converts pgtype.Date to time.Time
func PgdateToTime(d pgtype.Date) time.Time {
	return d.Time
}

// VectorPtrToFloats は nullable な vector カラムの値を []float32 に変換する。
// NULL（pending 状態）は nil を返す。
func VectorPtrToFloats(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}
