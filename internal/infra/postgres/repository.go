package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/777advait/aeonik/internal/core/ingestion"
)

// Repository は ingestion.Repository を実装する PostgreSQL リポジトリです
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository は新しい Repository を作成します
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// コンパイル時の型チェック
var _ ingestion.Repository = (*Repository)(nil)

// === User ===

func (r *Repository) CreateUserIfNotExists(ctx context.Context, email string) (*ingestion.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, onboarded, summary, embedding, created_at`,
		UUIDToPgtype(uuid.New()), email,
	)

	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*ingestion.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, onboarded, summary, embedding, created_at
		FROM users
		WHERE id = $1`,
		UUIDToPgtype(id),
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ingestion.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*ingestion.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, onboarded, summary, embedding, created_at
		FROM users
		WHERE email = $1`,
		email,
	)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ingestion.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// SetUserProfile は要約・Embedding・オンボーディングフラグを
// 1文のUPDATEで同時に設定します
func (r *Repository) SetUserProfile(ctx context.Context, userID uuid.UUID, summary string, vector []float32) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET summary = $2, embedding = $3, onboarded = true
		WHERE id = $1`,
		UUIDToPgtype(userID), summary, pgvector.NewVector(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to set user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ingestion.ErrUserNotFound
	}
	return nil
}

// === Connection ===

func (r *Repository) CreateConnection(ctx context.Context, input ingestion.ConnectionInput) (*ingestion.Connection, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO connections (id, user_id, name, company, position, linkedin_url, connected_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, name, company, position, linkedin_url, connected_on, summary, embedding, created_at`,
		UUIDToPgtype(uuid.New()),
		UUIDToPgtype(input.UserID),
		input.Name,
		input.Company,
		input.Position,
		input.LinkedinURL,
		TimeToPgdate(input.ConnectedOn),
	)

	conn, err := scanConnection(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	return conn, nil
}

func (r *Repository) GetConnectionByID(ctx context.Context, id uuid.UUID) (*ingestion.Connection, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, company, position, linkedin_url, connected_on, summary, embedding, created_at
		FROM connections
		WHERE id = $1`,
		UUIDToPgtype(id),
	)

	conn, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ingestion.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return conn, nil
}

func (r *Repository) ListConnectionsByUser(ctx context.Context, userID uuid.UUID) ([]*ingestion.Connection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, company, position, linkedin_url, connected_on, summary, embedding, created_at
		FROM connections
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		UUIDToPgtype(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	conns := make([]*ingestion.Connection, 0)
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		conns = append(conns, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// SetConnectionProfile は要約とEmbeddingを1文のUPDATEで同時に設定します。
// 片方のみが書き込まれた状態は観測されません。
func (r *Repository) SetConnectionProfile(ctx context.Context, connectionID uuid.UUID, summary string, vector []float32) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE connections
		SET summary = $2, embedding = $3
		WHERE id = $1`,
		UUIDToPgtype(connectionID), summary, pgvector.NewVector(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to set connection profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ingestion.ErrConnectionNotFound
	}
	return nil
}

// === scan helpers ===

func scanUser(row pgx.Row) (*ingestion.User, error) {
	var (
		id        pgtype.UUID
		email     string
		onboarded bool
		summary   pgtype.Text
		embedding *pgvector.Vector
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &email, &onboarded, &summary, &embedding, &createdAt); err != nil {
		return nil, err
	}

	return &ingestion.User{
		ID:        PgtypeToUUID(id),
		Email:     email,
		Onboarded: onboarded,
		Summary:   PgtextToStringPtr(summary),
		Embedding: VectorPtrToFloats(embedding),
		CreatedAt: PgtypeToTime(createdAt),
	}, nil
}

func scanConnection(row pgx.Row) (*ingestion.Connection, error) {
	var (
		id          pgtype.UUID
		userID      pgtype.UUID
		name        string
		company     string
		position    string
		linkedinURL string
		connectedOn pgtype.Date
		summary     pgtype.Text
		embedding   *pgvector.Vector
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &userID, &name, &company, &position, &linkedinURL, &connectedOn, &summary, &embedding, &createdAt); err != nil {
		return nil, err
	}

	return &ingestion.Connection{
		ID:          PgtypeToUUID(id),
		UserID:      PgtypeToUUID(userID),
		Name:        name,
		Company:     company,
		Position:    position,
		LinkedinURL: linkedinURL,
		ConnectedOn: PgdateToTime(connectedOn),
		Summary:     PgtextToStringPtr(summary),
		Embedding:   VectorPtrToFloats(embedding),
		CreatedAt:   PgtypeToTime(createdAt),
	}, nil
}
