package ingestion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/777advait/aeonik/pkg/retry"
)

// --- スタブ群 ---

type stubProfileSource struct {
	profile *Profile
	err     error
	calls   int
}

func (s *stubProfileSource) FetchProfile(ctx context.Context, url string) (*Profile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

type stubGenerator struct {
	summary string
	err     error
	calls   int
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

type stubEmbedder struct {
	dimension int
	vector    []float32
	err       error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

func (s *stubEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = s.vector
	}
	return vectors, nil
}

func (s *stubEmbedder) Dimension() int { return s.dimension }

// stubRepository はインメモリの Repository 実装。
// 要約とEmbeddingの書き込みが常に同時であることを検証できる。
type stubRepository struct {
	users       map[uuid.UUID]*User
	connections map[uuid.UUID]*Connection

	persistErr        error
	userWrites        int
	connectionWrites  int
	createConnections int
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		users:       make(map[uuid.UUID]*User),
		connections: make(map[uuid.UUID]*Connection),
	}
}

func (r *stubRepository) CreateUserIfNotExists(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	user := &User{ID: uuid.New(), Email: email}
	r.users[user.ID] = user
	return user, nil
}

func (r *stubRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *stubRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *stubRepository) SetUserProfile(ctx context.Context, userID uuid.UUID, summary string, vector []float32) error {
	if r.persistErr != nil {
		return r.persistErr
	}
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Summary = &summary
	user.Embedding = vector
	user.Onboarded = true
	r.userWrites++
	return nil
}

func (r *stubRepository) CreateConnection(ctx context.Context, input ConnectionInput) (*Connection, error) {
	conn := &Connection{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Name:        input.Name,
		Company:     input.Company,
		Position:    input.Position,
		LinkedinURL: input.LinkedinURL,
		ConnectedOn: input.ConnectedOn,
	}
	r.connections[conn.ID] = conn
	r.createConnections++
	return conn, nil
}

func (r *stubRepository) GetConnectionByID(ctx context.Context, id uuid.UUID) (*Connection, error) {
	conn, ok := r.connections[id]
	if !ok {
		return nil, ErrConnectionNotFound
	}
	return conn, nil
}

func (r *stubRepository) ListConnectionsByUser(ctx context.Context, userID uuid.UUID) ([]*Connection, error) {
	var result []*Connection
	for _, conn := range r.connections {
		if conn.UserID == userID {
			result = append(result, conn)
		}
	}
	return result, nil
}

func (r *stubRepository) SetConnectionProfile(ctx context.Context, connectionID uuid.UUID, summary string, vector []float32) error {
	if r.persistErr != nil {
		return r.persistErr
	}
	conn, ok := r.connections[connectionID]
	if !ok {
		return ErrConnectionNotFound
	}
	conn.Summary = &summary
	conn.Embedding = vector
	r.connectionWrites++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProfile() *Profile {
	return &Profile{
		Summary:  "Experienced platform engineer.",
		Headline: "Platform Engineer at Example Corp",
	}
}

// --- Pipeline ---

func TestPipeline_RunPersistsConnectionProfile(t *testing.T) {
	repo := newStubRepository()
	conn, err := repo.CreateConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.NoError(t, err)

	embedder := &stubEmbedder{dimension: 3, vector: []float32{0.1, 0.2, 0.3}}
	pipeline := NewPipeline(repo, &stubProfileSource{profile: testProfile()}, &stubGenerator{summary: "summary text"}, embedder, testLogger())

	err = pipeline.Run(context.Background(), Unit{
		Kind:        UnitConnection,
		TargetID:    conn.ID,
		LinkedinURL: conn.LinkedinURL,
	})
	require.NoError(t, err)

	stored, err := repo.GetConnectionByID(context.Background(), conn.ID)
	require.NoError(t, err)
	assert.True(t, stored.Ready())
	assert.Equal(t, "summary text", *stored.Summary)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, stored.Embedding)
}

func TestPipeline_RunOnboardingSetsUserProfile(t *testing.T) {
	repo := newStubRepository()
	user, err := repo.CreateUserIfNotExists(context.Background(), "taro@example.com")
	require.NoError(t, err)
	require.False(t, user.Onboarded)

	embedder := &stubEmbedder{dimension: 3, vector: []float32{0.5, 0.5, 0.5}}
	pipeline := NewPipeline(repo, &stubProfileSource{profile: testProfile()}, &stubGenerator{summary: "user summary"}, embedder, testLogger())

	err = pipeline.Run(context.Background(), Unit{
		Kind:        UnitOnboarding,
		TargetID:    user.ID,
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.NoError(t, err)

	stored, err := repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Onboarded)
	assert.True(t, stored.Ready())
}

func TestPipeline_FetchFailureLeavesRowUntouched(t *testing.T) {
	repo := newStubRepository()
	conn, err := repo.CreateConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.NoError(t, err)

	source := &stubProfileSource{err: errors.New("service unavailable")}
	embedder := &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}}
	pipeline := NewPipeline(repo, source, &stubGenerator{summary: "unused"}, embedder, testLogger())

	err = pipeline.Run(context.Background(), Unit{
		Kind:        UnitConnection,
		TargetID:    conn.ID,
		LinkedinURL: conn.LinkedinURL,
	})
	require.Error(t, err)

	// 途中状態は永続化されない
	stored, err := repo.GetConnectionByID(context.Background(), conn.ID)
	require.NoError(t, err)
	assert.False(t, stored.Ready())
	assert.Nil(t, stored.Summary)
	assert.Empty(t, stored.Embedding)
	assert.Zero(t, repo.connectionWrites)
}

func TestPipeline_EmptySummaryIsPermanent(t *testing.T) {
	repo := newStubRepository()
	conn, err := repo.CreateConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.NoError(t, err)

	embedder := &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}}
	pipeline := NewPipeline(repo, &stubProfileSource{profile: testProfile()}, &stubGenerator{summary: ""}, embedder, testLogger())

	err = pipeline.Run(context.Background(), Unit{
		Kind:        UnitConnection,
		TargetID:    conn.ID,
		LinkedinURL: conn.LinkedinURL,
	})
	require.Error(t, err)
	assert.True(t, retry.IsPermanent(err))
}

func TestPipeline_DimensionMismatchIsPermanent(t *testing.T) {
	repo := newStubRepository()
	conn, err := repo.CreateConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.NoError(t, err)

	// 宣言次元は4だが返るベクトルは3次元
	embedder := &stubEmbedder{dimension: 4, vector: []float32{1, 2, 3}}
	pipeline := NewPipeline(repo, &stubProfileSource{profile: testProfile()}, &stubGenerator{summary: "summary"}, embedder, testLogger())

	err = pipeline.Run(context.Background(), Unit{
		Kind:        UnitConnection,
		TargetID:    conn.ID,
		LinkedinURL: conn.LinkedinURL,
	})
	require.Error(t, err)
	assert.True(t, retry.IsPermanent(err))
	assert.Zero(t, repo.connectionWrites)
}
