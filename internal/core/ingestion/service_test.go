package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/777advait/aeonik/pkg/retry"
)

func fastPolicy(maxAttempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: maxAttempts,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  time.Millisecond,
	}
}

func newTestService(repo *stubRepository, source *stubProfileSource, generator *stubGenerator, embedder *stubEmbedder) *Service {
	return NewService(repo, source, generator, embedder,
		WithRetryPolicy(fastPolicy(3)),
		WithLogger(testLogger()),
	)
}

func TestService_EnsureUserIsIdempotent(t *testing.T) {
	repo := newStubRepository()
	svc := newTestService(repo, &stubProfileSource{profile: testProfile()}, &stubGenerator{summary: "s"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	first, err := svc.EnsureUser(context.Background(), "taro@example.com")
	require.NoError(t, err)

	second, err := svc.EnsureUser(context.Background(), "taro@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.users, 1)
}

func TestService_EnsureUserRejectsInvalidEmail(t *testing.T) {
	repo := newStubRepository()
	svc := newTestService(repo, &stubProfileSource{}, &stubGenerator{}, &stubEmbedder{dimension: 3})

	_, err := svc.EnsureUser(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestService_AddConnectionRunsFullPipeline(t *testing.T) {
	repo := newStubRepository()
	svc := newTestService(repo, &stubProfileSource{profile: testProfile()}, &stubGenerator{summary: "connection summary"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	conn, err := svc.AddConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		Company:     "Example Corp",
		Position:    "Engineer",
		LinkedinURL: "https://www.linkedin.com/in/taro",
		ConnectedOn: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, conn.Ready())
	assert.Equal(t, "connection summary", *conn.Summary)
}

func TestService_AddConnectionValidatesBeforeExternalCalls(t *testing.T) {
	repo := newStubRepository()
	source := &stubProfileSource{profile: testProfile()}
	svc := newTestService(repo, source, &stubGenerator{summary: "s"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	_, err := svc.AddConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		LinkedinURL: "not a url",
		ConnectedOn: time.Now(),
	})
	require.Error(t, err)

	// 拒否された入力は外部APIにも永続化層にも到達しない
	assert.Zero(t, source.calls)
	assert.Zero(t, repo.createConnections)
}

func TestService_AddConnectionKeepsPendingRowOnAbandon(t *testing.T) {
	repo := newStubRepository()
	source := &stubProfileSource{err: errors.New("service unavailable")}
	svc := newTestService(repo, source, &stubGenerator{summary: "unused"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	conn, err := svc.AddConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		LinkedinURL: "https://www.linkedin.com/in/taro",
		ConnectedOn: time.Now(),
	})

	// 放棄はつながり追加自体の失敗にはならない
	require.NoError(t, err)
	require.NotNil(t, conn)
	assert.False(t, conn.Ready())

	// リトライ予算どおりに再実行されている
	assert.Equal(t, 3, source.calls)

	stored, err := repo.GetConnectionByID(context.Background(), conn.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Summary)
	assert.Empty(t, stored.Embedding)
}

func TestService_AddConnectionDoesNotRetryPermanentFailure(t *testing.T) {
	repo := newStubRepository()
	source := &stubProfileSource{err: retry.Permanent(errors.New("profile not found"))}
	svc := newTestService(repo, source, &stubGenerator{summary: "unused"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	conn, err := svc.AddConnection(context.Background(), ConnectionInput{
		UserID:      uuid.New(),
		Name:        "Taro Yamada",
		LinkedinURL: "https://www.linkedin.com/in/taro",
		ConnectedOn: time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, conn.Ready())
	assert.Equal(t, 1, source.calls)
}

func TestService_OnboardRequiresExistingUser(t *testing.T) {
	repo := newStubRepository()
	source := &stubProfileSource{profile: testProfile()}
	svc := newTestService(repo, source, &stubGenerator{summary: "s"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	_, err := svc.Onboard(context.Background(), OnboardingInput{
		UserID:      uuid.New(),
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, source.calls)
}

func TestService_OnboardCompletesUserProfile(t *testing.T) {
	repo := newStubRepository()
	user, err := repo.CreateUserIfNotExists(context.Background(), "taro@example.com")
	require.NoError(t, err)

	svc := newTestService(repo, &stubProfileSource{profile: testProfile()}, &stubGenerator{summary: "user summary"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	onboarded, err := svc.Onboard(context.Background(), OnboardingInput{
		UserID:      user.ID,
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.NoError(t, err)
	assert.True(t, onboarded.Onboarded)
	assert.Equal(t, "user summary", *onboarded.Summary)
}

func TestService_OnboardSurfacesAbandonment(t *testing.T) {
	repo := newStubRepository()
	user, err := repo.CreateUserIfNotExists(context.Background(), "taro@example.com")
	require.NoError(t, err)

	source := &stubProfileSource{err: errors.New("service unavailable")}
	svc := newTestService(repo, source, &stubGenerator{summary: "unused"}, &stubEmbedder{dimension: 3, vector: []float32{1, 2, 3}})

	_, err = svc.Onboard(context.Background(), OnboardingInput{
		UserID:      user.ID,
		LinkedinURL: "https://www.linkedin.com/in/taro",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)

	// ユーザーは未完了のまま
	stored, err := repo.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Onboarded)
}

func TestService_ListConnectionsRequiresUserID(t *testing.T) {
	svc := newTestService(newStubRepository(), &stubProfileSource{}, &stubGenerator{}, &stubEmbedder{dimension: 3})

	_, err := svc.ListConnections(context.Background(), uuid.Nil)
	require.Error(t, err)
}
