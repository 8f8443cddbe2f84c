package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSRFTokenIssueAndVerify(t *testing.T) {
	m := NewCSRFManager("csrf-secret")
	sess := &Session{ID: "abc123"}
	ctx := context.Background()

	token, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := m.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, token, again)

	require.NoError(t, m.VerifyToken(ctx, sess, token))
	require.ErrorIs(t, m.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, m.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
}

func TestCSRFTokenMissingSession(t *testing.T) {
	m := NewCSRFManager("csrf-secret")
	require.ErrorIs(t, m.VerifyToken(context.Background(), nil, "anything"), ErrCSRFTokenMissing)

	empty := &Session{ID: "no-token-yet"}
	require.ErrorIs(t, m.VerifyToken(context.Background(), empty, "anything"), ErrCSRFTokenMissing)
}
