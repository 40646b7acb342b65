package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matte1240/app-mezzi/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	user := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := NewParser("test-secret").Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, model.RoleAdmin, principal.Role)
	assert.True(t, principal.IsAdmin())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(&model.User{ID: uuid.New(), Role: model.RoleEmployee})
	require.NoError(t, err)

	_, err = NewParser("other-secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue(&model.User{ID: uuid.New(), Role: model.RoleEmployee})
	require.NoError(t, err)

	_, err = NewParser("test-secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewParser("test-secret").Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword("password123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
