package auth

import (
	"testing"
	"time"

	"maidmatch_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", "user-1", models.UserRoleRequester, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.UserRoleRequester, claims.Role)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken("secret", "user-1", models.UserRoleProvider, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("secret", "user-1", models.UserRoleProvider, -time.Minute)
	require.NoError(t, err)
	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "user-1",
		Role:   "superuser",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", valid},
		{"expired", "secret", expired},
		{"garbage", "secret", "not-a-token"},
		{"unknown role", "secret", badRole},
		{"missing secret", "", valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(models.UserRoleRequester, PermJobsCreate))
	assert.False(t, HasPermission(models.UserRoleProvider, PermJobsCreate))
	assert.True(t, HasPermission(models.UserRoleProvider, PermApplicationsCreate))
	assert.True(t, HasPermission(models.UserRoleAdmin, PermIdentitiesWrite))
	assert.False(t, HasPermission(models.UserRoleRequester, PermIdentitiesWrite))
	assert.False(t, HasPermission(models.UserRoleSystem, PermJobsManage))
}
