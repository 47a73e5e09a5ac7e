package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Success(t *testing.T) {
	db := setupDB(t)
	u, err := CreateUser(db, CreateUserInput{
		Fullname: "New Operator",
		Email:    "new@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)

	// The stored hash verifies through the login path
	logged, err := LoginUser(db, LoginInput{Email: "new@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, logged.UserID)
}

func TestCreateUser_Validation(t *testing.T) {
	db := setupDB(t)

	_, err := CreateUser(db, CreateUserInput{Email: "a@b.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUserFieldsRequired)

	_, err = CreateUser(db, CreateUserInput{Fullname: "A", Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = CreateUser(db, CreateUserInput{Fullname: "A", Email: "a@b.com", Password: "x", Role: "superuser"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	_, err := CreateUser(db, CreateUserInput{Fullname: "A", Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	_, err = CreateUser(db, CreateUserInput{Fullname: "B", Email: "a@b.com", Password: "y"})
	assert.ErrorIs(t, err, ErrUserExists)
}
