package services

import (
	"context"
	"testing"

	"hotel-pms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstUserBecomesOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.users.Register(ctx, "Boss@Hotel.io", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, first.Role)
	assert.Equal(t, "boss@hotel.io", first.Email)
	assert.NotEqual(t, "correct-horse", first.PasswordHash)

	second, err := f.users.Register(ctx, "guest@hotel.io", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, second.Role)

	clerk, err := f.users.CreateUser(ctx, UserInput{Email: "clerk@hotel.io", Password: "correct-horse", Role: models.RoleReceptionist})
	require.NoError(t, err)
	assert.Equal(t, models.RoleReceptionist, clerk.Role)

	employees, err := f.users.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1, "owner and guests are not employees")
	assert.Equal(t, clerk.ID, employees[0].ID)
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.users.Register(ctx, "a@hotel.io", "correct-horse")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   UserInput
		want error
	}{
		{name: "duplicate email", in: UserInput{Email: "A@hotel.io", Password: "correct-horse"}, want: ErrDuplicate},
		{name: "short password", in: UserInput{Email: "b@hotel.io", Password: "short"}, want: ErrValidation},
		{name: "missing email", in: UserInput{Password: "correct-horse"}, want: ErrValidation},
		{name: "unknown role", in: UserInput{Email: "c@hotel.io", Password: "correct-horse", Role: "janitor"}, want: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.CreateUser(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, err := f.users.Register(ctx, "a@hotel.io", "correct-horse")
	require.NoError(t, err)

	got, err := f.users.Authenticate(ctx, " A@hotel.io", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.users.Authenticate(ctx, "a@hotel.io", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Authenticate(ctx, "nobody@hotel.io", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = f.users.Authenticate(ctx, "a@hotel.io", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOwnerBootstrapCountsUnderLock(t *testing.T) {
	f := newFixture(t)
	queries := f.recordQueries(t)
	queries.reset()

	_, err := f.users.Register(context.Background(), "boss@hotel.io", "correct-horse")
	require.NoError(t, err)

	got := queries.all()
	require.NotEmpty(t, got)
	assert.Equal(t, queryRecord{Table: "users", Locked: true}, got[0])
}
