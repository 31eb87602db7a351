//go:build unit

package user_test

import (
	"testing"

	"easyrent/internal/domain/user"
	"easyrent/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("test@example.com")
		expected, err := user.NewUser(email, "hashed_password", user.RoleCustomer, nil)
		require.NoError(t, err)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Nil(t, actual.LastLogin())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "valid email", mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") }},
			{name: "empty email", mutate: func(b *builder.UserBuilder) { b.WithEmail("") }, errIs: user.ErrInvalidEmail},
			{name: "malformed email", mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") }, errIs: user.ErrInvalidEmail},
			{name: "missing at sign", mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") }, errIs: user.ErrInvalidEmail},
		})
	})

	t.Run("role validation", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "customer", mutate: func(b *builder.UserBuilder) { b.WithRole("customer") }},
			{name: "driver", mutate: func(b *builder.UserBuilder) { b.WithRole("driver") }},
			{name: "admin", mutate: func(b *builder.UserBuilder) { b.WithRole("admin") }},
			{
				name: "agency with agency id",
				mutate: func(b *builder.UserBuilder) {
					id := uuid.New()
					b.WithRole("agency").WithAgencyID(&id)
				},
			},
			{name: "agency without agency id", mutate: func(b *builder.UserBuilder) { b.WithRole("agency") }, errIs: user.ErrAgencyRequired},
			{name: "unknown role", mutate: func(b *builder.UserBuilder) { b.WithRole("viewer") }, errIs: user.ErrInvalidRole},
			{name: "empty role", mutate: func(b *builder.UserBuilder) { b.WithRole("") }, errIs: user.ErrInvalidRole},
		})
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
