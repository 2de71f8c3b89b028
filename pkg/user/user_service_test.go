package user

import (
	"Foodies-Backend/domain"
	"Foodies-Backend/entities"
	"Foodies-Backend/internal/testutil"
	"Foodies-Backend/pkg/jwt"
	"Foodies-Backend/pkg/notification"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo      UserRepository
	service   UserService
	s3        *testutil.FakeS3
	mailer    *testutil.FakeMailer
	publisher *testutil.FakePublisher
	jwt       jwt.JWTService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      NewUserRepository(testutil.NewDB(t)),
		s3:        testutil.NewFakeS3(),
		mailer:    &testutil.FakeMailer{},
		publisher: &testutil.FakePublisher{},
		jwt:       jwt.NewJWTServiceWithSecret("test-secret", time.Hour),
	}
	f.service = NewUserService(f.repo, f.jwt, f.s3, f.mailer, f.publisher)
	return f
}

func (f *fixture) register(t *testing.T, email string) domain.AuthResponse {
	t.Helper()
	res, err := f.service.Register(context.Background(), domain.RegisterRequest{
		Name: "Cook " + email, Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.register(t, "Ann@Example.com ")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.Nil(t, res.User.Avatar)

	stored, err := f.repo.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, res.Token, stored.Token)
	assert.NotEqual(t, "secret1", stored.Password)

	welcome, err := f.mailer.Last("welcome")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", welcome.To)

	_, err = f.service.Register(ctx, domain.RegisterRequest{Name: "x", Email: "ANN@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, domain.ErrEmailInUse)
}

func TestRegister_MailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.mailer.Err = assert.AnError

	res := f.register(t, "bob@example.com")
	assert.NotEmpty(t, res.Token)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered := f.register(t, "ann@example.com")

	res, err := f.service.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, registered.Token, res.Token)

	// the previous token is replaced by the new one
	_, err = f.service.Authenticate(ctx, registered.Token)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
	_, err = f.service.Authenticate(ctx, res.Token)
	assert.NoError(t, err)

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.register(t, "ann@example.com")

	user, err := f.service.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, user.ID.String()))
	_, err = f.service.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestAuthenticate_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// valid signature but the user does not exist
	_, err = f.service.Authenticate(ctx, f.jwt.GenerateTokenUser("7b0c1d1e-55d0-4a8f-9d0c-1f2e3d4c5b6a"))
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	expired := jwt.NewJWTServiceWithSecret("test-secret", -time.Minute)
	_, err = f.service.Authenticate(ctx, expired.GenerateTokenUser("7b0c1d1e-55d0-4a8f-9d0c-1f2e3d4c5b6a"))
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.register(t, "ann@example.com")

	require.NoError(t, f.service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "nobody@example.com"}))
	_, err := f.mailer.Last("reset")
	assert.Error(t, err)

	require.NoError(t, f.service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "ann@example.com"}))
	mail, err := f.mailer.Last("reset")
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.ResetPassword(ctx, domain.ResetPasswordRequest{Token: res.Token, Password: "newpass"}), domain.ErrResetTokenInvalid)
	require.NoError(t, f.service.ResetPassword(ctx, domain.ResetPasswordRequest{Token: mail.Token, Password: "newpass"}))

	_, err = f.service.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "ann@example.com", Password: "newpass"})
	assert.NoError(t, err)
}

func TestFollowAndUnfollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com").User.ID
	b := f.register(t, "b@example.com").User.ID

	assert.ErrorIs(t, f.service.Follow(ctx, a, a), domain.ErrCannotFollowSelf)
	ghost := uuid.NewString()
	assert.ErrorIs(t, f.service.Follow(ctx, ghost, ghost), domain.ErrCannotFollowSelf)
	assert.ErrorIs(t, f.service.Follow(ctx, a, "not-a-uuid"), domain.ErrUserNotFound)
	assert.ErrorIs(t, f.service.Follow(ctx, a, "7b0c1d1e-55d0-4a8f-9d0c-1f2e3d4c5b6a"), domain.ErrUserNotFound)

	require.NoError(t, f.service.Follow(ctx, a, b))
	assert.ErrorIs(t, f.service.Follow(ctx, a, b), domain.ErrAlreadyFollowing)
	assert.Equal(t, []string{notification.EventUserFollowed}, f.publisher.Types())

	me, err := f.service.GetCurrent(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 1, me.FollowingCount)
	other, err := f.service.GetUserByID(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 1, other.FollowersCount)

	following, err := f.service.GetFollowing(ctx, a)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, b, following[0].ID)

	followers, err := f.service.GetFollowers(ctx, b)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "a@example.com", followers[0].Email)

	require.NoError(t, f.service.Unfollow(ctx, a, b))
	// missing edge: no-op, counters stay at zero
	require.NoError(t, f.service.Unfollow(ctx, a, b))

	me, err = f.service.GetCurrent(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 0, me.FollowingCount)
	other, err = f.service.GetUserByID(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 0, other.FollowersCount)

	assert.ErrorIs(t, f.service.Unfollow(ctx, a, a), domain.ErrCannotFollowSelf)
}

func TestGetUserByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GetUserByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = f.service.GetUserByID(context.Background(), "7b0c1d1e-55d0-4a8f-9d0c-1f2e3d4c5b6a")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "ann@example.com").User.ID

	_, err := f.service.UpdateAvatar(ctx, id, domain.UpdateAvatarRequest{})
	assert.ErrorIs(t, err, domain.ErrFileRequired)

	_, err = f.service.UpdateAvatar(ctx, id, domain.UpdateAvatarRequest{
		Avatar: testutil.FileHeader(t, "avatar", "notes.txt", []byte("hello")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFileType)
	assert.Equal(t, 0, f.s3.Count())

	first, err := f.service.UpdateAvatar(ctx, id, domain.UpdateAvatarRequest{
		Avatar: testutil.FileHeader(t, "avatar", "me.png", testutil.PNG),
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", first.Email)
	assert.Contains(t, first.Avatar, "avatars/")

	second, err := f.service.UpdateAvatar(ctx, id, domain.UpdateAvatarRequest{
		Avatar: testutil.FileHeader(t, "avatar", "me2.png", testutil.PNG),
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)
	assert.Equal(t, 1, f.s3.Count())
	assert.Equal(t, []string{f.s3.GetObjectKeyFromLink(first.Avatar)}, f.s3.Deleted)

	me, err := f.service.GetCurrent(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, me.Avatar)
	assert.Equal(t, second.Avatar, *me.Avatar)
}

type failingAvatarRepo struct {
	UserRepository
}

func (failingAvatarRepo) UpdateAvatar(context.Context, string, string) (*entities.User, error) {
	return nil, assert.AnError
}

func TestUpdateAvatar_StoreFailureRemovesUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "ann@example.com").User.ID
	service := NewUserService(failingAvatarRepo{f.repo}, f.jwt, f.s3, f.mailer, f.publisher)

	_, err := service.UpdateAvatar(ctx, id, domain.UpdateAvatarRequest{
		Avatar: testutil.FileHeader(t, "avatar", "me.png", testutil.PNG),
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, f.s3.Count())
	require.Len(t, f.s3.Deleted, 1)
	assert.Contains(t, f.s3.Deleted[0], "avatars/")
}
