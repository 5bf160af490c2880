package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	repositories.UserRepository
	users map[primitive.ObjectID]models.User
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	u, ok := f.users[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func adminContext(user *models.User, issuedAt time.Time) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user", &models.JwtCustomClaims{
		UserID:  user.ID.Hex(),
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	})
	return c
}

func runGate(repo *fakeUserRepo, c echo.Context) error {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return AdminMiddleware(repo)(next)(c)
}

func TestAdminMiddlewarePassesAdmin(t *testing.T) {
	admin := models.User{ID: primitive.NewObjectID(), IsAdmin: true}
	repo := &fakeUserRepo{users: map[primitive.ObjectID]models.User{admin.ID: admin}}

	err := runGate(repo, adminContext(&admin, time.Now()))
	assert.NoError(t, err)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID()}
	repo := &fakeUserRepo{users: map[primitive.ObjectID]models.User{user.ID: user}}

	err := runGate(repo, adminContext(&user, time.Now()))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

// The admin flag is read from the store, not the token: a forged or stale
// IsAdmin claim does not pass the gate.
func TestAdminMiddlewareIgnoresTokenAdminClaim(t *testing.T) {
	user := models.User{ID: primitive.NewObjectID(), IsAdmin: false}
	repo := &fakeUserRepo{users: map[primitive.ObjectID]models.User{user.ID: user}}

	c := adminContext(&user, time.Now())
	c.Set("user", &models.JwtCustomClaims{
		UserID:  user.ID.Hex(),
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})

	err := runGate(repo, c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAdminMiddlewareRejectsLockedAdmin(t *testing.T) {
	admin := models.User{ID: primitive.NewObjectID(), IsAdmin: true, Locked: true}
	repo := &fakeUserRepo{users: map[primitive.ObjectID]models.User{admin.ID: admin}}

	err := runGate(repo, adminContext(&admin, time.Now()))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAdminMiddlewareRejectsStaleSession(t *testing.T) {
	admin := models.User{
		ID:                primitive.NewObjectID(),
		IsAdmin:           true,
		PasswordChangedAt: time.Now(),
	}
	repo := &fakeUserRepo{users: map[primitive.ObjectID]models.User{admin.ID: admin}}

	// token issued an hour before the password change
	err := runGate(repo, adminContext(&admin, time.Now().Add(-time.Hour)))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAdminMiddlewareRejectsUnknownUser(t *testing.T) {
	ghost := models.User{ID: primitive.NewObjectID(), IsAdmin: true}
	repo := &fakeUserRepo{users: map[primitive.ObjectID]models.User{}}

	err := runGate(repo, adminContext(&ghost, time.Now()))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
