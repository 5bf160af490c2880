package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spinshelf/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (f *fakeUserRepo) SetTop8(ctx context.Context, id string, recordIDs []primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	u, ok := f.users[oid]
	if !ok {
		return models.ErrNotFound
	}
	u.Top8 = recordIDs
	return nil
}

// top8Request builds an authenticated PUT /users/me/top8 context carrying
// the given record ids.
func top8Request(t *testing.T, as *models.User, recordIDs []primitive.ObjectID) echo.Context {
	t.Helper()
	hexIDs := make([]string, len(recordIDs))
	for i, id := range recordIDs {
		hexIDs[i] = id.Hex()
	}
	body, err := json.Marshal(models.SetTop8Request{RecordIDs: hexIDs})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &models.JwtCustomClaims{UserID: as.ID.Hex(), IsAdmin: as.IsAdmin})
	return c
}

func newTop8Fixture() (*socialFixture, *UserHandler) {
	f := newSocialFixture()
	h := NewUserHandler(f.users, f.records, f.activities, nil)
	return f, h
}

func TestSetTop8StoresEightRecords(t *testing.T) {
	f, h := newTop8Fixture()
	ids := make([]primitive.ObjectID, models.MaxTop8Records)
	for i := range ids {
		ids[i] = f.addRecord(f.owner.ID, "Album", "Artist").ID
	}

	c := top8Request(t, f.owner, ids)
	require.NoError(t, h.SetTop8(c))

	assert.Equal(t, ids, f.users.users[f.owner.ID].Top8)
}

func TestSetTop8RejectsNineRecords(t *testing.T) {
	f, h := newTop8Fixture()
	ids := make([]primitive.ObjectID, models.MaxTop8Records+1)
	for i := range ids {
		ids[i] = f.addRecord(f.owner.ID, "Album", "Artist").ID
	}

	c := top8Request(t, f.owner, ids)
	err := h.SetTop8(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Empty(t, f.users.users[f.owner.ID].Top8)
}

func TestSetTop8RejectsForeignRecord(t *testing.T) {
	f, h := newTop8Fixture()
	foreign := f.addRecord(f.liker.ID, "Not Yours", "Artist")

	c := top8Request(t, f.owner, []primitive.ObjectID{foreign.ID})
	err := h.SetTop8(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}
