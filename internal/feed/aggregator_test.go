package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The fakes embed the repository interfaces so only the methods the
// aggregator calls need an implementation.

type fakeUserRepo struct {
	repositories.UserRepository
	users map[primitive.ObjectID]models.User
	fail  bool
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

func (f *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakePostRepo struct {
	repositories.PostRepository
	posts []models.Post
	fail  bool
}

func (f *fakePostRepo) GetPostsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID, limit int) ([]models.Post, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	allowed := make(map[primitive.ObjectID]bool, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = true
	}
	var out []models.Post
	for _, p := range f.posts {
		if allowed[p.AuthorID] {
			out = append(out, p)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeActivityRepo struct {
	repositories.ActivityRepository
	activities []models.Activity
	fail       bool
}

func (f *fakeActivityRepo) GetRecent(ctx context.Context, limit int64) ([]models.Activity, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	if int64(len(f.activities)) > limit {
		return f.activities[:limit], nil
	}
	return f.activities, nil
}

type fakeRecordRepo struct {
	repositories.RecordRepository
	records map[primitive.ObjectID]models.Record
}

func (f *fakeRecordRepo) GetRecordsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Record, error) {
	var out []models.Record
	for _, id := range ids {
		if r, ok := f.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type feedFixture struct {
	users      *fakeUserRepo
	posts      *fakePostRepo
	activities *fakeActivityRepo
	records    *fakeRecordRepo
	aggregator *Aggregator

	viewer   models.User
	followed models.User
	stranger models.User
}

func newFeedFixture() *feedFixture {
	f := &feedFixture{
		users:      &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)},
		posts:      &fakePostRepo{},
		activities: &fakeActivityRepo{},
		records:    &fakeRecordRepo{records: make(map[primitive.ObjectID]models.Record)},
	}
	f.aggregator = NewAggregator(f.posts, f.activities, f.users, f.records, testLogger())

	f.followed = models.User{ID: primitive.NewObjectID(), Username: "crate_digger"}
	f.stranger = models.User{ID: primitive.NewObjectID(), Username: "stranger"}
	f.viewer = models.User{
		ID:        primitive.NewObjectID(),
		Username:  "viewer",
		Following: []primitive.ObjectID{f.followed.ID},
	}
	for _, u := range []models.User{f.viewer, f.followed, f.stranger} {
		f.users.users[u.ID] = u
	}
	return f
}

func (f *feedFixture) addPost(author primitive.ObjectID, content string, at time.Time) models.Post {
	p := models.Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  author,
		Content:   content,
		CreatedAt: at,
	}
	f.posts.posts = append(f.posts.posts, p)
	return p
}

func (f *feedFixture) addRecord(owner primitive.ObjectID, title, artist string) models.Record {
	r := models.Record{ID: primitive.NewObjectID(), OwnerID: owner, Title: title, Artist: artist}
	f.records.records[r.ID] = r
	return r
}

func (f *feedFixture) addActivity(actor primitive.ObjectID, kind models.ActivityKind, recordID *primitive.ObjectID, at time.Time) {
	f.activities.activities = append(f.activities.activities, models.Activity{
		ID:        primitive.NewObjectID(),
		ActorID:   actor,
		Kind:      kind,
		RecordID:  recordID,
		CreatedAt: at,
	})
}

func TestGetFeedOrdersNewestFirst(t *testing.T) {
	f := newFeedFixture()
	base := time.Now()

	f.addPost(f.followed.ID, "old post", base.Add(-3*time.Hour))
	f.addPost(f.viewer.ID, "new post", base.Add(-1*time.Hour))
	rec := f.addRecord(f.followed.ID, "Kind of Blue", "Miles Davis")
	f.addActivity(f.followed.ID, models.ActivityAddRecord, &rec.ID, base.Add(-2*time.Hour))

	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "new post", items[0].Content)
	assert.Equal(t, ItemActivity, items[1].Kind)
	assert.Equal(t, "added Kind of Blue by Miles Davis to their collection", items[1].Content)
	assert.Equal(t, "old post", items[2].Content)
}

func TestGetFeedPostsScopedToFollowing(t *testing.T) {
	f := newFeedFixture()
	now := time.Now()

	f.addPost(f.followed.ID, "followed post", now)
	f.addPost(f.stranger.ID, "stranger post", now)

	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "followed post", items[0].Content)
}

func TestGetFeedActivitiesAreGlobal(t *testing.T) {
	f := newFeedFixture()
	rec := f.addRecord(f.stranger.ID, "Unknown Pleasures", "Joy Division")
	f.addActivity(f.stranger.ID, models.ActivityPlayRecord, &rec.ID, time.Now())

	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "stranger", items[0].Author.Username)
	assert.Equal(t, "played Unknown Pleasures by Joy Division", items[0].Content)
}

func TestGetFeedPostWinsTimestampTie(t *testing.T) {
	f := newFeedFixture()
	at := time.Now()

	rec := f.addRecord(f.followed.ID, "Blue Train", "John Coltrane")
	f.addActivity(f.followed.ID, models.ActivityAddRecord, &rec.ID, at)
	f.addPost(f.followed.ID, "tied post", at)

	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ItemPost, items[0].Kind)
	assert.Equal(t, ItemActivity, items[1].Kind)
}

func TestGetFeedDropsActivitiesWithDeletedReferences(t *testing.T) {
	f := newFeedFixture()
	deletedRecordID := primitive.NewObjectID()
	f.addActivity(f.followed.ID, models.ActivityLikeRecord, &deletedRecordID, time.Now())

	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetFeedExcludesLoginLogout(t *testing.T) {
	f := newFeedFixture()
	f.addActivity(f.followed.ID, models.ActivityLogin, nil, time.Now())
	f.addActivity(f.followed.ID, models.ActivityLogout, nil, time.Now())
	f.addActivity(f.followed.ID, models.ActivitySignup, nil, time.Now())

	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "joined the community", items[0].Content)
}

func TestGetFeedToleratesSourceFailure(t *testing.T) {
	f := newFeedFixture()
	f.addPost(f.followed.ID, "still here", time.Now())
	f.activities.fail = true

	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "still here", items[0].Content)
}

func TestGetFeedPagination(t *testing.T) {
	f := newFeedFixture()
	base := time.Now()
	for i := 0; i < 5; i++ {
		f.addPost(f.viewer.ID, "post", base.Add(time.Duration(-i)*time.Minute))
	}

	page1, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page3, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	empty, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 4, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetFeedClampsPageBounds(t *testing.T) {
	f := newFeedFixture()
	base := time.Now()
	for i := 0; i < 3; i++ {
		f.addPost(f.viewer.ID, "post", base.Add(time.Duration(-i)*time.Minute))
	}

	// page below 1 is treated as the first page
	items, err := f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), -3, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// nonpositive page size yields an empty page, not a panic
	items, err = f.aggregator.GetFeed(context.Background(), f.viewer.ID.Hex(), 1, -1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetFeedUnknownViewer(t *testing.T) {
	f := newFeedFixture()

	_, err := f.aggregator.GetFeed(context.Background(), primitive.NewObjectID().Hex(), 1, 10)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
