// Package feed merges follow-scoped posts and global activities into one
// reverse-chronological stream.
package feed

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spinshelf/backend/internal/models"
	"github.com/spinshelf/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sourceCap bounds how many posts/activities are pulled per source before
// merging, so one page render never drags the full history in.
const sourceCap = 50

// ItemKind distinguishes the two underlying shapes of a feed item.
type ItemKind string

const (
	ItemPost     ItemKind = "post"
	ItemActivity ItemKind = "activity"
)

// Item is the normalized, non-persisted merge unit rendered in the feed.
type Item struct {
	Kind          ItemKind            `json:"kind"`
	Author        models.UserCompact  `json:"author"`
	Content       string              `json:"content"`
	ImageURL      string              `json:"image_url,omitempty"`
	RecordID      *primitive.ObjectID `json:"record_id,omitempty"`
	PostID        *primitive.ObjectID `json:"post_id,omitempty"`
	LikesCount    int                 `json:"likes_count,omitempty"`
	CommentsCount int                 `json:"comments_count,omitempty"`
	CreatedAt     int64               `json:"created_at"`

	createdAt int64 // unix nanos, merge key
}

// Aggregator produces the unified feed for a viewer. Posts are scoped to the
// viewer's following set plus themselves; activities are global. The
// asymmetry is deliberate and preserved from the original behavior.
type Aggregator struct {
	posts      repositories.PostRepository
	activities repositories.ActivityRepository
	users      repositories.UserRepository
	records    repositories.RecordRepository
	log        *logrus.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(
	posts repositories.PostRepository,
	activities repositories.ActivityRepository,
	users repositories.UserRepository,
	records repositories.RecordRepository,
	log *logrus.Logger,
) *Aggregator {
	return &Aggregator{posts: posts, activities: activities, users: users, records: records, log: log}
}

// GetFeed returns one page of the viewer's merged feed. A failure in one
// sub-source is logged and tolerated: the merge renders whatever loaded.
func (a *Aggregator) GetFeed(ctx context.Context, viewerID string, page, pageSize int) ([]Item, error) {
	viewer, err := a.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	scope := append([]primitive.ObjectID{viewer.ID}, viewer.Following...)

	posts, err := a.posts.GetPostsByAuthors(ctx, scope, sourceCap)
	if err != nil {
		a.log.WithError(err).Warn("feed: posts source failed, merging without it")
		posts = nil
	}

	activities, err := a.activities.GetRecent(ctx, sourceCap)
	if err != nil {
		a.log.WithError(err).Warn("feed: activities source failed, merging without it")
		activities = nil
	}

	items := a.normalize(ctx, posts, activities)

	// Posts arrive before activities, and the sort is stable, so equal
	// timestamps keep posts ranked first. That is the documented tie-break:
	// the store gives no finer-grained ordering key.
	stableSortByCreatedAtDesc(items)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []Item{}, nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Item{}, nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

// normalize converts both source shapes into Items, resolving authors and
// referenced entities in bulk. Activities whose referenced record or user
// has been deleted are dropped rather than rendered with holes.
func (a *Aggregator) normalize(ctx context.Context, posts []models.Post, activities []models.Activity) []Item {
	userIDs := make(map[primitive.ObjectID]bool)
	recordIDs := make(map[primitive.ObjectID]bool)
	for i := range posts {
		userIDs[posts[i].AuthorID] = true
	}
	for i := range activities {
		userIDs[activities[i].ActorID] = true
		if activities[i].TargetUserID != nil {
			userIDs[*activities[i].TargetUserID] = true
		}
		if activities[i].RecordID != nil {
			recordIDs[*activities[i].RecordID] = true
		}
	}

	userMap := a.resolveUsers(ctx, userIDs)
	recordMap := a.resolveRecords(ctx, recordIDs)

	items := make([]Item, 0, len(posts)+len(activities))
	for i := range posts {
		p := &posts[i]
		author, ok := userMap[p.AuthorID]
		if !ok {
			continue
		}
		items = append(items, Item{
			Kind:          ItemPost,
			Author:        author,
			Content:       p.Content,
			ImageURL:      p.ImageURL,
			RecordID:      p.RecordID,
			PostID:        &p.ID,
			LikesCount:    len(p.Likes),
			CommentsCount: p.CommentsCount,
			CreatedAt:     p.CreatedAt.Unix(),
			createdAt:     p.CreatedAt.UnixNano(),
		})
	}
	for i := range activities {
		act := &activities[i]
		actor, ok := userMap[act.ActorID]
		if !ok {
			continue
		}
		desc, ok := describe(act, userMap, recordMap)
		if !ok {
			continue
		}
		item := Item{
			Kind:      ItemActivity,
			Author:    actor,
			Content:   desc,
			RecordID:  act.RecordID,
			CreatedAt: act.CreatedAt.Unix(),
			createdAt: act.CreatedAt.UnixNano(),
		}
		if act.RecordID != nil {
			item.ImageURL = recordMap[*act.RecordID].ImageURL
		}
		items = append(items, item)
	}
	return items
}

func (a *Aggregator) resolveUsers(ctx context.Context, ids map[primitive.ObjectID]bool) map[primitive.ObjectID]models.UserCompact {
	m := make(map[primitive.ObjectID]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return m
	}
	list := make([]primitive.ObjectID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	users, err := a.users.GetUsersByIDs(ctx, list)
	if err != nil {
		a.log.WithError(err).Warn("feed: user resolution failed")
		return m
	}
	for i := range users {
		m[users[i].ID] = users[i].ToCompact()
	}
	return m
}

func (a *Aggregator) resolveRecords(ctx context.Context, ids map[primitive.ObjectID]bool) map[primitive.ObjectID]models.Record {
	m := make(map[primitive.ObjectID]models.Record, len(ids))
	if len(ids) == 0 {
		return m
	}
	list := make([]primitive.ObjectID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	records, err := a.records.GetRecordsByIDs(ctx, list)
	if err != nil {
		a.log.WithError(err).Warn("feed: record resolution failed")
		return m
	}
	for i := range records {
		m[records[i].ID] = records[i]
	}
	return m
}

// describe renders the human-readable line for an activity. Returns false
// when a referenced entity no longer exists and the activity must be
// dropped from the feed.
func describe(act *models.Activity, users map[primitive.ObjectID]models.UserCompact, records map[primitive.ObjectID]models.Record) (string, bool) {
	switch act.Kind {
	case models.ActivityAddRecord, models.ActivityPlayRecord, models.ActivityLikeRecord:
		rec, ok := records[*act.RecordID]
		if !ok {
			return "", false
		}
		switch act.Kind {
		case models.ActivityAddRecord:
			return "added " + rec.Title + " by " + rec.Artist + " to their collection", true
		case models.ActivityPlayRecord:
			return "played " + rec.Title + " by " + rec.Artist, true
		default:
			return "liked " + rec.Title + " by " + rec.Artist, true
		}
	case models.ActivityFollowUser:
		target, ok := users[*act.TargetUserID]
		if !ok {
			return "", false
		}
		return "started following " + target.Username, true
	case models.ActivityComment:
		if what := act.Details["target"]; what != "" {
			return "commented on " + what, true
		}
		return "left a comment", true
	case models.ActivitySignup:
		return "joined the community", true
	case models.ActivityUpdateProfilePicture:
		return "updated their profile picture", true
	case models.ActivityUpdateLocation:
		if loc := act.Details["location"]; loc != "" {
			return "is now digging in " + loc, true
		}
		return "updated their location", true
	default:
		// login/logout stay in the log but are too noisy for the feed
		return "", false
	}
}

func stableSortByCreatedAtDesc(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].createdAt > items[j].createdAt
	})
}
