package content

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pictora/db"
	"pictora/models"
)

// PostView is a post with its author embedded, the shape list and detail
// endpoints return.
type PostView struct {
	models.Post
	Author models.PublicUser `json:"author"`
}

type CommentView struct {
	models.Comment
	Author models.PublicUser `json:"author"`
}

// PostDetail additionally carries the resolved comment thread.
type PostDetail struct {
	PostView
	CommentThread []CommentView `json:"commentThread"`
}

func loadAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PublicUser, error) {
	authors := map[primitive.ObjectID]models.PublicUser{}
	if len(ids) == 0 {
		return authors, nil
	}

	cursor, err := db.UserCollection.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"password": 0}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.PublicUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		authors[u.ID] = u
	}
	return authors, nil
}

// withAuthors resolves the owning user of every post in one query.
func withAuthors(ctx context.Context, posts []models.Post) ([]PostView, error) {
	ids := make([]primitive.ObjectID, 0, len(posts))
	seen := map[primitive.ObjectID]bool{}
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{Post: p, Author: authors[p.UserID]})
	}
	return views, nil
}

// commentThread loads a post's comments oldest-first with their authors.
func commentThread(ctx context.Context, postID primitive.ObjectID) ([]CommentView, error) {
	cursor, err := db.CommentsCollection.Find(ctx,
		bson.M{"post": postID},
		options.Find().SetSort(bson.M{"createdAt": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(comments))
	seen := map[primitive.ObjectID]bool{}
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	authors, err := loadAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Comment: c, Author: authors[c.UserID]})
	}
	return views, nil
}

func postDetail(ctx context.Context, post models.Post) (PostDetail, error) {
	views, err := withAuthors(ctx, []models.Post{post})
	if err != nil {
		return PostDetail{}, err
	}
	thread, err := commentThread(ctx, post.ID)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{PostView: views[0], CommentThread: thread}, nil
}
