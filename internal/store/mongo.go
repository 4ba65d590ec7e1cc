package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nutriderma/nutriderma-ai/internal/model/chat"
)

// MongoStore implements Store on a MongoDB collection of chat documents.
// Appends go through $push so the driver-side update is additive; the full
// document is never rewritten outside the server's atomic boundary.
type MongoStore struct {
	client *mongo.Client
	chats  *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies connectivity and ensures the
// listing indexes exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &MongoStore{
		client: client,
		chats:  client.Database(database).Collection("chats"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.chats.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "chatType", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure chat indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) CreateChat(ctx context.Context, chatType chat.ChatType, title string, owner chat.Owner) (chat.Chat, error) {
	if !chatType.Valid() {
		return chat.Chat{}, ErrInvalidChatType
	}

	now := time.Now().UTC()
	c := chat.Chat{
		ID:        uuid.NewString(),
		Owner:     owner,
		ChatType:  chatType,
		Title:     title,
		Messages:  []chat.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.chats.InsertOne(ctx, c); err != nil {
		return chat.Chat{}, fmt.Errorf("insert chat: %w", err)
	}
	return c, nil
}

func (s *MongoStore) GetChat(ctx context.Context, id string) (chat.Chat, error) {
	var c chat.Chat
	err := s.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return chat.Chat{}, ErrChatNotFound
	}
	if err != nil {
		return chat.Chat{}, fmt.Errorf("find chat: %w", err)
	}
	return c, nil
}

func (s *MongoStore) ListChats(ctx context.Context, filter Filter) ([]chat.Chat, error) {
	query := bson.M{}
	if filter.ChatType != "" {
		query["chatType"] = filter.ChatType
	}
	if ownerID, ok := filter.Owner.UserID(); ok {
		query["userId"] = ownerID
	}

	cursor, err := s.chats.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chats := make([]chat.Chat, 0, 16)
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("decode chats: %w", err)
	}
	return chats, nil
}

func (s *MongoStore) AppendMessages(ctx context.Context, id string, msgs []chat.Message, newTitle string) (chat.Chat, error) {
	now := time.Now().UTC()

	if newTitle != "" {
		// The title only applies when the chat had no messages before this
		// call. A conditional update enforces that server-side, so a racing
		// second first-message cannot steal the title.
		res, err := s.chats.UpdateOne(ctx,
			bson.M{"_id": id, "messages.0": bson.M{"$exists": false}},
			bson.M{
				"$push": bson.M{"messages": bson.M{"$each": msgs}},
				"$set":  bson.M{"title": newTitle, "updatedAt": now},
			},
		)
		if err != nil {
			return chat.Chat{}, fmt.Errorf("append messages: %w", err)
		}
		if res.MatchedCount > 0 {
			return s.GetChat(ctx, id)
		}
		// Pre-state was not empty (or the chat is gone); fall through to a
		// plain append that leaves the title alone.
	}

	res, err := s.chats.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"messages": bson.M{"$each": msgs}},
			"$set":  bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return chat.Chat{}, fmt.Errorf("append messages: %w", err)
	}
	if res.MatchedCount == 0 {
		return chat.Chat{}, ErrChatNotFound
	}
	return s.GetChat(ctx, id)
}

func (s *MongoStore) DeleteChat(ctx context.Context, id string) error {
	res, err := s.chats.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(pingCtx, readpref.Primary())
}

// Close releases the underlying client connections.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
