package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func mongoStore(mt *mtest.T) *MongoStore {
	return &MongoStore{client: mt.Client, coll: mt.Coll}
}

func entryDoc(e Entry) bson.D {
	return bson.D{
		{Key: "record_id", Value: e.RecordID},
		{Key: "generated_at", Value: e.GeneratedAt},
		{Key: "path", Value: e.Path},
		{Key: "theme", Value: e.Theme},
		{Key: "width", Value: e.Width},
		{Key: "height", Value: e.Height},
	}
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	t0 := time.Date(2025, 2, 17, 9, 30, 0, 0, time.UTC)
	e := Entry{RecordID: 42, GeneratedAt: t0, Path: "cards/42_20250217_093000.png", Theme: "anime", Width: 900, Height: 1180}
	ns := mtest.TestDb + ".cards"

	mt.Run("indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		if err := mongoStore(mt).ensureIndexes(ctx); err != nil {
			mt.Fatalf("ensureIndexes: %v", err)
		}
		ev := mt.GetStartedEvent()
		if ev == nil || ev.CommandName != "createIndexes" {
			mt.Fatalf("started event = %+v, want createIndexes", ev)
		}
	})

	mt.Run("save truncates to seconds", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		in := e
		in.GeneratedAt = t0.Add(750 * time.Millisecond)
		if err := mongoStore(mt).Save(ctx, in); err != nil {
			mt.Fatalf("Save: %v", err)
		}
		doc := mt.GetStartedEvent().Command.Lookup("documents").Array().Index(0).Value().Document()
		if got := doc.Lookup("generated_at").Time().UTC(); !got.Equal(t0) {
			mt.Errorf("stored generated_at = %v, want %v", got, t0)
		}
	})

	mt.Run("duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))
		if err := mongoStore(mt).Save(ctx, e); !errors.Is(err, ErrExists) {
			mt.Errorf("Save err = %v, want ErrExists", err)
		}
	})

	mt.Run("get", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, entryDoc(e)))
		got, err := mongoStore(mt).Get(ctx, 42, t0)
		if err != nil {
			mt.Fatalf("Get: %v", err)
		}
		if got.Path != e.Path || got.Theme != "anime" || got.Width != 900 || !got.GeneratedAt.Equal(t0) {
			mt.Errorf("Get = %+v", got)
		}
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		if _, err := mongoStore(mt).Get(ctx, 7, t0); !errors.Is(err, ErrNotFound) {
			mt.Errorf("Get err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		newer := e
		newer.GeneratedAt = t0.Add(time.Hour)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, entryDoc(newer)),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, entryDoc(e)),
		)
		got, err := mongoStore(mt).List(ctx, 42)
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if len(got) != 2 || !got[0].GeneratedAt.Equal(newer.GeneratedAt) || !got[1].GeneratedAt.Equal(t0) {
			mt.Errorf("List = %+v", got)
		}
	})
}

func TestNewMongoStoreRequiresURIAndDatabase(t *testing.T) {
	for _, cfg := range []MongoConfig{{}, {URI: "mongodb://localhost:27017"}, {Database: "workcard"}} {
		if _, err := NewMongoStore(context.Background(), cfg); err == nil {
			t.Errorf("NewMongoStore(%+v) succeeded", cfg)
		}
	}
}
