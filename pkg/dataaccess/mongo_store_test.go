package dataaccess

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/guildconfig"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const guildConfigNamespace = DefaultMongoDatabase + "." + guildConfigCollection

func TestMongoStore_Load(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, guildConfigNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: guildConfigDocumentID},
			{Key: "guilds", Value: bson.D{
				{Key: "123", Value: bson.D{
					{Key: "staff_role", Value: "1"},
					{Key: "ticket_category", Value: "2"},
					{Key: "invoice_channel", Value: "4"},
					{Key: "auto_check", Value: true},
				}},
			}},
			{Key: "updated_at", Value: "2024-01-01T00:00:00Z"},
		}))

		got, err := NewMongoStore(slog.Default(), mt.Client, "").Load(context.Background())
		require.NoError(mt, err)
		require.Equal(mt, map[string]entities.GuildConfig{
			"123": {StaffRoleID: "1", TicketCategoryID: "2", InvoiceChannelID: "4", AutoCheck: true},
		}, got)

		evt := mt.GetStartedEvent()
		require.Equal(mt, "find", evt.CommandName)
		require.Equal(mt, guildConfigCollection, evt.Command.Lookup("find").StringValue())
		require.Equal(mt, guildConfigDocumentID, evt.Command.Lookup("filter", "_id").StringValue())
	})

	mt.Run("empty guilds", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, guildConfigNamespace, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: guildConfigDocumentID},
		}))

		got, err := NewMongoStore(slog.Default(), mt.Client, "").Load(context.Background())
		require.NoError(mt, err)
		require.NotNil(mt, got)
		require.Empty(mt, got)
	})

	mt.Run("no document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, guildConfigNamespace, mtest.FirstBatch))

		_, err := NewMongoStore(slog.Default(), mt.Client, "").Load(context.Background())
		require.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("store starts empty without a document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, guildConfigNamespace, mtest.FirstBatch))

		s := guildconfig.NewStore(slog.Default(), NewMongoStore(slog.Default(), mt.Client, ""))
		require.NoError(mt, s.LoadAll(context.Background()))
		require.Zero(mt, s.Len())
	})
}

func TestMongoStore_Save(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{
				{Key: "index", Value: 0},
				{Key: "_id", Value: guildConfigDocumentID},
			}}},
		))

		err := NewMongoStore(slog.Default(), mt.Client, "").Save(context.Background(), map[string]entities.GuildConfig{
			"123": {StaffRoleID: "1", TranscriptChannelID: "3"},
		})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.Equal(mt, "update", evt.CommandName)
		require.Equal(mt, guildConfigCollection, evt.Command.Lookup("update").StringValue())

		update := evt.Command.Lookup("updates", "0")
		require.True(mt, update.Document().Lookup("upsert").Boolean())
		require.Equal(mt, guildConfigDocumentID, update.Document().Lookup("q", "_id").StringValue())

		doc := update.Document().Lookup("u").Document()
		require.Equal(mt, guildConfigDocumentID, doc.Lookup("_id").StringValue())
		require.Equal(mt, "1", doc.Lookup("guilds", "123", "staff_role").StringValue())
		require.Equal(mt, "3", doc.Lookup("guilds", "123", "transcript_channel").StringValue())
		require.NotEmpty(mt, doc.Lookup("updated_at").StringValue())
	})

	mt.Run("nil map", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, NewMongoStore(slog.Default(), mt.Client, "").Save(context.Background(), nil))

		doc := mt.GetStartedEvent().Command.Lookup("updates", "0", "u").Document()
		require.Equal(mt, bson.TypeEmbeddedDocument, doc.Lookup("guilds").Type)
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "duplicate key",
			Name:    "DuplicateKey",
		}))

		err := NewMongoStore(slog.Default(), mt.Client, "").Save(context.Background(), map[string]entities.GuildConfig{})
		require.ErrorContains(mt, err, "error saving guild configuration")
	})
}
