package dataaccess

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/invoicer/pkg/custom"
	"github.com/Jacobbrewer1/invoicer/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/invoicer/pkg/entities"
	"github.com/Jacobbrewer1/invoicer/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoStoreName = "mongo_store"

	// DefaultMongoDatabase is the database used when none is configured.
	DefaultMongoDatabase = "invoicer"

	guildConfigCollection = "guild_configs"

	// guildConfigDocumentID is the ID of the single document holding every guild.
	guildConfigDocumentID = "guilds"
)

// guildConfigDocument is the stored shape of the guild configuration document.
type guildConfigDocument struct {
	ID        string                          `bson:"_id"`
	Guilds    map[string]entities.GuildConfig `bson:"guilds"`
	UpdatedAt custom.Datetime                 `bson:"updated_at"`
}

// MongoStore keeps the guild configuration document in MongoDB.
type MongoStore struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client

	// database is the name of the database holding the collection.
	database string
}

// NewMongoStore creates a new mongo store.
func NewMongoStore(l *slog.Logger, client *mongo.Client, database string) *MongoStore {
	l = l.With(slog.String(logging.KeyDal, mongoStoreName))

	if client == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	return &MongoStore{
		l:        l,
		client:   client,
		database: database,
	}
}

func (m *MongoStore) collection() *mongo.Collection {
	return m.client.Database(m.database).Collection(guildConfigCollection)
}

// Load reads the document. A missing document is returned as mongo.ErrNoDocuments.
func (m *MongoStore) Load(ctx context.Context) (map[string]entities.GuildConfig, error) {
	monitoring.MongoTotalRequests.WithLabelValues(mongoStoreName, "load_guild_configs", m.database, guildConfigCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(mongoStoreName, "load_guild_configs", m.database, guildConfigCollection))
	defer t.ObserveDuration()

	doc := new(guildConfigDocument)
	if err := m.collection().FindOne(ctx, bson.M{"_id": guildConfigDocumentID}).Decode(doc); err != nil {
		return nil, fmt.Errorf("error getting guild configuration: %w", err)
	}
	if doc.Guilds == nil {
		doc.Guilds = make(map[string]entities.GuildConfig)
	}
	return doc.Guilds, nil
}

// Save replaces the document.
func (m *MongoStore) Save(ctx context.Context, guilds map[string]entities.GuildConfig) error {
	monitoring.MongoTotalRequests.WithLabelValues(mongoStoreName, "save_guild_configs", m.database, guildConfigCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(mongoStoreName, "save_guild_configs", m.database, guildConfigCollection))
	defer t.ObserveDuration()

	if guilds == nil {
		guilds = map[string]entities.GuildConfig{}
	}

	doc := &guildConfigDocument{
		ID:        guildConfigDocumentID,
		Guilds:    guilds,
		UpdatedAt: custom.Datetime(time.Now().UTC()),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection().ReplaceOne(ctx, bson.M{"_id": guildConfigDocumentID}, doc, opts); err != nil {
		return fmt.Errorf("error saving guild configuration: %w", err)
	}
	return nil
}

// Ping checks the connection to MongoDB.
func (m *MongoStore) Ping(ctx context.Context) error {
	monitoring.MongoTotalRequests.WithLabelValues("health_check", "ping", "-", "-").Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues("health_check", "ping", "-", "-"))
	defer t.ObserveDuration()

	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}
