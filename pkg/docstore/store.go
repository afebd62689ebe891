package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/go-redis/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/tendant/user-role-service/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Collection.FindByID when no document has the given id
var ErrNotFound = errors.New("document not found")

// Collection is a set of JSON-shaped documents of type T keyed by a string id.
// Every call is a single round trip to the backend; writes are atomic per document.
type Collection[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (T, error)
	// Save inserts or replaces the document stored under id
	Save(ctx context.Context, id string, doc T) error
	// DeleteByID removes the document; deleting a missing id is not an error
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

var collectionName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Store is an opened document store backend
type Store struct {
	persistence string

	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	redisPrefix string
	sqlDB       *sqlx.DB
	dataDir     string

	mu          sync.Mutex
	collections map[string]any
}

// Open connects to the backend selected by cfg.Persistence
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	s := &Store{
		persistence: cfg.Persistence,
		collections: make(map[string]any),
	}

	switch cfg.Persistence {
	case config.PersistenceMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		s.mongoClient = client
		s.mongoDB = client.Database(cfg.MongoDatabase)
	case config.PersistencePostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.ToDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		s.pgPool = pool
	case config.PersistenceRedis:
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		s.redisPrefix = cfg.RedisPrefix
	case config.PersistenceSQLite:
		db, err := openSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.sqlDB = db
	case config.PersistenceFile:
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("dataDir required for file store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s.dataDir = cfg.DataDir
	case config.PersistenceMemory:
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: mongo, postgres, redis, sqlite, file, memory)", cfg.Persistence)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		s.Close(ctx)
		return nil, fmt.Errorf("%s store is not reachable: %w", s.persistence, err)
	}

	slog.Info("Document store opened", "persistence", s.persistence)
	return s, nil
}

// NewMemoryStore returns a process-local store, mostly useful for tests and demos
func NewMemoryStore() *Store {
	return &Store{
		persistence: config.PersistenceMemory,
		collections: make(map[string]any),
	}
}

// Persistence reports which backend the store uses
func (s *Store) Persistence() string {
	return s.persistence
}

// Ping checks that the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	switch s.persistence {
	case config.PersistenceMongo:
		return s.mongoClient.Ping(ctx, readpref.Primary())
	case config.PersistencePostgres:
		return s.pgPool.Ping(ctx)
	case config.PersistenceRedis:
		return s.redisClient.WithContext(ctx).Ping().Err()
	case config.PersistenceSQLite:
		return s.sqlDB.PingContext(ctx)
	case config.PersistenceFile:
		_, err := os.Stat(s.dataDir)
		return err
	default:
		return nil
	}
}

// Close releases the backend connection
func (s *Store) Close(ctx context.Context) error {
	switch s.persistence {
	case config.PersistenceMongo:
		if s.mongoClient != nil {
			return s.mongoClient.Disconnect(ctx)
		}
	case config.PersistencePostgres:
		if s.pgPool != nil {
			s.pgPool.Close()
		}
	case config.PersistenceRedis:
		if s.redisClient != nil {
			return s.redisClient.Close()
		}
	case config.PersistenceSQLite:
		if s.sqlDB != nil {
			return s.sqlDB.Close()
		}
	}
	return nil
}

// NewCollection opens the named collection for documents of type T. Opening the same
// name twice returns the same collection, so every caller shares one view of it.
func NewCollection[T any](ctx context.Context, s *Store, name string) (Collection[T], error) {
	if !collectionName.MatchString(name) {
		return nil, fmt.Errorf("invalid collection name: %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.collections[name]; ok {
		c, ok := existing.(Collection[T])
		if !ok {
			return nil, fmt.Errorf("collection %s already opened with a different document type", name)
		}
		return c, nil
	}

	var (
		c   Collection[T]
		err error
	)
	switch s.persistence {
	case config.PersistenceMongo:
		c = newMongoCollection[T](s.mongoDB.Collection(name))
	case config.PersistencePostgres:
		c, err = newPostgresCollection[T](ctx, s.pgPool, name)
	case config.PersistenceRedis:
		c = newRedisCollection[T](s.redisClient, s.redisPrefix, name)
	case config.PersistenceSQLite:
		c, err = newSQLiteCollection[T](ctx, s.sqlDB, name)
	case config.PersistenceFile:
		c, err = newFileCollection[T](s.dataDir, name)
	case config.PersistenceMemory:
		c = newMemoryCollection[T]()
	default:
		err = fmt.Errorf("unsupported persistence type: %s", s.persistence)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", name, err)
	}

	s.collections[name] = c
	return c, nil
}
