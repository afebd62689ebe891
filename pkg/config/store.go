package config

// Supported values for StoreConfig.Persistence
const (
	PersistenceMongo    = "mongo"
	PersistencePostgres = "postgres"
	PersistenceRedis    = "redis"
	PersistenceSQLite   = "sqlite"
	PersistenceFile     = "file"
	PersistenceMemory   = "memory"
)

// StoreConfig selects and configures the document store backend
type StoreConfig struct {
	Persistence string `env:"STORE_PERSISTENCE" env-default:"mongo"`

	// MongoDB
	MongoURI      string `env:"STORE_MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase string `env:"STORE_MONGO_DATABASE" env-default:"userrole"`

	// PostgreSQL
	Postgres DatabaseConfig

	// Redis
	RedisAddr     string `env:"STORE_REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"STORE_REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"STORE_REDIS_DB" env-default:"0"`
	RedisPrefix   string `env:"STORE_REDIS_PREFIX" env-default:"userrole"`

	// SQLite
	SQLitePath string `env:"STORE_SQLITE_PATH" env-default:"userrole.db"`

	// File
	DataDir string `env:"STORE_DATA_DIR" env-default:"./data"`
}
