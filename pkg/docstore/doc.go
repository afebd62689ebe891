// Package docstore is a small document store used by the role and user repositories.
//
// A Store is opened once per process from config.StoreConfig and hands out typed
// collections:
//
//	store, err := docstore.Open(ctx, cfg.Store)
//	roles, err := docstore.NewCollection[role.Role](ctx, store, "roles")
//
// Supported backends:
//   - mongo: one MongoDB collection per docstore collection, id stored as _id
//   - postgres: one table per collection with (id TEXT, doc JSONB)
//   - redis: one hash per collection keyed <prefix>:<collection>
//   - sqlite: one table per collection with (id TEXT, doc TEXT)
//   - file: one JSON file per collection under the data directory
//   - memory: process-local maps, lost on restart
//
// Documents are encoded as JSON everywhere except MongoDB, which uses the bson tags
// of the document type. FindAll returns documents ordered by id.
package docstore
