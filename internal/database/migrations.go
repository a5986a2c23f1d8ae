package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS collections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL UNIQUE,
		item_type VARCHAR(50) NOT NULL DEFAULT 'collection',
		votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
		voted_by TEXT[] NOT NULL DEFAULT '{}',
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		last_vote_update TIMESTAMP WITH TIME ZONE,
		featured_updated_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_collections_ranking ON collections(votes DESC, last_vote_update DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_collections_featured ON collections(is_featured) WHERE is_featured`,

	// votes is a projection of collections; it holds no counters of its own.
	`CREATE OR REPLACE VIEW votes AS
		SELECT id AS item_id, item_type, name AS item_name, votes, last_vote_update
		FROM collections`,

	`CREATE TABLE IF NOT EXISTS sales (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		collection_id UUID REFERENCES collections(id) ON DELETE SET NULL,
		data JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS badges (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		data JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS logos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		data JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS stadiums (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		data JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		data JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sales_collection_id ON sales(collection_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
