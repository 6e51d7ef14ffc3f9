package repository

import (
	"context"

	"github.com/pkg/errors"
)

// Schema is created on startup so a fresh database works out of the box.
// New users start with no gold and the default cosmetics equipped
// (hat 0, shirt -1, pants -2).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		name          TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		gold          INT  NOT NULL DEFAULT 0 CHECK (gold >= 0),
		hat           INT  NOT NULL DEFAULT 0,
		shirt         INT  NOT NULL DEFAULT -1,
		pants         INT  NOT NULL DEFAULT -2
	);`,
	`CREATE TABLE IF NOT EXISTS items (
		id       SERIAL PRIMARY KEY,
		name     TEXT NOT NULL,
		category TEXT NOT NULL CHECK (category IN ('Hat', 'Shirt', 'Pants')),
		price    INT  NOT NULL CHECK (price >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS user_items (
		id      SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		item_id INT NOT NULL REFERENCES items (id) ON DELETE CASCADE,
		UNIQUE (user_id, item_id)
	);`,
}

var seedItems = []struct {
	name     string
	category string
	price    int
}{
	{"beanie", "Hat", 20},
	{"tophat", "Hat", 30},
	{"fedora", "Hat", 35},
	{"cowboyhat", "Hat", 40},
	{"sombrero", "Hat", 45},
	{"helmet", "Hat", 50},
	{"wizardhat", "Hat", 60},
	{"crown", "Hat", 120},
	{"tanktop", "Shirt", 15},
	{"tshirt", "Shirt", 25},
	{"flannel", "Shirt", 35},
	{"jersey", "Shirt", 40},
	{"hoodie", "Shirt", 55},
	{"raincoat", "Shirt", 65},
	{"tuxedo", "Shirt", 100},
	{"shorts", "Pants", 20},
	{"jeans", "Pants", 30},
	{"slacks", "Pants", 45},
	{"overalls", "Pants", 50},
	{"kilt", "Pants", 70},
}

func (r *PostgresRepo) bootstrap(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "repo: bootstrap schema")
		}
	}
	return r.seedCatalog(ctx)
}

// seedCatalog fills the item catalog on first run only; an already
// seeded (or externally managed) catalog is left alone.
func (r *PostgresRepo) seedCatalog(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items;`).Scan(&count); err != nil {
		return errors.Wrap(err, "repo: seedCatalog count")
	}
	if count > 0 {
		return nil
	}
	for _, it := range seedItems {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO items (name, category, price) VALUES ($1, $2, $3)`,
			it.name, it.category, it.price)
		if err != nil {
			return errors.Wrap(err, "repo: seedCatalog insert")
		}
	}
	return nil
}
