package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_schema.sql
var createSchemaSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createSchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS feedbacks;
				DROP TABLE IF EXISTS user_achievements;
				DROP TABLE IF EXISTS achievements;
				DROP TABLE IF EXISTS user_levels;
				DROP TABLE IF EXISTS quiz_submissions;
				DROP TABLE IF EXISTS questions;
				DROP TABLE IF EXISTS subjects;
				DROP TABLE IF EXISTS users`)
			return err
		},
	)
}
