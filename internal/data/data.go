package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/articlebias/dataset/internal/conf"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

type Data struct {
	db     *sqlx.DB
	driver string
}

// NewData opens the configured store. The embedded sqlite variant creates the
// articles schema eagerly here; the networked postgres variant defers schema
// creation to the initialize-database operation.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	db, err := sqlx.Connect(c.Database.Driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}

	d := &Data{db: db, driver: c.Database.Driver}
	if d.driver == driverSQLite {
		if _, err := d.ensureArticleSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	cleanup := func() {
		log.NewHelper(logger).Info("closing the data resources")
		db.Close()
	}
	return d, cleanup, nil
}

// ensureArticleSchema creates the articles table and its url index if they do
// not exist. The returned bool reports whether this call created the table.
func (d *Data) ensureArticleSchema(ctx context.Context) (bool, error) {
	exists, err := d.articleTableExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	ddl := `CREATE TABLE IF NOT EXISTS articles (
		id SERIAL PRIMARY KEY,
		url TEXT NOT NULL,
		news_article TEXT NOT NULL,
		summary TEXT NOT NULL,
		bias_religious BOOLEAN NOT NULL DEFAULT FALSE,
		bias_cultural BOOLEAN NOT NULL DEFAULT FALSE,
		bias_language BOOLEAN NOT NULL DEFAULT FALSE,
		bias_gender BOOLEAN NOT NULL DEFAULT FALSE,
		bias_pro_gov BOOLEAN NOT NULL DEFAULT FALSE,
		bias_anti_gov BOOLEAN NOT NULL DEFAULT FALSE
	)`
	if d.driver == driverSQLite {
		ddl = `CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		news_article TEXT NOT NULL,
		summary TEXT NOT NULL,
		bias_religious BOOLEAN NOT NULL DEFAULT 0,
		bias_cultural BOOLEAN NOT NULL DEFAULT 0,
		bias_language BOOLEAN NOT NULL DEFAULT 0,
		bias_gender BOOLEAN NOT NULL DEFAULT 0,
		bias_pro_gov BOOLEAN NOT NULL DEFAULT 0,
		bias_anti_gov BOOLEAN NOT NULL DEFAULT 0
	)`
	}

	queries := []string{
		ddl,
		`CREATE INDEX IF NOT EXISTS idx_articles_url ON articles (url)`,
	}
	for _, query := range queries {
		if _, err := d.db.ExecContext(ctx, query); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *Data) articleTableExists(ctx context.Context) (bool, error) {
	var query string
	switch d.driver {
	case driverPostgres:
		query = `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'articles')`
	default:
		query = `SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = 'articles'`
	}
	var exists bool
	if err := d.db.QueryRowxContext(ctx, query).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
