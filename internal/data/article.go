package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/articlebias/dataset/internal/biz"
)

const articleColumns = `id, url, news_article, summary,
	bias_religious, bias_cultural, bias_language, bias_gender, bias_pro_gov, bias_anti_gov`

// articleRow is the store-side representation of an article. Scanning goes
// through this struct so that driver-level boolean encodings (sqlite hands
// back 0/1 integers) are normalized to Go bools in exactly one place.
type articleRow struct {
	ID            int64  `db:"id"`
	URL           string `db:"url"`
	NewsArticle   string `db:"news_article"`
	Summary       string `db:"summary"`
	BiasReligious bool   `db:"bias_religious"`
	BiasCultural  bool   `db:"bias_cultural"`
	BiasLanguage  bool   `db:"bias_language"`
	BiasGender    bool   `db:"bias_gender"`
	BiasProGov    bool   `db:"bias_pro_gov"`
	BiasAntiGov   bool   `db:"bias_anti_gov"`
}

func (r articleRow) toArticle() *biz.Article {
	return &biz.Article{
		ID:            r.ID,
		URL:           r.URL,
		NewsArticle:   r.NewsArticle,
		Summary:       r.Summary,
		BiasReligious: r.BiasReligious,
		BiasCultural:  r.BiasCultural,
		BiasLanguage:  r.BiasLanguage,
		BiasGender:    r.BiasGender,
		BiasProGov:    r.BiasProGov,
		BiasAntiGov:   r.BiasAntiGov,
	}
}

type articleRepo struct {
	data *Data
	log  *log.Helper
}

func NewArticleRepo(data *Data, logger log.Logger) biz.ArticleRepo {
	return &articleRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func storageErr(op string, err error) error {
	return errors.InternalServer("STORAGE_ERROR", fmt.Sprintf("%s: %v", op, err))
}

func (r *articleRepo) Create(ctx context.Context, a *biz.Article) (*biz.Article, error) {
	tx, err := r.data.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	// Both lib/pq and modernc sqlite support INSERT ... RETURNING.
	query := r.data.db.Rebind(`INSERT INTO articles
		(url, news_article, summary, bias_religious, bias_cultural, bias_language, bias_gender, bias_pro_gov, bias_anti_gov)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err = tx.QueryRowxContext(ctx, query,
		a.URL, a.NewsArticle, a.Summary,
		a.BiasReligious, a.BiasCultural, a.BiasLanguage,
		a.BiasGender, a.BiasProGov, a.BiasAntiGov,
	).Scan(&id)
	if err != nil {
		return nil, storageErr("insert article", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, storageErr("commit article", err)
	}

	stored := *a
	stored.ID = id
	return &stored, nil
}

func (r *articleRepo) List(ctx context.Context, offset, limit int) ([]*biz.Article, error) {
	query := r.data.db.Rebind(`SELECT ` + articleColumns + ` FROM articles ORDER BY id LIMIT ? OFFSET ?`)
	return r.selectArticles(ctx, query, limit, offset)
}

func (r *articleRepo) FetchAll(ctx context.Context) ([]*biz.Article, error) {
	return r.selectArticles(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY id`)
}

func (r *articleRepo) selectArticles(ctx context.Context, query string, args ...any) ([]*biz.Article, error) {
	rows, err := r.data.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query articles", err)
	}
	defer rows.Close()

	var articles []*biz.Article
	for rows.Next() {
		var row articleRow
		if err := rows.StructScan(&row); err != nil {
			return nil, storageErr("scan article", err)
		}
		articles = append(articles, row.toArticle())
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate articles", err)
	}
	return articles, nil
}

func (r *articleRepo) EnsureSchema(ctx context.Context) (bool, error) {
	created, err := r.data.ensureArticleSchema(ctx)
	if err != nil {
		return false, storageErr("ensure schema", err)
	}
	return created, nil
}

// Health never returns an error: an unreachable store or a missing table are
// reportable states, not faults.
func (r *articleRepo) Health(ctx context.Context) biz.SchemaStatus {
	if err := r.data.db.PingContext(ctx); err != nil {
		r.log.WithContext(ctx).Warnf("health ping failed: %v", err)
		return biz.SchemaStatus{}
	}
	exists, err := r.data.articleTableExists(ctx)
	if err != nil {
		r.log.WithContext(ctx).Warnf("health schema probe failed: %v", err)
		return biz.SchemaStatus{Reachable: true}
	}
	return biz.SchemaStatus{Reachable: true, SchemaPresent: exists}
}
