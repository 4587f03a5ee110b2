package biz

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
)

// Article is a stored news article with its bias annotations. The six bias
// flags are independent of each other and default to false. Records are
// immutable once created; id is assigned by the store at insertion time.
type Article struct {
	ID            int64  `json:"id"`
	URL           string `json:"url"`
	NewsArticle   string `json:"news_article"`
	Summary       string `json:"summary"`
	BiasReligious bool   `json:"bias_religious"`
	BiasCultural  bool   `json:"bias_cultural"`
	BiasLanguage  bool   `json:"bias_language"`
	BiasGender    bool   `json:"bias_gender"`
	BiasProGov    bool   `json:"bias_pro_gov"`
	BiasAntiGov   bool   `json:"bias_anti_gov"`
}

// SchemaStatus reports store reachability and whether the articles table
// exists. A missing table is a normal condition, not a fault.
type SchemaStatus struct {
	Reachable     bool
	SchemaPresent bool
}

type ArticleRepo interface {
	// Create inserts the article and returns it with the assigned id.
	Create(ctx context.Context, a *Article) (*Article, error)
	// List returns up to limit articles starting at offset, in insertion order.
	List(ctx context.Context, offset, limit int) ([]*Article, error)
	// FetchAll returns the full table, in insertion order.
	FetchAll(ctx context.Context) ([]*Article, error)
	// EnsureSchema creates the articles table if absent. The returned bool
	// reports whether this call created it.
	EnsureSchema(ctx context.Context) (bool, error)
	Health(ctx context.Context) SchemaStatus
}

type ArticleUseCase struct {
	repo ArticleRepo
	log  *log.Helper
}

func NewArticleUseCase(repo ArticleRepo, logger log.Logger) *ArticleUseCase {
	return &ArticleUseCase{repo: repo, log: log.NewHelper(logger)}
}

func (uc *ArticleUseCase) Create(ctx context.Context, a *Article) (*Article, error) {
	stored, err := uc.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("created article id=%d url=%s", stored.ID, stored.URL)
	return stored, nil
}

func (uc *ArticleUseCase) List(ctx context.Context, offset, limit int) ([]*Article, error) {
	return uc.repo.List(ctx, offset, limit)
}

// Snapshot fetches the full table once; the export encoders are deterministic
// functions of the returned slice.
func (uc *ArticleUseCase) Snapshot(ctx context.Context) ([]*Article, error) {
	return uc.repo.FetchAll(ctx)
}

func (uc *ArticleUseCase) InitSchema(ctx context.Context) (bool, error) {
	created, err := uc.repo.EnsureSchema(ctx)
	if err != nil {
		return false, err
	}
	if created {
		uc.log.WithContext(ctx).Info("articles table created")
	}
	return created, nil
}

func (uc *ArticleUseCase) Health(ctx context.Context) SchemaStatus {
	return uc.repo.Health(ctx)
}
