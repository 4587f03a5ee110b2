package service

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/articlebias/dataset/internal/biz"
	"github.com/articlebias/dataset/internal/export"
)

const (
	defaultSkip  = 0
	defaultLimit = 100
)

type ArticleService struct {
	uc  *biz.ArticleUseCase
	log *log.Helper
}

func NewArticleService(uc *biz.ArticleUseCase, logger log.Logger) *ArticleService {
	return &ArticleService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// CreateArticleRequest is the inbound create payload. The three string fields
// are required; pointers distinguish an absent field from an empty string.
// The bias flags are optional and default to false.
type CreateArticleRequest struct {
	URL           *string `json:"url"`
	NewsArticle   *string `json:"news_article"`
	Summary       *string `json:"summary"`
	BiasReligious bool    `json:"bias_religious"`
	BiasCultural  bool    `json:"bias_cultural"`
	BiasLanguage  bool    `json:"bias_language"`
	BiasGender    bool    `json:"bias_gender"`
	BiasProGov    bool    `json:"bias_pro_gov"`
	BiasAntiGov   bool    `json:"bias_anti_gov"`
}

type HealthReply struct {
	Status        string `json:"status"`
	DBInitialized bool   `json:"db_initialized"`
}

type InitializeReply struct {
	Message string `json:"message"`
}

// CreateArticle validates the payload and inserts the record. Validation
// failures never reach the store.
func (s *ArticleService) CreateArticle(ctx context.Context, req *CreateArticleRequest) (*biz.Article, error) {
	var missing []string
	if req.URL == nil {
		missing = append(missing, "url")
	}
	if req.NewsArticle == nil {
		missing = append(missing, "news_article")
	}
	if req.Summary == nil {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return nil, errors.BadRequest("VALIDATION_ERROR", "missing required field(s): "+strings.Join(missing, ", "))
	}

	return s.uc.Create(ctx, &biz.Article{
		URL:           *req.URL,
		NewsArticle:   *req.NewsArticle,
		Summary:       *req.Summary,
		BiasReligious: req.BiasReligious,
		BiasCultural:  req.BiasCultural,
		BiasLanguage:  req.BiasLanguage,
		BiasGender:    req.BiasGender,
		BiasProGov:    req.BiasProGov,
		BiasAntiGov:   req.BiasAntiGov,
	})
}

func (s *ArticleService) ListArticles(ctx context.Context, skip, limit int) ([]*biz.Article, error) {
	if skip < 0 {
		skip = defaultSkip
	}
	if limit < 0 {
		limit = defaultLimit
	}
	articles, err := s.uc.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []*biz.Article{}
	}
	return articles, nil
}

func (s *ArticleService) Health(ctx context.Context) *HealthReply {
	st := s.uc.Health(ctx)
	status := "ok"
	if !st.Reachable {
		status = "unavailable"
	}
	return &HealthReply{Status: status, DBInitialized: st.SchemaPresent}
}

func (s *ArticleService) InitializeDatabase(ctx context.Context) (*InitializeReply, error) {
	created, err := s.uc.InitSchema(ctx)
	if err != nil {
		return nil, err
	}
	if !created {
		return &InitializeReply{Message: "database already initialized"}, nil
	}
	return &InitializeReply{Message: "database initialized"}, nil
}

func (s *ArticleService) ExportCSV(ctx context.Context) ([]byte, error) {
	articles, err := s.uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return export.CSV(articles)
}

func (s *ArticleService) ExportParquet(ctx context.Context) ([]byte, error) {
	articles, err := s.uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return export.Parquet(articles)
}

func (s *ArticleService) ExportDataset(ctx context.Context) (map[string]any, error) {
	articles, err := s.uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return export.Dataset(articles), nil
}
