package server

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/gorilla/handlers"

	"github.com/articlebias/dataset/internal/conf"
	"github.com/articlebias/dataset/internal/service"
)

func NewHTTPServer(c *conf.Server, d *conf.Data, svc *service.ArticleService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		// The contract is fully open: all origins, methods and headers.
		http.Filter(handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions}),
			handlers.AllowedHeaders([]string{"*"}),
		)),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if t, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(t))
		}
	}

	srv := http.NewServer(opts...)
	registerRoutes(srv, svc, d.Database.Driver)
	return srv
}

func registerRoutes(srv *http.Server, svc *service.ArticleService, driver string) {
	r := srv.Route("/")

	r.GET("/health", func(ctx http.Context) error {
		return ctx.Result(nethttp.StatusOK, svc.Health(ctx))
	})

	// Schema creation on demand only makes sense against the networked store;
	// the embedded variant creates its schema at process start.
	if driver == "postgres" {
		r.POST("/initialize-database", func(ctx http.Context) error {
			reply, err := svc.InitializeDatabase(ctx)
			if err != nil {
				return err
			}
			return ctx.Result(nethttp.StatusOK, reply)
		})
	}

	r.POST("/articles/", func(ctx http.Context) error {
		var req service.CreateArticleRequest
		if err := ctx.Bind(&req); err != nil {
			return errors.BadRequest("VALIDATION_ERROR", "malformed request body")
		}
		article, err := svc.CreateArticle(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, article)
	})

	r.GET("/articles/", func(ctx http.Context) error {
		query := ctx.Query()
		skip := intQuery(query.Get("skip"), 0)
		limit := intQuery(query.Get("limit"), 100)
		articles, err := svc.ListArticles(ctx, skip, limit)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, articles)
	})

	r.GET("/articles/csv", func(ctx http.Context) error {
		data, err := svc.ExportCSV(ctx)
		if err != nil {
			return err
		}
		ctx.Response().Header().Set("Content-Disposition", "attachment; filename=articles.csv")
		return ctx.Blob(nethttp.StatusOK, "text/csv", data)
	})

	r.GET("/articles/parquet", func(ctx http.Context) error {
		data, err := svc.ExportParquet(ctx)
		if err != nil {
			return err
		}
		ctx.Response().Header().Set("Content-Disposition", "attachment; filename=articles.parquet")
		return ctx.Blob(nethttp.StatusOK, "application/octet-stream", data)
	})

	r.GET("/articles/dataset", func(ctx http.Context) error {
		dataset, err := svc.ExportDataset(ctx)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, dataset)
	})
}

func intQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
