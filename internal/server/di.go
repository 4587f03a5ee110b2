package server

import (
	"github.com/google/wire"

	"github.com/articlebias/dataset/internal/biz"
	"github.com/articlebias/dataset/internal/data"
	"github.com/articlebias/dataset/internal/service"
)

// ProviderSet wires the full service graph.
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Data providers
	data.NewData,
	data.NewArticleRepo,

	// Business providers
	biz.NewArticleUseCase,

	// Service providers
	service.NewArticleService,
)
