package handlers

import (
	"context"

	"jsonl2csv/cache"
	"jsonl2csv/config"
	"jsonl2csv/db"
	"jsonl2csv/service"
)

// @title           JSONL to CSV Converter API
// @version         1.0
// @description     Converts JSONL files to CSV using AI-generated parsing code with automatic retry on failure

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

// Converter runs the synthesize-execute-validate loop for one job.
type Converter interface {
	Convert(ctx context.Context, job service.Job) (*service.Outcome, error)
}

type Handlers struct {
	db        *db.DB
	cache     *cache.Cache
	converter Converter
	store     service.ObjectStore // nil when GCS is not configured
	cfg       config.Config
}

func New(database *db.DB, appCache *cache.Cache, converter Converter, store service.ObjectStore, cfg config.Config) *Handlers {
	return &Handlers{
		db:        database,
		cache:     appCache,
		converter: converter,
		store:     store,
		cfg:       cfg,
	}
}
