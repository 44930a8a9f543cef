package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jgivc/filecatalog/internal/adapter/mdadapter"
	"github.com/jgivc/filecatalog/internal/adapter/tpladapter"
	"github.com/jgivc/filecatalog/internal/config"
	httphandler "github.com/jgivc/filecatalog/internal/handler/http"
	"github.com/jgivc/filecatalog/internal/repository/counter"
	"github.com/jgivc/filecatalog/internal/service/catalog"
	scounter "github.com/jgivc/filecatalog/internal/service/counter"
	sdownload "github.com/jgivc/filecatalog/internal/service/download"
	"github.com/jgivc/filecatalog/internal/service/page"
	"github.com/jgivc/filecatalog/internal/storage/dir"
	"github.com/spf13/afero"
)

const (
	initTimeout = 5 * time.Second
	dumpTimeout = 5 * time.Second
)

type Reloader interface {
	Reload() error
}

type CounterDumper interface {
	DumpCounters(ctx context.Context, fileName string) error
}

type App struct {
	cfgPath string
	cfg     *config.Config
	srv     *http.Server
	repo    counter.Repository
	page    Reloader
	counter CounterDumper
	log     *slog.Logger
}

func New(cfgPath string) *App {
	return &App{
		cfgPath: cfgPath,
	}
}

func newLogger(level string) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	default:
		panic("unknown log level")
	}

	return slog.New(slog.NewTextHandler(os.Stderr, lo))
}

// Start wires every component before returning, then serves in the background. Any
// startup failure panics.
func (a *App) Start() {
	a.cfg = config.MustLoad(a.cfgPath)
	log := newLogger(a.cfg.LogLevel)
	a.log = log

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	repo, err := counter.NewRepository(ctx, &a.cfg.CounterConfig, log)
	if err != nil {
		panic(err)
	}
	a.repo = repo

	store := dir.NewDirStorage(a.cfg.CatalogConfig.UploadDir, a.cfg.CatalogConfig.DirMode, log)
	if err := store.EnsureDir(); err != nil {
		panic(err)
	}

	pSrv := page.NewPageService(afero.NewOsFs(), a.cfg.CatalogConfig.DescFileName, mdadapter.NewMDAdapter(), log)
	if err := pSrv.Reload(); err != nil {
		panic(err)
	}
	a.page = pSrv

	renderer, err := tpladapter.NewTplAdapter(a.cfg.CatalogConfig.TemplateFileName, a.cfg.CatalogConfig.Title)
	if err != nil {
		panic(err)
	}

	catSrv := catalog.NewCatalogService(store, repo, pSrv, a.cfg.CatalogConfig.PageSize, log)
	dSrv := sdownload.NewDownloadService(store, repo, log)
	cSrv := scounter.NewCounterService(repo, log)
	a.counter = cSrv

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", httphandler.NewIndexHandler(catSrv, dSrv, renderer, a.cfg.HandlerConfig.ChunkSize, log))
	mux.Handle("GET /files", httphandler.NewFilesHandler(catSrv, renderer, log))
	mux.Handle("GET /stat", httphandler.NewCounterHandler(cSrv, log))

	a.srv = &http.Server{
		Addr:    a.cfg.Listen,
		Handler: httphandler.WithRequestLog(mux, log),
	}

	go func() {
		log.Info("Start listen", slog.String("addr", a.cfg.Listen), slog.String("upload_dir", a.cfg.CatalogConfig.UploadDir))

		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Could not serve", slog.String("listen_addr", a.cfg.Listen), slog.Any("error", err))
			os.Exit(2)
		}
	}()
}

// Dump writes all download counters to the configured dump file.
func (a *App) Dump() {
	if a.counter == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dumpTimeout)
	defer cancel()

	if err := a.counter.DumpCounters(ctx, a.cfg.CounterConfig.DumpFileName); err != nil {
		a.log.Error("Cannot dump counters", slog.Any("error", err))
	}
}

// Reload re-renders the description header. A broken file keeps the old one.
func (a *App) Reload() {
	if a.page == nil {
		return
	}

	if err := a.page.Reload(); err != nil {
		a.log.Warn("Description not reloaded", slog.Any("error", err))
	}
}

func (a *App) Stop() {
	if a.srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.srv.Shutdown(ctx); err != nil {
		a.log.Error("Cannot shutdown server", slog.Any("error", err))
	}

	if err := a.repo.Close(); err != nil {
		a.log.Error("Cannot close counter store", slog.Any("error", err))
	}
}
