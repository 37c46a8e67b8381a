package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/zaelmari/controle/internal/categorize"
	"github.com/zaelmari/controle/internal/config"
	"github.com/zaelmari/controle/internal/gitops"
	"github.com/zaelmari/controle/internal/importer"
	"github.com/zaelmari/controle/internal/importlog"
	"github.com/zaelmari/controle/internal/ledger"
	"github.com/zaelmari/controle/internal/logger"
	"github.com/zaelmari/controle/internal/store"
)

// app is everything a command needs from an initialized data directory.
type app struct {
	root    string
	cfg     *config.Config
	log     zerolog.Logger
	store   store.Store
	ledger  *ledger.Service
	imports *importer.Service
}

func openApp(root string, logOut io.Writer) (*app, error) {
	cfg, err := resolveConfig(root)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		return nil, err
	}

	path, err := cfg.LedgerPath(root)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(store.Options{
		Backend: store.Backend(cfg.Ledger.Backend),
		Path:    path,
		Sheet:   cfg.Ledger.Sheet,
	})
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	cat, err := categorize.Load(cfg.RulesPath(root), categorize.Mode(cfg.Categorizer.Mode))
	if err != nil {
		st.Close()
		return nil, err
	}

	led := ledger.NewService(st)
	parties := importer.NewPartyResolver(individuals(cfg.Parties.Individuals), cfg.Parties.Joint)
	imports := importer.NewService(importer.ServiceParams{
		Parsers:     importer.DefaultRegistry(parties),
		Categorizer: cat,
		Ledger:      led,
		Defaults: ledger.Defaults{
			Installments:  cfg.Defaults.Installments,
			PaymentMethod: cfg.Defaults.PaymentMethod,
			Status:        cfg.Defaults.Status,
			Notes:         cfg.Defaults.Notes,
		},
		Log: importlog.New(root),
	})

	log.Debug().
		Str("root", root).
		Str("backend", cfg.Ledger.Backend).
		Str("mode", string(cat.Mode())).
		Msg("data directory opened")

	return &app{
		root:    root,
		cfg:     cfg,
		log:     log,
		store:   st,
		ledger:  led,
		imports: imports,
	}, nil
}

func resolveConfig(root string) (*config.Config, error) {
	cfg, err := config.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("loading config (run `controle init` first?): %w", err)
	}
	return cfg, nil
}

func individuals(in []config.Individual) []importer.Individual {
	out := make([]importer.Individual, len(in))
	for i, ind := range in {
		out[i] = importer.Individual{Label: ind.Label, Fragments: ind.Fragments}
	}
	return out
}

func (a *app) Close() error {
	return a.store.Close()
}

// context attaches the app logger to ctx.
func (a *app) context(ctx context.Context) context.Context {
	return logger.WithContext(ctx, a.log)
}

// commit records the data directory in git when auto-commit is on. Failures
// are logged, not returned: the ledger is already written.
func (a *app) commit(ctx context.Context, message string) {
	if !a.cfg.Git.AutoCommit || !gitops.IsRepo(a.root) {
		return
	}
	repo := gitops.Open(a.root, gitops.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail})
	hash, err := repo.CommitAll(ctx, message)
	if err != nil {
		a.log.Warn().Err(err).Msg("git commit failed")
		return
	}
	if hash != "" {
		a.log.Info().Str("commit", hash).Msg(message)
	}
}

// withApp opens the data directory at the --repo flag for the duration of fn.
func withApp(repoDir string, fn func(a *app) error) error {
	root, err := absRepo(repoDir)
	if err != nil {
		return err
	}
	a, err := openApp(root, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
