package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trade-journal-go/internal/client"
	"trade-journal-go/internal/config"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/logger"
	"trade-journal-go/internal/models"
)

var errNotFound = errors.New("trade not found")

// backend is the set of journal operations the commands need. It is served
// either by the local store or by a remote journal server.
type backend interface {
	Today() string
	List(ctx context.Context, filter journal.TradeFilter) ([]models.Trade, error)
	Get(ctx context.Context, id string) (models.Trade, error)
	Add(ctx context.Context, form journal.TradeForm) (models.Trade, error)
	Edit(ctx context.Context, id string, form journal.TradeForm) (models.Trade, error)
	Update(ctx context.Context, id string, update models.TradeUpdate) (models.Trade, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (models.TradeStats, error)
	Summary(ctx context.Context) (journal.Summary, error)
}

// openConfiguredBackend loads the configuration and opens the backend it
// describes, honouring the -server flag.
func openConfiguredBackend() (backend, error) {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if *serverURL != "" {
		loc, err := cfg.Journal.Location()
		if err != nil {
			return nil, fmt.Errorf("invalid journal timezone: %w", err)
		}
		cfg.Client.BaseURL = *serverURL
		return &remoteBackend{client: client.NewRestClient(&cfg.Client, log), loc: loc}, nil
	}

	store, err := journal.NewFromConfig(&cfg, log)
	if err != nil {
		return nil, err
	}
	return &localBackend{store: store}, nil
}

type localBackend struct {
	store *journal.Store
}

func (b *localBackend) Today() string { return b.store.Today() }

func (b *localBackend) List(_ context.Context, filter journal.TradeFilter) ([]models.Trade, error) {
	return b.store.Filter(filter), nil
}

func (b *localBackend) Get(_ context.Context, id string) (models.Trade, error) {
	t, ok := b.store.Get(id)
	if !ok {
		return models.Trade{}, fmt.Errorf("%w: %s", errNotFound, id)
	}
	return t, nil
}

func (b *localBackend) Add(_ context.Context, form journal.TradeForm) (models.Trade, error) {
	if err := form.Validate(); err != nil {
		return models.Trade{}, err
	}
	return b.store.Add(form.Trade())
}

func (b *localBackend) Edit(ctx context.Context, id string, form journal.TradeForm) (models.Trade, error) {
	if err := form.Validate(); err != nil {
		return models.Trade{}, err
	}
	return b.Update(ctx, id, form.Update())
}

func (b *localBackend) Update(_ context.Context, id string, update models.TradeUpdate) (models.Trade, error) {
	t, found, err := b.store.Update(id, update)
	if err != nil {
		return models.Trade{}, err
	}
	if !found {
		return models.Trade{}, fmt.Errorf("%w: %s", errNotFound, id)
	}
	return t, nil
}

func (b *localBackend) Delete(_ context.Context, id string) (bool, error) {
	return b.store.Delete(id)
}

func (b *localBackend) Stats(context.Context) (models.TradeStats, error) {
	return b.store.Stats(), nil
}

func (b *localBackend) Summary(context.Context) (journal.Summary, error) {
	return b.store.Summary(), nil
}

// remoteBackend forwards every operation to a journal server.
type remoteBackend struct {
	client client.RestClientInterface
	loc    *time.Location
	now    func() time.Time
}

func (b *remoteBackend) Today() string {
	now := time.Now
	if b.now != nil {
		now = b.now
	}
	return now().In(b.loc).Format(journal.DateLayout)
}

func (b *remoteBackend) List(ctx context.Context, filter journal.TradeFilter) ([]models.Trade, error) {
	return b.client.List(ctx, filter)
}

func (b *remoteBackend) Get(ctx context.Context, id string) (models.Trade, error) {
	t, err := b.client.Get(ctx, id)
	return t, remoteError(err, id)
}

func (b *remoteBackend) Add(ctx context.Context, form journal.TradeForm) (models.Trade, error) {
	if err := form.Validate(); err != nil {
		return models.Trade{}, err
	}
	return b.client.Add(ctx, form)
}

func (b *remoteBackend) Edit(ctx context.Context, id string, form journal.TradeForm) (models.Trade, error) {
	if err := form.Validate(); err != nil {
		return models.Trade{}, err
	}
	t, err := b.client.Edit(ctx, id, form)
	return t, remoteError(err, id)
}

func (b *remoteBackend) Update(ctx context.Context, id string, update models.TradeUpdate) (models.Trade, error) {
	t, err := b.client.Update(ctx, id, update)
	return t, remoteError(err, id)
}

func (b *remoteBackend) Delete(ctx context.Context, id string) (bool, error) {
	return b.client.Delete(ctx, id)
}

func (b *remoteBackend) Stats(ctx context.Context) (models.TradeStats, error) {
	return b.client.Stats(ctx)
}

func (b *remoteBackend) Summary(ctx context.Context) (journal.Summary, error) {
	return b.client.Summary(ctx)
}

func remoteError(err error, id string) error {
	if errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("%w: %s", errNotFound, id)
	}
	return err
}
