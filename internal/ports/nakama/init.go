package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"forgeboard/internal/app"
	"forgeboard/internal/bot"
	"forgeboard/internal/cache"
	"forgeboard/internal/config"
	"forgeboard/internal/domain"
	"forgeboard/internal/ports/fsstore"
	"forgeboard/internal/ports/generation"
)

const configPath = "/nakama/data/forgeboard.json"

// InitModule wires the crafting game into the Nakama runtime: config,
// base card pool, generation gateway client, craft cache and the RPC
// surface.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if err := config.LoadGameConfig(configPath, env); err != nil {
		return err
	}
	cfg := config.GetGameConfig()

	pool, err := domain.LoadBasePool(cfg.CardsPath, cfg.CategoriesPath)
	if err != nil {
		return err
	}

	craftCache, err := cache.New(ctx, NewStorageCacheStore(nk))
	if err != nil {
		return err
	}

	art, err := fsstore.New(cfg.ArtDir, cfg.ArtServePrefix)
	if err != nil {
		return err
	}

	gateway := generation.New(cfg.GenerationURL, time.Duration(cfg.GenerationTimeoutSeconds)*time.Second)

	svc := app.NewService(app.Deps{
		Logger:   logger,
		Store:    app.NewMatchStore(),
		Cache:    craftCache,
		Oracle:   gateway,
		Renderer: gateway,
		Art:      art,
		Tickets:  app.NewTicketService(cfg.TicketSecret),
		Pool:     pool,
		Rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	agent := bot.NewAgent(svc, gateway, logger)

	if err := RegisterRPCs(initializer, svc, agent); err != nil {
		return err
	}

	logger.Info("forgeboard module loaded: %d base cards, %d categories, %d cached crafts",
		len(pool.AllCards()), len(pool.Categories), craftCache.Len())
	return nil
}
