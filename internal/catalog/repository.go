package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/design-loan-quote/internal/config"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"go.uber.org/zap"
)

// Open returns the repository selected by cfg.Driver. An empty driver selects
// the in-memory repository.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = constants.StorageDriverMemory
	}

	logger.Info("opening design repository",
		zap.String("op", "catalog.Open"),
		zap.String("driver", driver),
	)

	switch driver {
	case constants.StorageDriverMemory:
		return NewMemoryRepository(), nil
	case constants.StorageDriverSQLite:
		return NewSQLiteRepository(ctx, cfg.DSN)
	case constants.StorageDriverRedis:
		return NewRedisRepository(ctx, cfg)
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func sortDesigns(designs []Design) {
	sort.SliceStable(designs, func(i, j int) bool {
		a, b := strings.ToLower(designs[i].Name), strings.ToLower(designs[j].Name)
		if a != b {
			return a < b
		}
		return designs[i].ID < designs[j].ID
	})
}
