package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/tenant"
)

// tenantIDPattern limita el identificador a caracteres seguros para formar el
// nombre del schema. El tenant id viene del JWT, no del path.
var tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]{1,64}$`)

// TenantResolver entrega el pool del tenant activo. Cada tenant vive en su
// propio schema (tenant_<id>) y recibe un pool con search_path fijo; los pools
// se crean perezosamente y se cachean de por vida del proceso.
type TenantResolver struct {
	cfg   config.DBConfig
	mu    sync.RWMutex
	pools map[string]*pgxpool.Pool
}

// NewTenantResolver construye el resolver.
func NewTenantResolver(cfg config.DBConfig) *TenantResolver {
	return &TenantResolver{cfg: cfg, pools: make(map[string]*pgxpool.Pool)}
}

// SchemaForTenant deriva el nombre del schema del tenant.
func SchemaForTenant(tenantID string) string {
	return "tenant_" + strings.ReplaceAll(strings.ToLower(tenantID), "-", "_")
}

// PoolFor retorna el pool del tenant presente en el contexto.
func (tr *TenantResolver) PoolFor(ctx context.Context) (*pgxpool.Pool, error) {
	tenantID := tenant.IDFromContext(ctx)
	if !tenantIDPattern.MatchString(tenantID) {
		return nil, domain.ErrUnauthorized
	}

	tr.mu.RLock()
	pool, exists := tr.pools[tenantID]
	tr.mu.RUnlock()
	if exists {
		return pool, nil
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if pool, exists := tr.pools[tenantID]; exists {
		return pool, nil
	}
	pool, err := NewPoolForSchema(ctx, tr.cfg, SchemaForTenant(tenantID))
	if err != nil {
		return nil, fmt.Errorf("pool para tenant %s: %w", tenantID, err)
	}
	tr.pools[tenantID] = pool
	return pool, nil
}

// Close cierra todos los pools abiertos (shutdown ordenado).
func (tr *TenantResolver) Close() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for id, pool := range tr.pools {
		pool.Close()
		delete(tr.pools, id)
	}
}
