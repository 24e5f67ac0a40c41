package cmd

import (
	"context"
	"sync"

	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/mcp"
	"github.com/huangsam/repohealth/internal/warehouse"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the repohealth MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents score projects, read trends
and rank contributors through standard tools.

With --watch, edits to the config file are applied to new tool calls without
restarting the server.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, wh, err := newHealthService(rootCtx, cfg)
		if err != nil {
			return err
		}
		pool := &warehousePool{current: wh, cfg: cfg}
		defer pool.closeAll()

		// Stop the watcher before the pool is closed.
		ctx, cancel := context.WithCancel(rootCtx)
		defer cancel()

		srv := mcp.NewServer(svc, cfg)

		if path := viper.ConfigFileUsed(); viper.GetBool("watch") && path != "" {
			go func() {
				reload := func() error {
					next, wh, err := pool.reload(ctx)
					if err != nil {
						return err
					}
					srv.Reload(buildHealthService(wh, next), next)
					return nil
				}
				if err := contract.WatchConfig(ctx, path, logger, reload); err != nil {
					contract.LogWarn("Config watcher stopped", err)
				}
			}()
		}

		return srv.ServeStdio()
	},
}

// warehousePool holds every warehouse opened across reloads until the server exits.
// In-flight tool calls may still use a replaced one.
type warehousePool struct {
	mu      sync.Mutex
	current *warehouse.Warehouse
	cfg     *contract.Config
	opened  []*warehouse.Warehouse
}

// reload resolves the config again and reuses the warehouse when its target is unchanged.
func (p *warehousePool) reload(ctx context.Context) (*contract.Config, *warehouse.Warehouse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := &contract.Config{}
	if err := resolveConfig(next, &contract.ConfigRawInput{}, nil); err != nil {
		return nil, nil, err
	}
	if next.WarehouseBackend == p.cfg.WarehouseBackend && next.WarehouseDBConnect == p.cfg.WarehouseDBConnect {
		p.cfg = next
		return next, p.current, nil
	}

	wh, err := warehouse.Open(ctx, next.WarehouseBackend, next.WarehouseDBConnect, logger)
	if err != nil {
		return nil, nil, err
	}
	p.opened = append(p.opened, p.current)
	p.current, p.cfg = wh, next
	return next, wh, nil
}

func (p *warehousePool) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, wh := range append(p.opened, p.current) {
		_ = wh.Close()
	}
}
