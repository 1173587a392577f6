package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// Snapshot lists every server's tools into an immutable catalog for one run.
// A server that fails to answer is included as disconnected rather than
// failing the snapshot; its nodes will then fail at dispatch with a clear
// catalog error.
func (i *Invoker) Snapshot(ctx context.Context) domain.Catalog {
	servers := make([]domain.ServerInfo, 0, len(i.servers))
	for _, srv := range i.servers {
		info := domain.ServerInfo{
			ID:   srv.ID,
			Name: srv.Name,
		}

		res, err := srv.Client.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			i.logger.Warn("mcp server did not answer tool listing",
				"server_id", srv.ID, "err", err)
			servers = append(servers, info)
			continue
		}

		info.Connected = true
		for _, t := range res.Tools {
			info.Tools = append(info.Tools, domain.ToolInfo{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema.Properties,
			})
		}
		servers = append(servers, info)
	}
	return domain.Catalog{Servers: servers}
}
