package toolhost

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
	"github.com/metoro-io/mcp-golang/transport/stdio"

	"finagent/internal/fintools"
)

const (
	// ServerName is advertised to clients during the MCP handshake.
	ServerName    = "Financial Data MCP"
	ServerVersion = "0.1.0"

	resourceURITemplate = "finance://info/{ticker}"
)

// Host serves the finance tools over MCP stdio. Log output must stay
// off stdout: that stream carries the protocol.
type Host struct {
	service *fintools.Service
	logger  *log.Logger
}

// NewHost creates a tool host. A nil logger falls back to the standard
// logger.
func NewHost(service *fintools.Service, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.Default()
	}
	return &Host{service: service, logger: logger}
}

type tickerArgs struct {
	Ticker string `json:"ticker" jsonschema:"required,description=The stock ticker symbol such as AAPL or MSFT"`
}

type financialDataArgs struct {
	Ticker        string `json:"ticker" jsonschema:"required,description=The stock ticker symbol such as AAPL or MSFT"`
	StatementType string `json:"statement_type" jsonschema:"description=Type of financial statement to retrieve. One of income; balance; or cash. Defaults to income"`
}

// buildServer assembles the MCP server on the given transport and
// registers the tool and resource surface.
func (h *Host) buildServer(base transport.Transport) (*mcp.Server, error) {
	routed := newResourceRouter(base, h.service.InfoSummary, h.logger)
	server := mcp.NewServer(routed, mcp.WithName(ServerName), mcp.WithVersion(ServerVersion))

	if err := server.RegisterTool("get_stock_info", "Get basic information about a stock", h.handleStockInfo); err != nil {
		return nil, err
	}
	if err := server.RegisterTool("get_stock_price", "Get the current price of a stock", h.handleStockPrice); err != nil {
		return nil, err
	}
	if err := server.RegisterTool("get_financial_data", "Get financial statements data for a company", h.handleFinancialData); err != nil {
		return nil, err
	}
	if err := server.RegisterTool("get_key_metrics", "Get key financial metrics including EBITDA for a company", h.handleKeyMetrics); err != nil {
		return nil, err
	}

	err := server.RegisterResourceTemplate(
		resourceURITemplate,
		"finance_info",
		"Get financial information for a ticker symbol as a resource.",
		"text/plain",
	)
	if err != nil {
		return nil, err
	}

	return server, nil
}

// Serve runs the host over stdio until the process is interrupted or
// torn down by its parent.
func (h *Host) Serve() error {
	server, err := h.buildServer(stdio.NewStdioServerTransport())
	if err != nil {
		return err
	}

	h.logger.Printf("Starting Financial Data MCP server...")
	if err := server.Serve(); err != nil {
		return err
	}

	// The transport read loop runs in the background.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

func (h *Host) handleStockInfo(ctx context.Context, args tickerArgs) (*mcp.ToolResponse, error) {
	info, err := h.service.StockInfo(ctx, args.Ticker)
	return toolResult(info, err)
}

func (h *Host) handleStockPrice(ctx context.Context, args tickerArgs) (*mcp.ToolResponse, error) {
	price, err := h.service.StockPrice(ctx, args.Ticker)
	return toolResult(price, err)
}

func (h *Host) handleFinancialData(ctx context.Context, args financialDataArgs) (*mcp.ToolResponse, error) {
	data, err := h.service.FinancialData(ctx, args.Ticker, args.StatementType)
	return toolResult(data, err)
}

func (h *Host) handleKeyMetrics(ctx context.Context, args tickerArgs) (*mcp.ToolResponse, error) {
	metrics, err := h.service.KeyMetrics(ctx, args.Ticker)
	return toolResult(metrics, err)
}

// toolResult renders a payload or an expected failure as the tool's
// JSON text content. Anything else reports as a protocol-level error.
func toolResult(payload any, err error) (*mcp.ToolResponse, error) {
	if err != nil {
		var toolErr *fintools.ToolError
		if errors.As(err, &toolErr) {
			return jsonContent(map[string]string{"error": toolErr.Message})
		}
		return nil, err
	}
	return jsonContent(payload)
}

func jsonContent(v any) (*mcp.ToolResponse, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(string(raw))), nil
}
