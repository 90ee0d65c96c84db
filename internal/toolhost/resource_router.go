package toolhost

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"sync"

	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
)

const resourceURIPrefix = "finance://info/"

// resourceRouter wraps the host transport to answer templated
// finance://info/{ticker} reads. The MCP library dispatches
// resources/read by exact URI only, so template reads would otherwise
// come back as unknown resources; everything else passes through to
// the server untouched.
type resourceRouter struct {
	inner  transport.Transport
	render func(ctx context.Context, ticker string) string
	logger *log.Logger

	mu         sync.RWMutex
	downstream func(ctx context.Context, message *transport.BaseJsonRpcMessage)
}

func newResourceRouter(inner transport.Transport, render func(ctx context.Context, ticker string) string, logger *log.Logger) *resourceRouter {
	return &resourceRouter{
		inner:  inner,
		render: render,
		logger: logger,
	}
}

func (r *resourceRouter) Start(ctx context.Context) error {
	return r.inner.Start(ctx)
}

func (r *resourceRouter) Send(ctx context.Context, message *transport.BaseJsonRpcMessage) error {
	return r.inner.Send(ctx, message)
}

func (r *resourceRouter) Close() error {
	return r.inner.Close()
}

func (r *resourceRouter) SetCloseHandler(handler func()) {
	r.inner.SetCloseHandler(handler)
}

func (r *resourceRouter) SetErrorHandler(handler func(error)) {
	r.inner.SetErrorHandler(handler)
}

func (r *resourceRouter) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	r.mu.Lock()
	r.downstream = handler
	r.mu.Unlock()
	r.inner.SetMessageHandler(r.onMessage)
}

func (r *resourceRouter) onMessage(ctx context.Context, message *transport.BaseJsonRpcMessage) {
	if uri, ticker, ok := infoReadRequest(message); ok {
		// Rendering hits the provider; keep the read loop free.
		go r.serveInfo(ctx, message.JsonRpcRequest.Id, uri, ticker)
		return
	}

	r.mu.RLock()
	downstream := r.downstream
	r.mu.RUnlock()
	if downstream != nil {
		downstream(ctx, message)
	}
}

// infoReadRequest reports whether the message is a resources/read for
// the info template, and if so which ticker it names.
func infoReadRequest(message *transport.BaseJsonRpcMessage) (string, string, bool) {
	if message == nil || message.Type != transport.BaseMessageTypeJSONRPCRequestType || message.JsonRpcRequest == nil {
		return "", "", false
	}
	req := message.JsonRpcRequest
	if req.Method != "resources/read" {
		return "", "", false
	}

	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return "", "", false
	}
	ticker, ok := tickerFromURI(params.URI)
	if !ok {
		return "", "", false
	}
	return params.URI, ticker, true
}

func tickerFromURI(uri string) (string, bool) {
	if !strings.HasPrefix(uri, resourceURIPrefix) {
		return "", false
	}
	ticker := strings.TrimPrefix(uri, resourceURIPrefix)
	if ticker == "" || strings.Contains(ticker, "/") {
		return "", false
	}
	if unescaped, err := url.PathUnescape(ticker); err == nil {
		ticker = unescaped
	}
	return ticker, true
}

func (r *resourceRouter) serveInfo(ctx context.Context, id transport.RequestId, uri, ticker string) {
	body := r.render(ctx, ticker)

	resource := mcp.NewResourceResponse(mcp.NewTextEmbeddedResource(uri, body, "text/plain"))
	raw, err := json.Marshal(resource)
	if err != nil {
		r.logger.Printf("Failed to marshal resource response for %s: %v", uri, err)
		return
	}

	msg := transport.NewBaseMessageResponse(&transport.BaseJSONRPCResponse{
		Jsonrpc: "2.0",
		Id:      id,
		Result:  raw,
	})
	if err := r.inner.Send(ctx, msg); err != nil {
		r.logger.Printf("Failed to send resource response for %s: %v", uri, err)
	}
}
