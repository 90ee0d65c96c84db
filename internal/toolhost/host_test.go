package toolhost

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/metoro-io/mcp-golang/transport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finagent/internal/dataflows"
	"finagent/internal/fintools"
)

// fakeTransport drives the server the way the stdio pipe would: requests
// go in through the message handler, responses come back through Send.
type fakeTransport struct {
	mu      sync.Mutex
	handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)
	sent    chan *transport.BaseJsonRpcMessage
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{sent: make(chan *transport.BaseJsonRpcMessage, 8)}
}

func (f *fakeTransport) Start(ctx context.Context) error { return nil }

func (f *fakeTransport) Send(ctx context.Context, message *transport.BaseJsonRpcMessage) error {
	f.sent <- message
	return nil
}

func (f *fakeTransport) Close() error                { return nil }
func (f *fakeTransport) SetCloseHandler(func())      {}
func (f *fakeTransport) SetErrorHandler(func(error)) {}

func (f *fakeTransport) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
}

// roundTrip sends one request and waits for whatever the server answers.
func (f *fakeTransport) roundTrip(t *testing.T, method, params string) *transport.BaseJsonRpcMessage {
	t.Helper()

	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()
	require.NotNil(t, handler, "transport has no message handler; was Serve called?")

	handler(context.Background(), transport.NewBaseMessageRequest(&transport.BaseJSONRPCRequest{
		Jsonrpc: "2.0",
		Id:      transport.RequestId(1),
		Method:  method,
		Params:  json.RawMessage(params),
	}))

	select {
	case msg := <-f.sent:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no response from server")
		return nil
	}
}

type stubMarketData struct {
	profile    *dataflows.CompanyProfile
	profileErr error
	table      *dataflows.StatementTable
	tableErr   error
}

func (s *stubMarketData) CompanyProfile(ctx context.Context, symbol string) (*dataflows.CompanyProfile, error) {
	return s.profile, s.profileErr
}

func (s *stubMarketData) Quote(ctx context.Context, symbol string) (*dataflows.Quote, error) {
	return nil, errors.New("quote not stubbed")
}

func (s *stubMarketData) Statement(ctx context.Context, symbol string, kind dataflows.StatementKind) (*dataflows.StatementTable, error) {
	return s.table, s.tableErr
}

func testProfile() *dataflows.CompanyProfile {
	return &dataflows.CompanyProfile{
		Symbol:       "AAPL",
		ShortName:    "Apple Inc.",
		LongName:     "Apple Inc.",
		Sector:       "Technology",
		Industry:     "Consumer Electronics",
		Currency:     "USD",
		MarketCap:    3450000000000,
		CurrentPrice: decimal.NewNullDecimal(decimal.NewFromFloat(231.41)),
	}
}

func startHost(t *testing.T, data dataflows.MarketData) *fakeTransport {
	t.Helper()

	quiet := log.New(io.Discard, "", 0)
	host := NewHost(fintools.NewService(data, quiet), quiet)

	base := newFakeTransport()
	server, err := host.buildServer(base)
	require.NoError(t, err)
	require.NoError(t, server.Serve())
	return base
}

// toolText pulls the text content out of a tools/call response.
func toolText(t *testing.T, msg *transport.BaseJsonRpcMessage) string {
	t.Helper()

	require.Equal(t, transport.BaseMessageTypeJSONRPCResponseType, msg.Type)
	require.NotNil(t, msg.JsonRpcResponse)
	assert.Equal(t, transport.RequestId(1), msg.JsonRpcResponse.Id)

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(msg.JsonRpcResponse.Result, &result))
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	return result.Content[0].Text
}

func TestListTools(t *testing.T) {
	tr := startHost(t, &stubMarketData{profile: testProfile()})

	msg := tr.roundTrip(t, "tools/list", `{}`)
	require.Equal(t, transport.BaseMessageTypeJSONRPCResponseType, msg.Type)

	var result struct {
		Tools []struct {
			Name        string         `json:"name"`
			Description *string        `json:"description"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(msg.JsonRpcResponse.Result, &result))
	require.Len(t, result.Tools, 4)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"get_financial_data", "get_key_metrics", "get_stock_info", "get_stock_price"}, names)

	for _, tool := range result.Tools {
		props, ok := tool.InputSchema["properties"].(map[string]any)
		require.True(t, ok, "tool %s has no properties", tool.Name)
		assert.Contains(t, props, "ticker")
		if tool.Name == "get_financial_data" {
			assert.Contains(t, props, "statement_type")
		}
	}
}

func TestListResourceTemplates(t *testing.T) {
	tr := startHost(t, &stubMarketData{profile: testProfile()})

	msg := tr.roundTrip(t, "resources/templates/list", `{}`)
	require.Equal(t, transport.BaseMessageTypeJSONRPCResponseType, msg.Type)
	assert.Contains(t, string(msg.JsonRpcResponse.Result), "finance://info/{ticker}")
	assert.Contains(t, string(msg.JsonRpcResponse.Result), "finance_info")
}

func TestCallStockInfo(t *testing.T) {
	tr := startHost(t, &stubMarketData{profile: testProfile()})

	msg := tr.roundTrip(t, "tools/call", `{"name":"get_stock_info","arguments":{"ticker":"AAPL"}}`)
	text := toolText(t, msg)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, "Apple Inc.", payload["shortName"])
	assert.Equal(t, "Technology", payload["sector"])
	assert.Equal(t, 231.41, payload["currentPrice"])
	assert.NotContains(t, payload, "error")
}

func TestCallToolExpectedFailure(t *testing.T) {
	data := &stubMarketData{
		profileErr: &dataflows.UpstreamError{
			Op:     "profile",
			Symbol: "ZZZZ",
			Err:    errors.New("API error 404: Quote not found"),
		},
	}
	tr := startHost(t, data)

	msg := tr.roundTrip(t, "tools/call", `{"name":"get_stock_info","arguments":{"ticker":"ZZZZ"}}`)
	text := toolText(t, msg)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, "Could not retrieve information for ZZZZ: API error 404: Quote not found", payload["error"])
}

func TestCallToolUnexpectedFailure(t *testing.T) {
	tr := startHost(t, &stubMarketData{profileErr: errors.New("nil map write")})

	msg := tr.roundTrip(t, "tools/call", `{"name":"get_stock_info","arguments":{"ticker":"AAPL"}}`)
	assert.Equal(t, transport.BaseMessageTypeJSONRPCErrorType, msg.Type)
}

func TestCallFinancialDataInvalidSelector(t *testing.T) {
	tr := startHost(t, &stubMarketData{})

	msg := tr.roundTrip(t, "tools/call", `{"name":"get_financial_data","arguments":{"ticker":"AAPL","statement_type":"weekly"}}`)
	text := toolText(t, msg)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, "Invalid statement type: weekly. Use 'income', 'balance', or 'cash'.", payload["error"])
}

func TestResourceRead(t *testing.T) {
	tr := startHost(t, &stubMarketData{profile: testProfile()})

	msg := tr.roundTrip(t, "resources/read", `{"uri":"finance://info/AAPL"}`)
	require.Equal(t, transport.BaseMessageTypeJSONRPCResponseType, msg.Type)
	assert.Equal(t, transport.RequestId(1), msg.JsonRpcResponse.Id)

	var result struct {
		Contents []struct {
			URI      string `json:"uri"`
			MimeType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(msg.JsonRpcResponse.Result, &result))
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "finance://info/AAPL", result.Contents[0].URI)
	assert.Equal(t, "text/plain", result.Contents[0].MimeType)
	assert.Contains(t, result.Contents[0].Text, "Company: Apple Inc.")
	assert.Contains(t, result.Contents[0].Text, "Current Price: 231.41 USD")
}

func TestResourceReadProviderDown(t *testing.T) {
	data := &stubMarketData{
		profileErr: &dataflows.UpstreamError{
			Op:     "profile",
			Symbol: "AAPL",
			Err:    errors.New("connection refused"),
		},
	}
	tr := startHost(t, data)

	msg := tr.roundTrip(t, "resources/read", `{"uri":"finance://info/AAPL"}`)
	require.Equal(t, transport.BaseMessageTypeJSONRPCResponseType, msg.Type)
	assert.Contains(t, string(msg.JsonRpcResponse.Result), "Error retrieving finance info for AAPL")
}

func TestResourceReadUnknownURI(t *testing.T) {
	tr := startHost(t, &stubMarketData{profile: testProfile()})

	msg := tr.roundTrip(t, "resources/read", `{"uri":"finance://news/AAPL"}`)
	assert.Equal(t, transport.BaseMessageTypeJSONRPCErrorType, msg.Type)
}

func TestTickerFromURI(t *testing.T) {
	cases := []struct {
		uri    string
		ticker string
		ok     bool
	}{
		{"finance://info/AAPL", "AAPL", true},
		{"finance://info/BRK.B", "BRK.B", true},
		{"finance://info/BRK%2EB", "BRK.B", true},
		{"finance://info/", "", false},
		{"finance://info/AAPL/extra", "", false},
		{"finance://news/AAPL", "", false},
		{"http://example.com", "", false},
	}

	for _, tc := range cases {
		ticker, ok := tickerFromURI(tc.uri)
		assert.Equal(t, tc.ok, ok, tc.uri)
		if tc.ok {
			assert.Equal(t, tc.ticker, ticker, tc.uri)
		}
	}
}
