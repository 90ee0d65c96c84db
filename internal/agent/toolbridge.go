package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
	mcp "github.com/metoro-io/mcp-golang"
)

// mcpClient is the slice of the MCP client the bridge needs.
type mcpClient interface {
	ListTools(ctx context.Context, cursor *string) (*mcp.ToolsResponse, error)
	CallTool(ctx context.Context, name string, arguments any) (*mcp.ToolResponse, error)
}

// DiscoverTools pages through the host's tool list and wraps each entry
// for the agent loop.
func DiscoverTools(ctx context.Context, client mcpClient) ([]tool.BaseTool, error) {
	var tools []tool.BaseTool
	var cursor *string
	for {
		page, err := client.ListTools(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list tools: %w", err)
		}
		for _, entry := range page.Tools {
			tools = append(tools, newHostedTool(client, entry))
		}
		if page.NextCursor == nil || *page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	return tools, nil
}

// hostedTool adapts one discovered MCP tool to the agent tool
// interface. Arguments flow through as raw JSON; results come back as
// the concatenated text content of the host's reply.
type hostedTool struct {
	client mcpClient
	name   string
	desc   string
	params *schema.ParamsOneOf
}

func newHostedTool(client mcpClient, entry mcp.ToolRetType) *hostedTool {
	desc := ""
	if entry.Description != nil {
		desc = *entry.Description
	}
	return &hostedTool{
		client: client,
		name:   entry.Name,
		desc:   desc,
		params: paramsFromSchema(entry.InputSchema),
	}
}

func (t *hostedTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name:        t.name,
		Desc:        t.desc,
		ParamsOneOf: t.params,
	}, nil
}

func (t *hostedTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	args := map[string]any{}
	if strings.TrimSpace(argumentsInJSON) != "" {
		if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
			// Models sometimes emit almost-JSON; repair before giving up.
			repaired, repairErr := jsonrepair.JSONRepair(argumentsInJSON)
			if repairErr != nil || json.Unmarshal([]byte(repaired), &args) != nil {
				return "", fmt.Errorf("invalid arguments for tool %s: %v", t.name, err)
			}
		}
	}

	resp, err := t.client.CallTool(ctx, t.name, args)
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", t.name, err)
	}
	return contentText(resp), nil
}

func contentText(resp *mcp.ToolResponse) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, len(resp.Content))
	for _, content := range resp.Content {
		if content != nil && content.TextContent != nil {
			parts = append(parts, content.TextContent.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// paramsFromSchema converts an advertised JSON schema into parameter
// info for the model. The host's schemas are flat objects; anything
// unrecognized degrades to an empty parameter set instead of failing
// discovery.
func paramsFromSchema(raw any) *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(parameterInfos(raw))
}

func parameterInfos(raw any) map[string]*schema.ParameterInfo {
	params := map[string]*schema.ParameterInfo{}

	root, ok := raw.(map[string]any)
	if !ok {
		return params
	}

	required := map[string]bool{}
	if list, ok := root["required"].([]any); ok {
		for _, item := range list {
			if name, ok := item.(string); ok {
				required[name] = true
			}
		}
	}

	props, _ := root["properties"].(map[string]any)
	for name, rawProp := range props {
		info := &schema.ParameterInfo{
			Type:     schema.String,
			Required: required[name],
		}
		if prop, ok := rawProp.(map[string]any); ok {
			if typ, ok := prop["type"].(string); ok {
				info.Type = dataTypeOf(typ)
			}
			if desc, ok := prop["description"].(string); ok {
				info.Desc = desc
			}
		}
		params[name] = info
	}

	return params
}

func dataTypeOf(jsonType string) schema.DataType {
	switch jsonType {
	case "integer":
		return schema.Integer
	case "number":
		return schema.Number
	case "boolean":
		return schema.Boolean
	case "array":
		return schema.Array
	case "object":
		return schema.Object
	default:
		return schema.String
	}
}
