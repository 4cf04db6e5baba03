package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"produce-grader/internal/domain/entity"
)

type toolHandler struct {
	svc Assessor
}

func (h *toolHandler) handleAssessImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read image: %v", err)), nil
	}

	product := entity.ProductInfo{
		Type:     request.GetString("product_type", ""),
		Category: request.GetString("product_category", ""),
	}.Normalized()

	assessment, err := h.svc.AssessUpload(ctx, filepath.Base(path), data, product)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("assessment failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(assessment, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleModelInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(h.svc.ModelInfo(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
