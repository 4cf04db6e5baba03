// Package mcp отдаёт оценку качества как инструменты Model Context Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"produce-grader/internal/domain/entity"
)

// Assessor операции сервиса, доступные через MCP.
type Assessor interface {
	AssessUpload(ctx context.Context, filename string, data []byte, product entity.ProductInfo) (*entity.QualityAssessment, error)
	ModelInfo() entity.ModelInfo
}

// NewMCPServer создаёт сервер с инструментами, не запуская его.
func NewMCPServer(svc Assessor, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Produce Grader",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{svc: svc}

	s.AddTool(mcp.NewTool("assess_image",
		mcp.WithDescription("Grade the quality of a fruit or vegetable photo: score, grade A-D, defects, recommendations and price adjustment."),
		mcp.WithString("path", mcp.Description("Path to a .jpg, .jpeg, .png or .webp image."), mcp.Required()),
		mcp.WithString("product_type", mcp.Description("Product type, e.g. apple. Defaults to 'unknown'.")),
		mcp.WithString("product_category", mcp.Description("Product category, e.g. fruit. Defaults to 'unknown'.")),
	), h.handleAssessImage)

	s.AddTool(mcp.NewTool("model_info",
		mcp.WithDescription("Describe the grading model: version, extractor, scorer mode, supported formats and grade thresholds."),
	), h.handleModelInfo)

	return s
}

// Serve запускает MCP-сервер на stdio.
func Serve(_ context.Context, svc Assessor, version string) error {
	return server.ServeStdio(NewMCPServer(svc, version))
}
