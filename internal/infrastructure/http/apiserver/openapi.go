package apiserver

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPIHandler serves the API description and a docs page
type OpenAPIHandler struct {
	logger   *zap.Logger
	yamlSpec []byte
	jsonSpec []byte
}

// NewOpenAPIHandler loads the embedded document and prepares its JSON form
func NewOpenAPIHandler(logger *zap.Logger) (*OpenAPIHandler, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(openAPISpec, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}

	jsonSpec, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}

	return &OpenAPIHandler{
		logger:   logger.Named("openapi"),
		yamlSpec: openAPISpec,
		jsonSpec: jsonSpec,
	}, nil
}

// Register mounts the document routes on group
func (h *OpenAPIHandler) Register(group *gin.RouterGroup) {
	group.GET("/openapi.yaml", h.ServeYAML)
	group.GET("/openapi.json", h.ServeJSON)
	group.GET("/docs", h.ServeDocs)
}

// ServeYAML handles GET /api/v1/openapi.yaml
func (h *OpenAPIHandler) ServeYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/x-yaml", h.yamlSpec)
}

// ServeJSON handles GET /api/v1/openapi.json
func (h *OpenAPIHandler) ServeJSON(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", h.jsonSpec)
}

// ServeDocs renders the document with Redoc
func (h *OpenAPIHandler) ServeDocs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
}

const docsPage = `<!DOCTYPE html>
<html>
<head>
    <title>Recipebox API</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
    <redoc spec-url="openapi.yaml"></redoc>
    <script src="https://cdn.redoc.ly/redoc/2.1.3/bundles/redoc.standalone.js"></script>
</body>
</html>`
