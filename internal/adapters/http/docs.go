package http

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
)

// DefaultOpenAPIPath is the API description relative to the repo root.
const DefaultOpenAPIPath = "api/openapi.yaml"

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%s | Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: '/docs/openapi.json', dom_id: '#swagger-ui', deepLinking: true});
  </script>
</body>
</html>`

// apiDocs is the OpenAPI document in both encodings, loaded once.
type apiDocs struct {
	title string
	yaml  []byte
	json  []byte
}

func loadDocs(ctx context.Context, specPath string) (*apiDocs, error) {
	raw, err := os.ReadFile(specPath)
	if err != nil {
		return nil, err
	}
	doc, err := openapi3.NewLoader().LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", specPath, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate %s: %w", specPath, err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &apiDocs{title: doc.Info.Title, yaml: raw, json: js}, nil
}

// SetupDocs mounts Swagger UI at /docs and the API description at
// /docs/openapi.yaml and /docs/openapi.json. A document that fails to load
// or validate is logged and the routes answer 404.
func SetupDocs(app *fiber.App, specPath string) {
	if specPath == "" {
		specPath = DefaultOpenAPIPath
	}
	docs, err := loadDocs(context.Background(), specPath)
	if err != nil {
		slog.Warn("api docs disabled", "path", specPath, "error", err)
	}

	serve := func(contentType string, body func(*apiDocs) []byte) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if docs == nil {
				return errNotFound(c, "api description not available")
			}
			c.Set(fiber.HeaderContentType, contentType)
			c.Set(fiber.HeaderCacheControl, "public, max-age=300")
			return c.Send(body(docs))
		}
	}

	app.Get("/docs", serve(fiber.MIMETextHTMLCharsetUTF8, func(d *apiDocs) []byte {
		return []byte(fmt.Sprintf(swaggerUIPage, html.EscapeString(d.title)))
	}))
	app.Get("/docs/openapi.yaml", serve("application/yaml", func(d *apiDocs) []byte { return d.yaml }))
	app.Get("/docs/openapi.json", serve(fiber.MIMEApplicationJSON, func(d *apiDocs) []byte { return d.json }))
}
