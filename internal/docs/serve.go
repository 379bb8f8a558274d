package docs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/people-api/internal/http/router"
)

// Output formats understood by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Paths the document and the UI are served on.
const (
	UIPath   = "/api-docs"
	JSONPath = "/api-docs/openapi.json"
	YAMLPath = "/api-docs/openapi.yaml"
)

// Write encodes doc to w as indented JSON or as YAML.
func Write(w io.Writer, doc *openapi3.T, format string) error {
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Encode renders doc in the given format.
//
// YAML goes through a yaml.Node built from the JSON encoding so key order
// stays the same as in the JSON output.
func Encode(doc *openapi3.T, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("docs: encode json: %w", err)
	}

	switch format {
	case FormatJSON:
		return append(data, '\n'), nil
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("docs: decode json as yaml: %w", err)
		}
		blockStyle(&node)

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return nil, fmt.Errorf("docs: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("docs: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("docs: unknown format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}

// blockStyle drops the flow and quoting styles the JSON source left on
// every node.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Routes returns the /api-docs routes serving doc. They are not part of
// the document themselves.
func Routes(doc *openapi3.T) ([]router.Route, error) {
	jsonDoc, err := Encode(doc, FormatJSON)
	if err != nil {
		return nil, err
	}
	yamlDoc, err := Encode(doc, FormatYAML)
	if err != nil {
		return nil, err
	}

	return []router.Route{
		{Method: http.MethodGet, Path: UIPath, Handler: serveBytes("text/html; charset=utf-8", []byte(swaggerUI))},
		{Method: http.MethodGet, Path: JSONPath, Handler: serveBytes("application/json", jsonDoc)},
		{Method: http.MethodGet, Path: YAMLPath, Handler: serveBytes("application/yaml", yamlDoc)},
	}, nil
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			slog.Error("write docs response", slog.String("error", err.Error()))
		}
	}
}

const swaggerUI = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>` + Title + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "` + JSONPath + `", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`
