package swagger

import (
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Docs serves the OpenAPI document and the Swagger UI that renders it.
type Docs struct {
	raw []byte
	doc *openapi3.T
}

// NewDocs parses and validates raw. An invalid document is an error.
func NewDocs(raw []byte) (*Docs, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return &Docs{raw: raw, doc: doc}, nil
}

// Document returns the parsed OpenAPI document.
func (d *Docs) Document() *openapi3.T {
	return d.doc
}

func (d *Docs) ServeSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(d.raw)
}

func (d *Docs) UI() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}
