package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DocumentGenerator produces the document backing an approved document
// request. A failure aborts the approval; there is no approved request
// without a document reference.
type DocumentGenerator interface {
	Generate(documentType, requesterID string, quantity int) (ref string, err error)
}

// HTTPDocumentGenerator calls the external rendering service.
type HTTPDocumentGenerator struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPDocumentGenerator(baseURL string) *HTTPDocumentGenerator {
	return &HTTPDocumentGenerator{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *HTTPDocumentGenerator) Generate(documentType, requesterID string, quantity int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"document_type": documentType,
		"requester_id":  requesterID,
		"quantity":      quantity,
	})
	if err != nil {
		return "", err
	}

	resp, err := g.Client.Post(g.BaseURL+"/documents", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("document service returned %d", resp.StatusCode)
	}

	var out struct {
		Ref string `json:"ref"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Ref == "" {
		return "", fmt.Errorf("document service returned empty reference")
	}
	return out.Ref, nil
}

// LocalDocumentGenerator mints opaque references without an external service.
// Used when DOCGEN_URL is unset (development and single-node deployments).
type LocalDocumentGenerator struct{}

func (LocalDocumentGenerator) Generate(documentType, requesterID string, quantity int) (string, error) {
	return "doc-" + uuid.NewString(), nil
}
