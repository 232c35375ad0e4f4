package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title != "Fantasy Trends API" {
		t.Fatalf("unexpected title %q", SwaggerInfo.Title)
	}
}

func TestSwaggerDocRenders(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	var doc struct {
		Paths               map[string]map[string]json.RawMessage `json:"paths"`
		SecurityDefinitions map[string]json.RawMessage            `json:"securityDefinitions"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("rendered doc is not JSON: %v", err)
	}
	for _, path := range []string{"/api/players", "/api/alerts", "/api/sleepers", "/api/favorites", "/api/dashboard", "/api/compare", "/api/status"} {
		if _, ok := doc.Paths[path]["get"]; !ok {
			t.Fatalf("missing GET %s", path)
		}
	}
	if _, ok := doc.Paths["/api/refresh"]["post"]; !ok {
		t.Fatal("missing POST /api/refresh")
	}
	if _, ok := doc.SecurityDefinitions["ApiKeyAuth"]; !ok {
		t.Fatal("missing ApiKeyAuth security definition")
	}
}
