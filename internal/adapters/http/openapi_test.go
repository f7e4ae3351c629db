package http_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPISpec locates the openapi.yaml file by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	dir, _ := os.Getwd()

	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()

	data, err := os.ReadFile(findOpenAPISpec(t))
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{Context: context.Background(), IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse openapi.yaml: %v", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		t.Fatalf("openapi.yaml is not a valid OpenAPI 3 document: %v", err)
	}
	return spec
}

// TestOpenAPISpec validates the OpenAPI document parses and passes validation.
func TestOpenAPISpec(t *testing.T) {
	loadSpec(t)
}

func TestOpenAPIInfo(t *testing.T) {
	spec := loadSpec(t)

	if spec.Info.Title != "AstroAtlas API" {
		t.Errorf("unexpected title %q", spec.Info.Title)
	}
	if spec.Info.Version != "1.0.0" {
		t.Errorf("unexpected version %q", spec.Info.Version)
	}
	if spec.Info.Description == "" {
		t.Error("expected a non-empty description")
	}
	if len(spec.Servers) == 0 {
		t.Error("expected at least one server entry")
	}
}

// TestOpenAPICoversRoutes checks that every route the router registers is documented.
func TestOpenAPICoversRoutes(t *testing.T) {
	spec := loadSpec(t)

	expected := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/profiles",
		"/v1/profiles/{id}",
		"/v1/profiles/{id}/watch",
		"/v1/profiles/{id}/chart",
		"/v1/profiles/{id}/lines",
		"/v1/profiles/{id}/lines/nearest",
		"/v1/profiles/{id}/lines/search",
		"/v1/profiles/{id}/transits",
		"/v1/profiles/{id}/hotspots/cities",
		"/v1/profiles/{id}/hotspots/viewport",
		"/v1/synastry/composite",
		"/v1/synastry/overlay",
		"/v1/synastry/bond",
		"/v1/reports",
		"/v1/reports/{id}",
		"/v1/transits",
		"/v1/cities/search",
		"/v1/cities/nearby",
		"/v1/stats",
		"/graphql",
	}
	for _, path := range expected {
		if spec.Paths.Find(path) == nil {
			t.Errorf("path %s missing from openapi.yaml", path)
		}
	}
}

func TestOpenAPISchemas(t *testing.T) {
	spec := loadSpec(t)

	expected := []string{
		"BirthProfile",
		"GeoPoint",
		"PlanetPosition",
		"Chart",
		"AstroLine",
		"NearestLineResult",
		"SynastryOverlap",
		"OverlapGroup",
		"BondSummary",
		"BondReport",
		"LineActivation",
		"City",
		"CityRef",
		"CityHotspot",
		"AtlasStats",
		"APIError",
		"Pagination",
	}
	for _, name := range expected {
		if _, ok := spec.Components.Schemas[name]; !ok {
			t.Errorf("schema %s missing from openapi.yaml", name)
		}
	}
}

func TestOpenAPILegacyTransitsDeprecated(t *testing.T) {
	spec := loadSpec(t)

	item := spec.Paths.Find("/v1/transits")
	if item == nil {
		t.Fatal("path /v1/transits missing from openapi.yaml")
	}
	if item.Get == nil || !item.Get.Deprecated {
		t.Error("expected GET /v1/transits to be marked deprecated")
	}
}
