package provider

import (
	"errors"
	"testing"

	"fantasy-trends/internal/config"

	"go.opentelemetry.io/otel/trace"
)

func TestForConfig(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")

	tests := []struct {
		source  string
		want    string
		wantErr error
	}{
		{source: config.SourceDemo, want: DemoSourceName},
		{source: config.SourceSupabase, want: SupabaseSourceName},
		{source: "", want: SupabaseSourceName},
		{source: config.SourcePostgres, wantErr: ErrNoDatabase},
	}
	for _, tt := range tests {
		src, err := ForConfig(&config.Config{TrendSource: tt.source, SupabaseURL: "http://localhost"}, tracer, nil)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("%q: expected %v, got %v", tt.source, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.source, err)
		}
		if src.Name() != tt.want {
			t.Fatalf("%q: expected %s source, got %s", tt.source, tt.want, src.Name())
		}
	}
}
