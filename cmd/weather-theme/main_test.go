package main

import (
	"net/http"
	"testing"

	"github.com/i474232898/weather-theme/internal/config"
	"github.com/i474232898/weather-theme/internal/logger"
)

func TestBuildProviders(t *testing.T) {
	log = logger.Nop()

	tests := []struct {
		name    string
		cfg     config.AppConfig
		want    []string
		wantErr bool
	}{
		{
			name: "keys present keep order",
			cfg:  config.AppConfig{Providers: []string{"weatherapi", "openweather"}, OpenWeatherAPIKey: "a", WeatherAPIKey: "b"},
			want: []string{"weatherapi", "openweathermap"},
		},
		{
			name: "missing key is skipped",
			cfg:  config.AppConfig{Providers: []string{"openweather", "openmeteo"}},
			want: []string{"openmeteo"},
		},
		{
			name:    "nothing usable",
			cfg:     config.AppConfig{Providers: []string{"openweather", "weatherapi"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provs, err := buildProviders(&tt.cfg, http.DefaultClient)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(provs) != len(tt.want) {
				t.Fatalf("got %d providers, want %d", len(provs), len(tt.want))
			}
			for i, p := range provs {
				if p.Name() != tt.want[i] {
					t.Errorf("provider %d = %q, want %q", i, p.Name(), tt.want[i])
				}
			}
		})
	}
}
