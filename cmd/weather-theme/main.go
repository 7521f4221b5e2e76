package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-theme/internal/config"
	"github.com/i474232898/weather-theme/internal/logger"
	"github.com/i474232898/weather-theme/internal/store"
	"github.com/i474232898/weather-theme/internal/weather"
	"github.com/i474232898/weather-theme/internal/weather/providers"
)

const appName = "weather-theme"

var (
	cfg     *config.AppConfig
	log     *logger.Logger
	service *weather.Service
)

func main() {
	rootCmd := &cobra.Command{
		Use:               appName,
		Short:             "Current weather with a presentation theme",
		Long:              "Looks up current conditions for a city and classifies them into a background theme with a day/night flag.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.AddCommand(serveCmd(), getCmd(), interactiveCmd(), themesCmd(), providersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the shared service for every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log = logger.Get(cfg.LogLevel)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	provs, err := buildProviders(cfg, httpClient)
	if err != nil {
		return err
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	service = weather.NewService(memStore, provs, weather.NewClassifier(cfg.Thresholds), log)
	return nil
}

func buildProviders(cfg *config.AppConfig, client *http.Client) ([]weather.Provider, error) {
	backoff := providers.DefaultBackoff(cfg.ProviderMaxRetries)

	var provs []weather.Provider
	for _, name := range cfg.Providers {
		switch name {
		case config.ProviderOpenWeather:
			if cfg.OpenWeatherAPIKey == "" {
				log.Warn("openweather listed in PROVIDERS but OPENWEATHER_API_KEY is empty; skipping")
				continue
			}
			provs = append(provs, providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey, backoff))
		case config.ProviderWeatherAPI:
			if cfg.WeatherAPIKey == "" {
				log.Warn("weatherapi listed in PROVIDERS but WEATHERAPI_API_KEY is empty; skipping")
				continue
			}
			provs = append(provs, providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey, backoff))
		case config.ProviderOpenMeteo:
			provs = append(provs, providers.NewOpenMeteoProvider(client, backoff))
		}
	}

	if len(provs) == 0 {
		return nil, fmt.Errorf("no usable weather providers; set an API key or add openmeteo to PROVIDERS")
	}
	return provs, nil
}
