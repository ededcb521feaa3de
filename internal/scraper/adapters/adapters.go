// Package adapters wires every marketplace adapter into a registry.
package adapters

import (
	"fmt"

	"github.com/autodeal-hq/go-pricer/internal/config"
	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
	"github.com/autodeal-hq/go-pricer/internal/scraper/autotrader"
	"github.com/autodeal-hq/go-pricer/internal/scraper/cargurus"
	"github.com/autodeal-hq/go-pricer/internal/scraper/carscom"
	"github.com/autodeal-hq/go-pricer/internal/scraper/dubizzle"
	"github.com/autodeal-hq/go-pricer/internal/scraper/hatla2ee"
	"github.com/autodeal-hq/go-pricer/internal/scraper/opensooq"
	"github.com/autodeal-hq/go-pricer/internal/scraper/syarah"
	"github.com/autodeal-hq/go-pricer/internal/scraper/yallamotor"
)

// Build constructs one adapter per supported platform. Each adapter gets
// its own fetcher so pacing applies per platform rather than globally.
func Build(cfg config.ScraperConfig) (scraper.Registry, error) {
	registry := make(scraper.Registry, len(domain.AllPlatforms))

	for _, p := range domain.AllPlatforms {
		fetcher, err := scraper.NewFetcher(cfg)
		if err != nil {
			return nil, fmt.Errorf("fetcher for %s: %w", p, err)
		}

		switch p {
		case domain.PlatformDubizzle:
			registry[p] = dubizzle.New(fetcher)
		case domain.PlatformOpenSooq:
			registry[p] = opensooq.New(fetcher)
		case domain.PlatformSyarah:
			registry[p] = syarah.New(fetcher)
		case domain.PlatformYallaMotor:
			registry[p] = yallamotor.New(fetcher)
		case domain.PlatformHatla2ee:
			registry[p] = hatla2ee.New(fetcher)
		case domain.PlatformAutoTrader:
			registry[p] = autotrader.New(fetcher)
		case domain.PlatformCarsCom:
			registry[p] = carscom.New(fetcher)
		case domain.PlatformCarGurus:
			registry[p] = cargurus.New(fetcher)
		}
	}

	return registry, nil
}
