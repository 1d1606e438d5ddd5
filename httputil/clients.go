package httputil

import (
	"net/http"
	"net/url"
	"time"

	"propscout/config"
)

type Clients struct {
	Scraping *http.Client // for listing portals, optionally proxied
	API      *http.Client // direct, for model APIs
}

func NewClients(cfg *config.ScraperConfig) *Clients {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 4,
	}
	if cfg.ProxyURL != "" {
		if proxyURL, err := url.Parse(cfg.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	scraping := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	return &Clients{
		Scraping: scraping,
		API:      &http.Client{Timeout: 30 * time.Second},
	}
}
