package main

import (
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dixieflatline76/Muralist/config"
	"github.com/dixieflatline76/Muralist/pkg/api"
	"github.com/dixieflatline76/Muralist/pkg/customize"
	"github.com/dixieflatline76/Muralist/pkg/customize/catalog"
	"github.com/dixieflatline76/Muralist/util/log"
)

func main() {
	cfg := config.GetConfig()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	storefront := catalog.NewClient(cfg.StorefrontURL, httpClient)
	uploadSink := customize.NewHTTPUploadSink(cfg.UploadURL, httpClient)
	cartSink := customize.NewHTTPCartSink(cfg.CartURL, httpClient)
	fetcher := customize.NewFetcher(&http.Client{Timeout: 60 * time.Second}, config.ServiceUserAgent)
	raster := customize.NewRasterizer(uploadSink)

	store := customize.NewStore()
	if cfg.SessionCacheDir != "" {
		store.SetCachePath(filepath.Join(cfg.SessionCacheDir, config.SessionCacheFile))
	}

	server := api.NewServer(cfg, store, storefront, storefront, cartSink, fetcher, raster)

	go func() {
		log.Printf("%s listening on %s", config.AppName, cfg.ListenAddr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	store.Save()
	if err := server.Stop(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
