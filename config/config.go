// Package config provides configuration management for the Muralist
// customization service.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config holds all configuration data for the service.
type Config struct {
	ListenAddr      string  `json:"listen_addr"`
	StorefrontURL   string  `json:"storefront_url"`   // product + material catalog API
	UploadURL       string  `json:"upload_url"`       // file storage endpoint
	CartURL         string  `json:"cart_url"`         // cart API endpoint
	Currency        string  `json:"currency"`
	MaxDimensionCm  float64 `json:"max_dimension_cm"` // sanity cap on entered measurements
	SessionCacheDir string  `json:"session_cache_dir"`
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}
		if err := instance.loadFromFile(GetFilename()); err != nil {
			fmt.Println("Error loading config:", err)
			instance.setDefaultValues()
		}
	})
	return instance
}

// GetFilename returns the path to the user's config file
func GetFilename() string {
	return filepath.Join(GetPath(), "config.json")
}

// GetPath returns the path to the user's config directory
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// loadFromFile loads configuration from the specified file
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err // Return the error for handling in GetConfig()
	}
	return json.Unmarshal(data, c)
}

// setDefaultValues sets default values for the configuration
func (c *Config) setDefaultValues() {
	c.ListenAddr = DefaultListenAddr
	c.StorefrontURL = "http://127.0.0.1:8080/api"
	c.UploadURL = "http://127.0.0.1:8080/storage"
	c.CartURL = "http://127.0.0.1:8080/api/cart"
	c.Currency = DefaultCurrency
	c.MaxDimensionCm = DefaultMaxDimensionCm
	c.SessionCacheDir = GetPath()
}

// Save saves the current configuration to the user's config file
func (c *Config) Save() {
	cfgFile := GetFilename()
	if err := os.MkdirAll(filepath.Dir(cfgFile), 0700); err != nil {
		log.Fatalf("Error creating config directory: %v", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding config data: %v", err)
	}

	if err := os.WriteFile(cfgFile, data, 0644); err != nil {
		log.Fatalf("Error writing config file: %v", err)
	}
}
