package config

import "strings"

// AppVersion is the version of the service.
var AppVersion string // Or get it from version.txt during build

// AppName is the name of the service.
const AppName = "Muralist"

// ServiceUserAgent identifies the service on outbound image fetches.
const ServiceUserAgent = AppName + "/1.0"

// DefaultListenAddr is where the customization API listens.
const DefaultListenAddr = "127.0.0.1:8743"

// DefaultCurrency is the storefront currency code.
const DefaultCurrency = "TRY"

// DefaultMaxDimensionCm caps entered wall measurements.
const DefaultMaxDimensionCm = 3000

// SessionCacheFile is the session snapshot file name.
const SessionCacheFile = "sessions.json"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"
