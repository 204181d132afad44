package config

import "strings"

// AppVersion is the version of the application, set at build time.
var AppVersion = "0.1.0"

// AppName is the name of the application.
const AppName = "Recrop"

// AppID is the fyne application id, used as the preferences namespace.
const AppID = "io.github.dixieflatline76.recrop"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// ConfigFileName is the name of the bridge configuration file inside the config directory.
const ConfigFileName = "config.toml"
