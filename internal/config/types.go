package config

// Config is the root configuration structure
type Config struct {
	Settings Settings `yaml:"settings" json:"settings"`
}

// Settings contains global application settings.
// Empty values fall back to the defaults in config.go.
type Settings struct {
	SocketPath    string `yaml:"socketPath,omitempty" json:"socketPath,omitempty"`       // sway IPC socket, overrides $SWAYSOCK
	OrderFile     string `yaml:"orderFile,omitempty" json:"orderFile,omitempty"`         // monitor ordering file
	LockFile      string `yaml:"lockFile,omitempty" json:"lockFile,omitempty"`           // flock target guarding orderFile
	PositionsFile string `yaml:"positionsFile,omitempty" json:"positionsFile,omitempty"` // generated sway output positions
	LogLevel      string `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`           // zerolog level name
}
