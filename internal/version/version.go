package version

// Version is the current version of the signal-replay engine.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/signal-replay/internal/version.Version=1.2.3"
var Version = "v0.3.0"

// GetVersion returns the current version of the engine.
func GetVersion() string {
	return Version
}
