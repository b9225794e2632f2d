package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// AppName is the display name printed in the startup banner
const AppName = "QuoteDoc"

// PrintBanner displays the application banner and the settings that decide
// where it listens and where PDFs go
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple(AppName, GetVersion())

	fmt.Printf("   API:      http://%s:%d/api\n", config.Server.Host, config.Server.Port)
	fmt.Printf("   Output:   %s\n", config.Storage.Output.Dir)
	fmt.Printf("   Browsers: %d (headless=%t)\n", config.Browser.MaxInstances, config.Browser.Headless)
	if config.Storage.Seed.Dir != "" {
		fmt.Printf("   Seed:     %s\n", config.Storage.Seed.Dir)
	}
	fmt.Println()

	logger.Info().
		Str("version", GetFullVersion()).
		Msg("QuoteDoc starting")
}
