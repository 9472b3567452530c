//go:build e2e

package e2e

import (
	"log"
	"os"
	"testing"

	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/config"
	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/helpers"
)

var suiteConfig *config.TestConfig

func TestMain(m *testing.M) {
	suiteConfig = config.GetConfig()

	stop := func() {}
	if suiteConfig.ShouldEmbed() {
		var err error
		stop, err = helpers.StartEmbedded(suiteConfig)
		if err != nil {
			log.Fatalf("[e2e] %v", err)
		}
	}

	code := m.Run()
	stop()
	os.Exit(code)
}
