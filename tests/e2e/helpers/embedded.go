package helpers

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/app"
	appconfig "github.com/fullstack-bloglist/bloglist-e2e/internal/config"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/database"
	"github.com/fullstack-bloglist/bloglist-e2e/tests/e2e/config"
)

// StartEmbedded runs the reference bloglist app on a local httptest server
// backed by a private in-memory database and points cfg at it. The returned
// function stops the server.
func StartEmbedded(cfg *config.TestConfig) (func(), error) {
	gin.SetMode(gin.TestMode)

	appCfg := appconfig.Default()
	appCfg.Database.DSN = database.MemoryDSN("")
	appCfg.Auth.BcryptCost = 4
	appCfg.Testing.Enabled = true
	appCfg.Metrics.Enabled = false

	a, err := app.New(context.Background(), appCfg)
	if err != nil {
		return nil, fmt.Errorf("start embedded bloglist: %w", err)
	}

	srv := httptest.NewServer(a.Handler)
	cfg.UseEmbedded(srv.URL)
	log.Printf("[e2e] embedded bloglist app listening on %s", srv.URL)

	return func() {
		srv.Close()
		a.Close()
	}, nil
}
