// Eat-Already
//
// A session-backed web app: register, log in, search restaurants near a
// location via the Yelp API, and get one random pick.
package main

import (
	"go.uber.org/fx"

	"github.com/Shadpls/Eat-Already/internal/components/account"
	"github.com/Shadpls/Eat-Already/internal/components/search"
	"github.com/Shadpls/Eat-Already/internal/components/session"
	"github.com/Shadpls/Eat-Already/internal/server"
	"github.com/Shadpls/Eat-Already/internal/shared/config"
	"github.com/Shadpls/Eat-Already/internal/shared/database"
	"github.com/Shadpls/Eat-Already/internal/shared/logging"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			database.NewPgxPool,
			session.NewStore,
			account.NewRepo,
			account.NewService,
			account.NewHandler,
			search.NewYelpClient,
			search.NewZipcodeClient,
			search.NewValidator,
			search.NewService,
			search.NewHandler,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			server.NewServer,
		),
		fx.Invoke((*server.Server).Start),
	).Run()
}
