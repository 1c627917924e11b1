// Package main is the entry point for the rdcredit-service application.
//
// @title           R&D Credit Service API
// @version         1.0.0
// @description     Estimates R&D tax credits and serves the customer portal backed by Airtable.
//
//	Portal reads are cached in Redis and invalidated on every successful write.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/rdcredit-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Session token from /api/auth/lookup, sent as "Bearer <token>".
//
// @securityDefinitions.basic  BasicAuth
//
// @tag.name        Estimator
// @tag.description Credit estimation and pricing
//
// @tag.name        Auth
// @tag.description Portal session lookup
//
// @tag.name        Portal
// @tag.description Customer, company, expense and wage records
//
// @tag.name        Health
// @tag.description Health check endpoints
//
// @tag.name        Admin
// @tag.description Operator endpoints behind basic auth
package main

import (
	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/rdcredit-service/docs" // swagger docs

	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/app"
)

func main() {
	cfg := config.Load()

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server.Port)
	server.OnShutdown(application.Close)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
