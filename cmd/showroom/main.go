package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/showroom/internal/clock"
	"github.com/smallbiznis/showroom/internal/config"
	"github.com/smallbiznis/showroom/internal/migration"
	"github.com/smallbiznis/showroom/internal/observability"
	"github.com/smallbiznis/showroom/internal/scheduler"
	"github.com/smallbiznis/showroom/internal/server"
	"github.com/smallbiznis/showroom/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// HTTP and every domain it serves
		server.Module,

		// Schema and bootstrap admin, before the listener starts
		migration.Module,

		// Share link retention and import spool cleanup
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
