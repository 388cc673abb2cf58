package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pedalworks/rentora/internal/config"
	"github.com/pedalworks/rentora/internal/migration"
	"github.com/pedalworks/rentora/internal/observability"
	"github.com/pedalworks/rentora/internal/server"
	"github.com/pedalworks/rentora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
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
