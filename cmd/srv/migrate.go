package main

import (
	"github.com/urfave/cli/v2"

	"github.com/questboard/backend/pkg/xcontext"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()

	return nil
}
