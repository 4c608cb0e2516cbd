package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/questboard/backend/pkg/xcontext"
)

func (s *srv) startFetch(cctx *cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadSearchIndex()
	s.loadPublisher()
	s.loadRepos()
	s.loadPipeline()

	reports, err := s.pipeline.RunCycle(s.ctx, cctx.Args().First())
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(encoded))
	return s.publisher.Stop(s.ctx)
}
