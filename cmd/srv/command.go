package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "QuestBoard"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start the scheduled ingestion pipeline",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Runs the fetch, eviction, corpus rebuild and curve pruning jobs on their schedules.`,
		},
		{
			Action:    server.startFetch,
			Name:      "fetch",
			Usage:     "Run one fetch cycle and exit",
			ArgsUsage: "[source]",
			Flags:     []cli.Flag{},
			Category:  "Worker",
			Description: `Runs a single fetch cycle for one source, or all sources when none is given.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Creates or updates the tables of the current schema.`,
		},
	}

	s.app = app
}
