package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"royal-odds/internal/config"
	"royal-odds/internal/report"
	"royal-odds/internal/repo"
	"royal-odds/internal/service/odds"
	"royal-odds/internal/simulation"
	appErr "royal-odds/pkg/errors"
	"royal-odds/pkg/logger"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath string
		mode       string
		rounds     int64
		players    int
		workers    int
		seed       int64
		out        string
	)
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.StringVar(&mode, "mode", "", "preflop or postflop")
	flag.Int64Var(&rounds, "rounds", 0, "number of deals to simulate")
	flag.IntVar(&players, "players", 0, "players per deal (2-7)")
	flag.IntVar(&workers, "workers", 0, "worker goroutines, 0 = one per CPU")
	flag.Int64Var(&seed, "seed", 0, "RNG seed, 0 = random")
	flag.StringVar(&out, "out", "", "CSV output path")
	flag.Parse()

	// 1. Load Config
	if err := config.LoadConfig(configPath); err != nil {
		pterm.Fatal.Println(err)
	}
	conf := config.GlobalConfig

	// 2. Init Logger
	logger.InitLogger(conf.Server.Mode)
	defer logger.Log.Sync()

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			conf.Simulation.Mode = mode
		case "rounds":
			conf.Simulation.Rounds = rounds
		case "players":
			conf.Simulation.Players = players
		case "workers":
			conf.Simulation.Workers = workers
		case "seed":
			conf.Simulation.Seed = seed
		case "out":
			conf.Simulation.Output = out
		}
	})

	simMode, err := simulation.ParseMode(conf.Simulation.Mode)
	if err != nil {
		logger.Log.Fatal("Invalid simulation mode", zap.Error(err))
	}
	conf.Simulation.Mode = string(simMode)

	// 3. Run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if conf.Simulation.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Simulation.Timeout)
		defer cancel()
	}

	res, err := simulation.Run(ctx, simulation.Config{
		Mode:    simMode,
		Rounds:  conf.Simulation.Rounds,
		Players: conf.Simulation.Players,
		Workers: conf.Simulation.Workers,
		Seed:    conf.Simulation.Seed,
	})
	if err != nil && !simulation.IsCancellation(err) {
		logger.Log.Fatal("Simulation failed", zap.Error(err))
	}

	// 4. Write Results
	path := conf.Simulation.OutputPath()
	if err := report.WriteFile(path, res.Table); err != nil {
		logger.Log.Fatal("Failed to write results", zap.String("path", path), zap.Error(err))
	}
	printSummary(res, path)

	// 5. Record Into Store
	if conf.Database.Driver == "" {
		return
	}
	repo.InitDB()
	repo.InitRedis()
	svc := odds.NewService(repo.DB, repo.RDB, conf.Redis.TTL())
	run, err := svc.Record(context.Background(), res)
	if err != nil {
		if errors.Is(err, appErr.ErrEmptyResult) {
			logger.Log.Warn("Nothing to record, no rounds completed")
			return
		}
		logger.Log.Fatal("Failed to record simulation run", zap.Error(err))
	}
	pterm.Success.Printfln("Recorded run %s into the %s store", run.Tag, conf.Database.Driver)
}

func printSummary(res *simulation.Result, path string) {
	pterm.DefaultSection.Printfln("%d players, %s", res.Config.Players, res.Config.Mode)
	if err := pterm.DefaultTable.WithHasHeader().WithData(report.SummaryTable(res.Table)).Render(); err != nil {
		logger.Log.Warn("Failed to render summary", zap.Error(err))
	}

	pterm.DefaultSection.Println("Best hand of the tracked player")
	if err := pterm.DefaultTable.WithHasHeader().WithData(report.CategoryTable(res.Table)).Render(); err != nil {
		logger.Log.Warn("Failed to render categories", zap.Error(err))
	}

	pterm.Info.Println(report.SummaryLine("All hands", res.Table.Total()))
	if res.Cancelled() {
		pterm.Warning.Printfln("Stopped early after %d of %d rounds", res.Completed, res.Config.Rounds)
	}
	pterm.Success.Printfln("Wrote %s", path)
}
