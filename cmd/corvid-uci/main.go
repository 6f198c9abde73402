package main

import (
	"flag"

	"github.com/pkg/profile"

	"github.com/arvidsson/corvid/internal/config"
	"github.com/arvidsson/corvid/internal/uci"
	"github.com/arvidsson/corvid/internal/xlog"
)

var (
	configPath = flag.String("config", "corvid.toml", "path to TOML configuration file")
	cpuprofile = flag.Bool("cpuprofile", false, "write a CPU profile to ./cpu.pprof")
)

func main() {
	flag.Parse()

	if *cpuprofile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		xlog.Get("main").Fatalf("loading config %s: %v", *configPath, err)
	}
	xlog.SetLevel(xlog.LevelFromString(cfg.LogLevel))

	protocol := uci.New(cfg)
	protocol.Run()
}
