package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/golang/glog"

	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/env"
	"github.com/robotalks/twin.go/pkg/twin"
)

func init() {
	env.SetupFlags()
	twin.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := twin.NewConfig()
	if err != nil {
		glog.Exitf("calibration: %v", err)
	}
	e, err := env.NewConfig().NewEnv()
	if err != nil {
		glog.Exitf("setup: %v", err)
	}

	bridge := e.Bind(twin.NewBridge(conf, nil, nil, nil))
	if !conf.SkipBringUp {
		bridge.BringUp(time.Sleep)
	}

	loop := fx.NewLoop().Add(e, bridge)
	loop.Interval = conf.LoopInterval()
	if fn := twin.CalibrationFile(); fn != "" {
		loop.Add(twin.NewCalibrationWatcher(fn, *twin.Default(), bridge))
	}
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("loop", loop))
	notify(daemon.SdNotifyReady)
	glog.Info("ready")
	err = runner.Wait()
	notify(daemon.SdNotifyStopping)
	if err != nil {
		glog.Exit(err)
	}
}

func notify(state string) {
	if _, err := daemon.SdNotify(false, state); err != nil {
		glog.Warningf("sd_notify %s: %v", state, err)
	}
}
