package twin

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"

	fx "github.com/robotalks/twin.go/pkg/framework"
)

// DefaultReloadDebounce coalesces bursts of writes from editors.
const DefaultReloadDebounce = 200 * time.Millisecond

// CalibrationWatcher reloads the calibration file when it changes and
// hands valid results to the bridge from the control loop.
type CalibrationWatcher struct {
	Path     string
	Base     Config
	Debounce time.Duration
	Bridge   *Bridge

	updates chan *Config
}

// NewCalibrationWatcher creates a watcher applying path on top of base.
func NewCalibrationWatcher(path string, base Config, b *Bridge) *CalibrationWatcher {
	return &CalibrationWatcher{
		Path:     path,
		Base:     base,
		Debounce: DefaultReloadDebounce,
		Bridge:   b,
		updates:  make(chan *Config, 1),
	}
}

// AddToLoop implements fx.LoopAdder.
func (w *CalibrationWatcher) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("calibration", w))
	loop.AddController(fx.PrLvControl, w)
}

// Run implements fx.Runnable.
func (w *CalibrationWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	// Editors often replace the file, so the directory is watched.
	if err := watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	glog.Infof("watching calibration %s", w.Path)

	target := filepath.Clean(w.Path)
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) == target && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				timerC = time.After(w.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			glog.Warningf("calibration watcher: %v", err)
		case <-timerC:
			timerC = nil
			w.Reload()
		}
	}
}

// Reload loads the file and queues the result. Invalid files are
// reported and ignored, keeping the active calibration.
func (w *CalibrationWatcher) Reload() bool {
	conf := w.Base
	if err := conf.LoadFile(w.Path); err != nil {
		glog.Warningf("calibration reload: %v", err)
		return false
	}
	if err := conf.Validate(); err != nil {
		glog.Warningf("calibration reload %s: %v", w.Path, err)
		return false
	}
	select {
	case <-w.updates:
	default:
	}
	w.updates <- &conf
	return true
}

// Control implements fx.Controller.
func (w *CalibrationWatcher) Control(fx.ControlContext) error {
	select {
	case conf := <-w.updates:
		w.Bridge.Reconfigure(conf)
	default:
	}
	return nil
}
