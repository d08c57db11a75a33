// EchoSight - assistive object narration for a live camera feed.
//
// Drives the capture/detect/announce loop: frames go to the remote
// detection endpoint, results come back as grouped spoken feedback,
// with local speech as the fallback voice path.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/echosight/echosight/internal/config"
	"github.com/echosight/echosight/internal/log"
	"github.com/echosight/echosight/pkg/announce"
	"github.com/echosight/echosight/pkg/camera"
	"github.com/echosight/echosight/pkg/detect"
	"github.com/echosight/echosight/pkg/frame"
	"github.com/echosight/echosight/pkg/loop"
	"github.com/echosight/echosight/pkg/web"
)

func main() {
	log.Init(config.String("LOG_LEVEL", "info"))

	detector, err := detect.NewClient(
		detect.WithBaseURL(config.DetectURL()),
		detect.WithTimeout(config.Duration("DETECT_TIMEOUT", detect.DefaultTimeout)),
		detect.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("detection client", "error", err)
		os.Exit(1)
	}

	// Voice chain: remote endpoint first, local engine as fallback.
	var primary announce.Provider
	if url := config.VoiceURL(); url != "" {
		primary = announce.NewRemote(url, announce.WithRemoteLogger(log.L()))
	} else {
		log.Warn("VOICE_URL not set, using local speech only")
	}
	local := announce.NewLocal(
		announce.WithRate(config.Int("VOICE_RATE", announce.DefaultRate)),
		announce.WithLang(config.String("VOICE_LANG", announce.DefaultLang)),
		announce.WithLocalLogger(log.L()),
	)
	if !local.Available() {
		log.Warn("local speech engine not found on PATH")
	}
	dispatcher := announce.NewDispatcher(primary, local, log.L())
	defer dispatcher.Close()

	camCfg := camera.DefaultConfig()
	camCfg.DeviceID = config.Int("CAMERA_ID", config.DefaultCameraID)

	encoder := frame.NewEncoder()
	encoder.MaxWidth = config.Int("MAX_IMAGE_WIDTH", frame.DefaultMaxWidth)
	encoder.Quality = config.Int("IMAGE_QUALITY", frame.DefaultQuality)

	acquire := func(ctx context.Context) (loop.Source, error) {
		session, err := camera.Acquire(camCfg)
		if err != nil {
			return nil, err
		}
		return frame.NewCameraSource(session, encoder), nil
	}

	ctl := loop.New(acquire, detector, dispatcher, loop.Config{
		TickPeriod:  config.Duration("TICK_PERIOD", config.DefaultTickPeriod),
		WarmupDelay: config.Duration("WARMUP_DELAY", config.DefaultWarmupDelay),
		Logger:      log.L(),
	})

	srv := web.NewServer(config.ListenAddr(), ctl, dispatcher.Status)
	ctl.OnStatus = srv.PushStatus
	ctl.OnEvent = srv.PushEvent
	ctl.OnRefresh = func() {
		// Full reload of the host environment: exit cleanly and let the
		// supervisor bring the process back up.
		log.Info("refresh: restarting")
		ctl.StopCamera()
		srv.Shutdown()
		os.Exit(0)
	}
	srv.StartAsync()

	// Initialization start: acquire the camera up front. A failure is
	// terminal for the session but the command surface stays up so the
	// error status remains observable.
	if err := ctl.AcquireCamera(context.Background()); err == nil {
		if config.String("AUTO_START", "") == "true" {
			if err := ctl.Start(); err != nil {
				log.Warn("auto start", "error", err)
			}
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	ctl.Stop()
	ctl.StopCamera()
	srv.Shutdown()
}
