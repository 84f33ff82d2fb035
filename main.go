package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/capture"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/capture/device"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/mode"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/pipeline"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/pose"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/crypto"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/data"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/inference"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/inference/dnn"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/resource"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/storage"
)

const version = "0.1.0"

var modeProcessors = map[string]mode.Processor{
	"classify": mode.Classify,
	"segment":  mode.Segment,
	"invert":   mode.Invert,
	"contour":  mode.Contour,
	"inspect":  mode.Inspect,
	"capture":  mode.Capture,
	"warmup":   mode.Warmup,
	"reports":  mode.Reports,
}

// Global flags
var (
	configPath  string
	envFile     string
	engineName  string
	deviceName  string
	sourceLimit int
)

var rootCmd = &cobra.Command{
	Use:           "body",
	Short:         "Body measurement capture, contour and inference toolkit",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Cancel the context on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML settings file (default: BODY_* environment variables)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load before reading settings")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "fake", "inference engine: fake or dnn")
	rootCmd.PersistentFlags().StringVar(&deviceName, "device", "", "camera device index or stream URL (default: synthetic frames)")
	rootCmd.PersistentFlags().IntVar(&sourceLimit, "frames", 0, "stop the frame source after this many frames (0: unlimited)")
	addCommands(rootCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run builds the services and hands them to the named mode processor.
func run(cmd *cobra.Command, name string, opts mode.Options) error {
	modeProc, ok := modeProcessors[name]
	if !ok {
		return xerrors.Errorf("invalid mode %q", name)
	}

	svcs, closeFn, err := newServices(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	opts.Out = cmd.OutOrStdout()

	started := time.Now()
	err = modeProc(cmd.Context(), svcs, opts)
	lgr.Logger.Debug("mode processor exited",
		slog.String("mode", name),
		slog.Duration("took", time.Since(started)),
		slog.Bool("failed", err != nil),
	)
	return err
}

func loadEnv() error {
	if envFile != "" {
		return godotenv.Load(envFile)
	}

	// Load env vars from .env if we are in DEV mode
	if os.Getenv("RUN_TIME_ENV") == "dev" || os.Getenv("RUN_TIME_ENV") == "" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return xerrors.Errorf("error loading .env file: %w", err)
		}
	}
	return nil
}

// newServices creates the services a mode processor runs against.
func newServices(ctx context.Context) (mode.Services, func(), error) {
	noop := func() {}

	if err := loadEnv(); err != nil {
		return mode.Services{}, noop, err
	}

	// Config service
	var cfgSvc config.IService
	if configPath != "" {
		var err error
		cfgSvc, err = config.NewYAML(configPath)
		if err != nil {
			return mode.Services{}, noop, err
		}
	} else {
		cfgSvc = config.NewEnv()
	}

	lgr.Init(lgr.Options{
		Level: cfgSvc.GetLogLevel(),
		File:  cfgSvc.GetLogFile(),
	})

	// Data service
	dataSvc, closeFn, err := newDataService(cfgSvc)
	if err != nil {
		return mode.Services{}, noop, err
	}

	// Storage, crypto and resource services
	storageSvc := storage.NewFiles(cfgSvc)
	cryptoSvc := crypto.NewChaCha()
	resourceSvc := resource.NewResolver(cfgSvc, storageSvc, cryptoSvc)

	// Inference service
	var inferenceSvc inference.IService = inference.NewFake(
		inference.WithSegmentationModel(cfgSvc.GetSegmentationModelName()))
	switch engineName {
	case "fake":
	case "dnn":
		inferenceSvc = dnn.New(inferenceSvc)
	default:
		closeFn()
		return mode.Services{}, noop, xerrors.Errorf("unknown engine %q", engineName)
	}

	factory := pipeline.ServicesFactory{
		CfgSvc:       cfgSvc,
		StorageSvc:   storageSvc,
		ResourceSvc:  resourceSvc,
		ModelCache:   resource.NewCache(resourceSvc),
		InferenceSvc: inferenceSvc,
		DataSvc:      dataSvc,
	}

	p := pipeline.New(factory)
	if err := p.Setup(ctx); err != nil {
		closeFn()
		return mode.Services{}, noop, err
	}

	svcs := mode.Services{
		ServicesFactory: factory,
		Pipeline:        p,
		Inspector:       pose.NewInspector(cfgSvc.GetPoseTolerance()),
		Source:          newSource(cfgSvc),
	}
	if folder := cfgSvc.GetSnapshotFolder(); folder != "" {
		svcs.Snapshot = device.SnapshotWriter{Folder: folder}.Write
	}

	return svcs, closeFn, nil
}

func newDataService(cfgSvc config.IService) (data.IService, func(), error) {
	switch cfgSvc.GetReportStore() {
	case "sqlite":
		db, err := data.OpenSQLite(cfgSvc.GetReportDSN())
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		svc, err := data.NewSQLite(db)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		return svc, closeFn, nil
	case "files", "":
		return data.NewFilesDB(cfgSvc), func() {}, nil
	}
	return nil, nil, xerrors.Errorf("unknown report store %q", cfgSvc.GetReportStore())
}

func newSource(cfgSvc config.IService) capture.Source {
	if deviceName != "" {
		return device.Source{Device: deviceName, Limit: sourceLimit}
	}
	return capture.SyntheticSource{
		Resolution: cfgSvc.GetCaptureResolution(),
		Interval:   33 * time.Millisecond,
		Limit:      sourceLimit,
	}
}
