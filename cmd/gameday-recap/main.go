package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	recap "github.com/ianfoo/gameday-recap"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Every path through main ends with exit status 0. Failures are only visible
// in the log.
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "error loading .env file: %v\n", err)
	}
	cfg, log, ok := configure(os.LookupEnv)
	if log == nil {
		return
	}
	defer log.Sync()
	if !ok {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := setup(cfg, log)
	if err != nil {
		log.Errorw("unable to set up", "err", err)
		return
	}
	outcome := runner.Run(ctx)
	log.Infow("done", "outcome", outcome.String())
}

// configure loads the configuration and builds the logger from it. A bad
// value is logged through that logger, so it reaches LOG_FILE when one is
// set. The logger is nil only if it could not be built at all.
func configure(lookup recap.LookupFunc) (recap.Config, *zap.SugaredLogger, bool) {
	cfg, cfgErr := recap.LoadConfig(lookup)
	log, err := logger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		return cfg, nil, false
	}
	if cfgErr != nil {
		log.Errorw("invalid configuration", "err", cfgErr)
		return cfg, log, false
	}
	return cfg, log, true
}

func setup(cfg recap.Config, log *zap.SugaredLogger) (*recap.Runner, error) {
	fetcher, err := recap.NewScheduleFetcher(
		cfg.TeamID,
		cfg.SportID,
		recap.WithScheduleURL(cfg.ScheduleURL),
		recap.WithScheduleTimeout(cfg.HTTPTimeout),
		recap.WithScheduleLogger(log))
	if err != nil {
		return nil, err
	}
	notifier := recap.NewSMSNotifier(
		cfg.Credentials,
		recap.WithSMTPRelay(cfg.SMTP),
		recap.WithRateLimit(cfg.RateLimit),
		recap.WithSMSLogger(log))
	return recap.NewRunner(
		cfg.TeamID,
		fetcher,
		notifier,
		recap.WithRecapHost(cfg.RecapHost),
		recap.WithRunnerLogger(log))
}

// logger builds the zap logger the way ENV asks for. With LOG_FILE set, the
// same entries also go to a rotating JSON file, since cron usually throws
// stdout away.
func logger(cfg recap.Config) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Production() {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	if cfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotating),
			zap.DebugLevel)
		log = log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}
	return log.Sugar(), nil
}
