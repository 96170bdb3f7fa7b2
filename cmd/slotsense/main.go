package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/slotsense/internal/profile"
	"github.com/hrygo/slotsense/server"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "slotsense",
	Short: "Turns public iCal feeds into bookable availability slots",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := loadProfile()
		logger := newLogger(instanceProfile)
		slog.SetDefault(logger)

		s, err := server.NewServer(instanceProfile, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sig
			s.Shutdown(ctx)
			cancel()
		}()

		s.Start()
		<-ctx.Done()
		return nil
	},
}

func loadProfile() *profile.Profile {
	return &profile.Profile{
		Mode:             viper.GetString("mode"),
		Addr:             viper.GetString("addr"),
		Port:             viper.GetInt("port"),
		Version:          version,
		Timezone:         viper.GetString("timezone"),
		Weekdays:         viper.GetInt("weekdays"),
		ShiftStart:       viper.GetString("shift-start"),
		ShiftEnd:         viper.GetString("shift-end"),
		ShiftRangeStart:  viper.GetInt("range-start"),
		ShiftRangeEnd:    viper.GetInt("range-end"),
		ShiftRangeStep:   viper.GetInt("range-step"),
		SlotDuration:     viper.GetInt("slot-duration"),
		SlotInterval:     viper.GetInt("slot-interval"),
		SlotBufferBefore: viper.GetInt("buffer-before"),
		SlotBufferAfter:  viper.GetInt("buffer-after"),
		DefaultSlotLimit: viper.GetInt("default-slot-limit"),
		DefaultDaysLimit: viper.GetInt("default-days-limit"),
	}
}

func newLogger(p *profile.Profile) *slog.Logger {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	flags.String("addr", "", "binding address of the server")
	flags.Int("port", 8080, "binding port of the server")
	flags.String("timezone", "UTC", "default IANA timezone when neither request nor feed declares one")
	flags.Int("weekdays", 5, "number of open ISO weekdays, starting from Monday")
	flags.String("shift-start", "08:00", "daily shift start, HH:MM")
	flags.String("shift-end", "18:00", "daily shift end, HH:MM")
	flags.Int("range-start", 8, "first hour of the bucketing range")
	flags.Int("range-end", 18, "hour the bucketing range ends before")
	flags.Int("range-step", 2, "bucket width in hours")
	flags.Int("slot-duration", 30, "minimum bookable slot length in minutes")
	flags.Int("slot-interval", 15, "minimum lead time before the first slot, minutes")
	flags.Int("buffer-before", 15, "minutes trimmed from the start of each block")
	flags.Int("buffer-after", 15, "minutes trimmed from the end of each block")
	flags.Int("default-slot-limit", 5, "block cap when the request has no limit")
	flags.Int("default-days-limit", 7, "search horizon in days when the request has none")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("slotsense")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
