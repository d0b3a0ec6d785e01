package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mveld/ringctl/internal/aspace"
	"github.com/mveld/ringctl/internal/config"
	"github.com/mveld/ringctl/internal/cp"
	"github.com/mveld/ringctl/internal/device"
	"github.com/mveld/ringctl/internal/logging"
	"github.com/mveld/ringctl/internal/submit"
)

func main() {
	profilePath := flag.String("profile", "", "device profile TOML (defaults to a simulated device)")
	template := flag.Bool("template", false, "write a device profile template and exit")
	output := flag.String("output", "device.toml", "output path for the profile template")
	force := flag.Bool("force", false, "overwrite an existing template file")
	queueID := flag.Uint("queue", 0, "queue to switch")
	root := flag.Uint64("root", 0x2000, "target root-table base")
	tag := flag.Uint("tag", 0, "target context tag")
	bank := flag.Uint("bank", 0, "translation bank")
	contextID := flag.Int64("context", -1, "logical context id (-1 for the global context)")
	flag.Parse()

	logging.ConfigureRuntime()

	if *template {
		if err := config.WriteTemplate(*output, "device", *force); err != nil {
			log.Fatal().Err(err).Msg("failed to write template")
		}
		log.Info().Str("path", *output).Msg("wrote device profile template")
		return
	}

	profile := config.DeviceProfile{
		Name:             "sim0",
		QueueCount:       4,
		MemstoreBase:     0x9000_0000,
		SetstateBase:     0x9001_0000,
		InflightSwitches: 1,
	}
	if *profilePath != "" {
		loaded, err := config.LoadDeviceProfile(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load device profile")
		}
		profile = loaded
	}

	dev, err := device.New(config.DeviceConfig(profile))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build device")
	}
	queue, err := dev.Queue(uint32(*queueID))
	if err != nil {
		log.Fatal().Err(err).Msg("unknown queue")
	}

	rec := submit.NewRecorder()
	switcher := aspace.NewSwitcher(dev, rec, profile.InflightSwitches)
	if err := switcher.Prepare(); err != nil {
		log.Fatal().Err(err).Msg("prepare failed")
	}

	lc := aspace.GlobalContext
	if *contextID >= 0 {
		lc = aspace.Context(uint32(*contextID))
	}
	target := device.NewAddressSpace(*root, uint32(*tag), uint32(*bank))
	if _, err := switcher.Switch(context.Background(), queue, target, lc); err != nil {
		log.Fatal().Err(err).Msg("switch failed")
	}

	for i, sub := range rec.Accepted() {
		kind := "context"
		if sub.Flags&submit.FlagProtectedMode != 0 {
			kind = "aspace (protected)"
		}
		listing, err := cp.Listing(sub.Words)
		if err != nil {
			log.Fatal().Err(err).Msg("listing failed")
		}
		fmt.Fprintf(os.Stdout, "stream %d: %s, %d words\n%s\n\n", i, kind, len(sub.Words), listing)
	}
}
