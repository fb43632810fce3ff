package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/spi"

	sram "github.com/gentam/spisram"
	"github.com/gentam/spisram/sramtest"
)

// fileConfig is the YAML configuration of the command.
type fileConfig struct {
	ChipSelect   string `yaml:"chip_select"`
	HoldPin      string `yaml:"hold_pin"`
	Clock        string `yaml:"clock"`
	SPIMode      int    `yaml:"spi_mode"`
	BitOrder     string `yaml:"bit_order"`
	CapacityKbit int    `yaml:"capacity_kbit"`
	HoldBit      bool   `yaml:"hold_bit"`
}

// defaultConfig matches a 23LC1024 with its chip select on ADBUS4.
func defaultConfig() fileConfig {
	return fileConfig{
		ChipSelect:   "D4",
		Clock:        "10MHz",
		SPIMode:      0,
		BitOrder:     "msb",
		CapacityKbit: 1024,
	}
}

func loadConfig(path string) (fileConfig, error) {
	fc := defaultConfig()
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return fc, nil
}

// applyFlags overrides fc with the global flags set on the command line.
func applyFlags(fc *fileConfig, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cs":
			fc.ChipSelect = csPin
		case "capacity":
			fc.CapacityKbit = capacity
		case "clock":
			fc.Clock = clock
		}
	})
}

func (fc fileConfig) sramConfig(logger *slog.Logger) (sram.Config, error) {
	cfg := sram.Config{
		ChipSelect:   fc.ChipSelect,
		CapacityKbit: fc.CapacityKbit,
		Hold:         fc.HoldBit,
		Logger:       logger,
	}
	if err := cfg.Clock.Set(fc.Clock); err != nil {
		return cfg, fmt.Errorf("invalid clock %q: %w", fc.Clock, err)
	}
	if fc.SPIMode < 0 || fc.SPIMode > 3 {
		return cfg, fmt.Errorf("invalid SPI mode %d", fc.SPIMode)
	}
	cfg.Mode = spi.Mode(fc.SPIMode)
	switch strings.ToLower(fc.BitOrder) {
	case "msb", "":
		cfg.BitOrder = sram.MSBFirst
	case "lsb":
		cfg.BitOrder = sram.LSBFirst
	default:
		return cfg, fmt.Errorf("invalid bit order %q", fc.BitOrder)
	}
	return cfg, cfg.Validate()
}

// session is an open SRAM, either on hardware or emulated.
type session struct {
	*sram.SRAM
	dev  *sram.Device
	chip *sramtest.Chip
	cfg  sram.Config
}

func (s *session) Close() error {
	if s.dev != nil {
		return s.dev.Close()
	}
	return nil
}

func openSession() (*session, error) {
	fc, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}
	applyFlags(&fc, flag.CommandLine)
	cfg, err := fc.sramConfig(slog.Default())
	if err != nil {
		return nil, err
	}
	return newSession(cfg, fc.HoldPin, simulate)
}

func newSession(cfg sram.Config, holdPin string, sim bool) (*session, error) {
	if sim {
		chip := sramtest.NewChip(cfg.CapacityKbit)
		s, err := sram.Open(&sramtest.Port{Chip: chip}, chip.CS(), cfg)
		if err != nil {
			return nil, err
		}
		slog.Info("using emulated SRAM", "capacity_kbit", cfg.CapacityKbit)
		return &session{SRAM: s, chip: chip, cfg: cfg}, nil
	}

	d, err := sram.NewDevice(cfg, holdPin)
	if err != nil {
		return nil, err
	}
	return &session{SRAM: d.SRAM, dev: d, cfg: cfg}, nil
}
