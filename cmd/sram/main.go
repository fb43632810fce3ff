// Command sram reads, writes and tests a serial SRAM attached to an FTDI
// FT232H/FT2232H adapter, or an emulated one with -sim.
//
// Usage:
//
//	sram [flags] <command> [arguments]
//
// Examples:
//
//	# hexdump the first 256 bytes of a 23LC1024 on ADBUS4
//	sram -cs D4 -capacity 1024 read -n 256
//
//	# load a file at 0x1000 and verify it
//	sram -config sram.yaml write -a 0x1000 -f data.bin -verify
//
//	# run the self test against the emulator
//	sram -sim test
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

var (
	configFile string
	logLevel   string
	simulate   bool
	csPin      string
	capacity   int
	clock      string
)

func init() {
	flag.StringVar(&configFile, "config", "", "configuration file path (YAML)")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.BoolVar(&simulate, "sim", false, "use an emulated SRAM instead of hardware")
	flag.StringVar(&csPin, "cs", "", "chip select pin (overrides config)")
	flag.IntVar(&capacity, "capacity", 0, "device capacity in kbit (overrides config)")
	flag.StringVar(&clock, "clock", "", "SPI clock, e.g. 10MHz (overrides config)")
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func fatalUsage(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
	sram [flags] <command> [arguments]

Commands:
	read	 read SRAM memory
	write	 write SRAM memory
	info	 print adapter and device information
	test	 run a destructive self test

Flags:
`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
	}

	setupLogging(logLevel)

	switch cmd := flag.Arg(0); cmd {
	case "read":
		readCommand(flag.Args()[1:])
	case "write":
		writeCommand(flag.Args()[1:])
	case "info":
		infoCommand(flag.Args()[1:])
	case "test":
		testCommand(flag.Args()[1:])
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %q\n", cmd)
		usage()
	}
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		fatalUsage("invalid log level %q", level)
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(h))
}
