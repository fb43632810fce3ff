package main

import (
	"bytes"
	"flag"
	"log/slog"
	"os"
)

func writeCommand(args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	var (
		filename string
		addr     uint64
		verify   bool
	)
	fs.StringVar(&filename, "f", "", "input file")
	fs.Uint64Var(&addr, "a", 0, "start address")
	fs.BoolVar(&verify, "verify", false, "read back and compare")
	fs.Parse(args)

	if filename == "" {
		fatalUsage("input file is required")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		fatalf("failed to read file: %v", err)
	}

	s, err := openSession()
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	if _, err := s.WriteAt(data, int64(addr)); err != nil {
		fatalf("write SRAM failed: %v", err)
	}
	slog.Info("written", "addr", addr, "bytes", len(data))

	if !verify {
		return
	}
	got := make([]byte, len(data))
	if _, err := s.ReadAt(got, int64(addr)); err != nil {
		fatalf("read back failed: %v", err)
	}
	if i := mismatch(data, got); i >= 0 {
		fatalf("verify failed at 0x%X: wrote %02X, read %02X", addr+uint64(i), data[i], got[i])
	}
	slog.Info("verified", "bytes", len(data))
}

// mismatch returns the index of the first differing byte, or -1.
func mismatch(want, got []byte) int {
	if bytes.Equal(want, got) {
		return -1
	}
	for i := range want {
		if i >= len(got) || want[i] != got[i] {
			return i
		}
	}
	return len(want)
}
