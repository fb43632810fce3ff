package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
)

func readCommand(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	var (
		addr     uint64
		nread    int
		pageOnly bool
		outFile  string
	)
	fs.Uint64Var(&addr, "a", 0, "start address")
	fs.IntVar(&nread, "n", 256, "number of bytes to read")
	fs.BoolVar(&pageOnly, "page", false, "read the 32-byte page containing the address in page mode")
	fs.StringVar(&outFile, "o", "", "output file (default: hexdump)")
	fs.Parse(args)

	if addr > 0xFFFFFF {
		fatalUsage("address 0x%X out of 24-bit range", addr)
	}

	s, err := openSession()
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	var data []byte
	if pageOnly {
		page, err := s.ReadPage(uint32(addr))
		if err != nil {
			fatalf("read page failed: %v", err)
		}
		data = page[:]
	} else {
		data, err = s.ReadBlock(uint32(addr), nread)
		if err != nil {
			fatalf("read SRAM failed: %v", err)
		}
	}

	if outFile == "" {
		fmt.Println(hex.Dump(data))
		return
	}
	if err := os.WriteFile(outFile, data, 0644); err != nil {
		fmt.Fprintln(os.Stderr, "write file failed:", err)
	}
}
