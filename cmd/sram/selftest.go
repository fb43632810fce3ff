package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"

	sram "github.com/gentam/spisram"
)

func testCommand(args []string) {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	var seed uint
	fs.UintVar(&seed, "seed", 1, "pattern seed")
	fs.Parse(args)

	s, err := openSession()
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	if err := selfTest(s.SRAM, byte(seed), slog.Default()); err != nil {
		fatalf("self test failed: %v", err)
	}
	fmt.Println("PASS")
}

// pattern returns the test byte for address a. Consecutive pages differ so
// that address aliasing is detected.
func pattern(seed byte, a uint32) byte {
	return byte(a) ^ byte(a>>8)*31 ^ byte(a>>16)*97 ^ seed
}

// selfTest overwrites the whole device. It checks a sequential fill, then
// every scalar type, then page mode wrapping.
func selfTest(s *sram.SRAM, seed byte, log *slog.Logger) error {
	const chunk = 4096
	size := s.Size()

	log.Info("sequential fill", "bytes", size)
	buf := make([]byte, chunk)
	for off := int64(0); off < size; off += chunk {
		n := min(chunk, size-off)
		for i := range buf[:n] {
			buf[i] = pattern(seed, uint32(off)+uint32(i))
		}
		if err := s.WriteBlock(uint32(off), buf[:n]); err != nil {
			return err
		}
	}
	for off := int64(0); off < size; off += chunk {
		n := int(min(chunk, size-off))
		got, err := s.ReadBlock(uint32(off), n)
		if err != nil {
			return err
		}
		for i, b := range got {
			if want := pattern(seed, uint32(off)+uint32(i)); b != want {
				return fmt.Errorf("sequential: at 0x%X wrote %02X, read %02X", off+int64(i), want, b)
			}
		}
	}

	log.Info("scalars")
	if err := scalarTest(s, uint32(size/2)+1); err != nil {
		return err
	}

	log.Info("page wrap")
	base := uint32(size - sram.PageSize)
	var page [sram.PageSize]byte
	for i := range page {
		page[i] = pattern(seed, uint32(i)) ^ 0xFF
	}
	if err := s.WritePage(base+7, page); err != nil {
		return err
	}
	got, err := s.ReadPage(base + 7)
	if err != nil {
		return err
	}
	if got != page {
		return fmt.Errorf("page: read %X, wrote %X", got, page)
	}
	first, err := s.ReadUint8(base)
	if err != nil {
		return err
	}
	if want := page[sram.PageSize-7]; first != want {
		return fmt.Errorf("page: no wrap at 0x%X, read %02X, want %02X", base, first, want)
	}
	return nil
}

func scalarTest(s *sram.SRAM, a uint32) error {
	check := func(name string, wrote, read any, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if wrote != read {
			return fmt.Errorf("%s: at 0x%X wrote %v, read %v", name, a, wrote, read)
		}
		return nil
	}

	if err := s.WriteUint8(a, 0xA5); err != nil {
		return err
	}
	v8, err := s.ReadUint8(a)
	if err := check("uint8", uint8(0xA5), v8, err); err != nil {
		return err
	}

	if err := s.WriteUint16(a, 0xBEEF); err != nil {
		return err
	}
	v16, err := s.ReadUint16(a)
	if err := check("uint16", uint16(0xBEEF), v16, err); err != nil {
		return err
	}

	if err := s.WriteUint32(a, 0xDEADBEEF); err != nil {
		return err
	}
	v32, err := s.ReadUint32(a)
	if err := check("uint32", uint32(0xDEADBEEF), v32, err); err != nil {
		return err
	}

	if err := s.WriteInt16(a, math.MinInt16); err != nil {
		return err
	}
	i16, err := s.ReadInt16(a)
	if err := check("int16", int16(math.MinInt16), i16, err); err != nil {
		return err
	}

	if err := s.WriteInt32(a, -1); err != nil {
		return err
	}
	i32, err := s.ReadInt32(a)
	if err := check("int32", int32(-1), i32, err); err != nil {
		return err
	}

	if err := s.WriteFloat32(a, math.Pi); err != nil {
		return err
	}
	f32, err := s.ReadFloat32(a)
	return check("float32", float32(math.Pi), f32, err)
}
