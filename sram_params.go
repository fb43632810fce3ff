package sram

import "periph.io/x/conn/v3/physic"

type sramParams struct {
	name string

	maxClock physic.Frequency
}

// Devices larger than this need a 24-bit address.
//
// [23LC512|2.0 Functional Description]: 16-bit address
// [23LC1024|2.0 Functional Description]: 24-bit address
const addr16MaxKbit = 512

// maxCapacityKbit is the capacity reachable with a 3-byte address.
const maxCapacityKbit = 1 << 24 * 8 / 1024

var knownSRAM = map[int]sramParams{
	64: {
		name: "Microchip 23K640 64Kb",
		// [23K640|1.0 Electrical Characteristics] FCLK: Clock Frequency
		maxClock: 20 * physic.MegaHertz,
	},
	256: {
		name: "Microchip 23K256 256Kb",
		// [23K256|1.0 Electrical Characteristics] FCLK: Clock Frequency
		maxClock: 20 * physic.MegaHertz,
	},
	512: {
		name: "Microchip 23LC512 512Kb",
		// [23LC512|Table 1-2: AC Characteristics] FCLK: Clock Frequency
		maxClock: 20 * physic.MegaHertz,
	},
	1024: {
		name: "Microchip 23LC1024 1Mb",
		// [23LC1024|Table 1-2: AC Characteristics] FCLK: Clock Frequency
		maxClock: 20 * physic.MegaHertz,
	},
}

// paramOrMin returns the parameter for the configured capacity, or the most
// conservative value among the known parts.
func paramOrMin(kbit int, get func(*sramParams) physic.Frequency) physic.Frequency {
	if param, ok := knownSRAM[kbit]; ok {
		return get(&param)
	}

	var fmin physic.Frequency
	for _, param := range knownSRAM {
		if v := get(&param); fmin == 0 || v < fmin {
			fmin = v
		}
	}
	return fmin
}

func maxClock(kbit int) physic.Frequency {
	return paramOrMin(kbit, func(p *sramParams) physic.Frequency { return p.maxClock })
}

// PartName returns the name of the known part with the given capacity, or an
// empty string.
func PartName(kbit int) string {
	return knownSRAM[kbit].name
}
