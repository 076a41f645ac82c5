package xo2

import "fmt"

type DeviceParams struct {
	Name string

	// CfgPages is the number of 16-byte configuration flash pages.
	CfgPages int
}

// MachXO2 IDCODEs and configuration flash sizes.
var knownDevices = map[uint32]DeviceParams{
	0x012B8043: {Name: "LCMXO2-256HC", CfgPages: 575},
	0x012B9043: {Name: "LCMXO2-640HC", CfgPages: 1151},
	0x012BA043: {Name: "LCMXO2-1200HC", CfgPages: 2175},
	0x012BB043: {Name: "LCMXO2-2000HC", CfgPages: 3198},
	0x012BC043: {Name: "LCMXO2-4000HC", CfgPages: 5758},
	0x012BD043: {Name: "LCMXO2-7000HC", CfgPages: 9212},

	0x012B0043: {Name: "LCMXO2-256ZE", CfgPages: 575},
	0x012B1043: {Name: "LCMXO2-640ZE", CfgPages: 1151},
	0x012B2043: {Name: "LCMXO2-1200ZE", CfgPages: 2175},
	0x012B3043: {Name: "LCMXO2-2000ZE", CfgPages: 3198},
	0x012B4043: {Name: "LCMXO2-4000ZE", CfgPages: 5758},
	0x012B5043: {Name: "LCMXO2-7000ZE", CfgPages: 9212},
}

// latticeJEP106 is the manufacturer field of a Lattice IDCODE (bits 11:1).
const latticeJEP106 = 0x021

// LookupDevice returns the parameters of a known IDCODE.
func LookupDevice(id uint32) (DeviceParams, bool) {
	p, ok := knownDevices[id]
	return p, ok
}

// IsLattice reports whether id carries the Lattice manufacturer code.
func IsLattice(id uint32) bool {
	return id&1 == 1 && (id>>1)&0x7FF == latticeJEP106
}

// CheckFit returns a *CapacityError if frames pages exceed the device.
func (p DeviceParams) CheckFit(frames int) error {
	if p.CfgPages > 0 && frames > p.CfgPages {
		return &CapacityError{Device: p.Name, Pages: p.CfgPages, Frames: frames}
	}
	return nil
}

func (p DeviceParams) String() string {
	return fmt.Sprintf("%s (%d cfg pages)", p.Name, p.CfgPages)
}
