package xo2

// ReadIDCode returns the device IDCODE.
func ReadIDCode(t Transport, o ByteOrder) (uint32, error) {
	reply, err := transfer(t, cmdIDCode)
	if err != nil {
		return 0, err
	}
	return o.Normalize32(o.Word32(reply)), nil
}

// ReadUsercode returns the 32-bit USERCODE.
func ReadUsercode(t Transport, o ByteOrder) (uint32, error) {
	reply, err := transfer(t, cmdUsercode)
	if err != nil {
		return 0, err
	}
	return o.Normalize32(o.Word32(reply)), nil
}

// ReadFeatureRow returns the 64-bit feature row.
func ReadFeatureRow(t Transport, o ByteOrder) (uint64, error) {
	reply, err := transfer(t, cmdReadFeature)
	if err != nil {
		return 0, err
	}
	return o.Normalize64(o.Word64(reply)), nil
}

// ReadFeatureBits returns the 16 feature bits (FEABITS).
func ReadFeatureBits(t Transport, o ByteOrder) (uint16, error) {
	reply, err := transfer(t, cmdReadFeatureBit)
	if err != nil {
		return 0, err
	}
	return o.Normalize16(o.Word16(reply)), nil
}

// ReadTraceID returns the 64-bit unique TraceID (UIDCODE_PUB).
func ReadTraceID(t Transport, o ByteOrder) (uint64, error) {
	reply, err := transfer(t, cmdTraceID)
	if err != nil {
		return 0, err
	}
	return o.Normalize64(o.Word64(reply)), nil
}

// Info is a snapshot of the identification registers.
type Info struct {
	IDCode      uint32
	Usercode    uint32
	FeatureRow  uint64
	FeatureBits uint16
	TraceID     uint64
	Status      Status
}

// ReadInfo reads all identification registers and the status register.
func ReadInfo(t Transport, o ByteOrder) (info Info, err error) {
	if info.IDCode, err = ReadIDCode(t, o); err != nil {
		return
	}
	if info.Usercode, err = ReadUsercode(t, o); err != nil {
		return
	}
	if info.FeatureRow, err = ReadFeatureRow(t, o); err != nil {
		return
	}
	if info.FeatureBits, err = ReadFeatureBits(t, o); err != nil {
		return
	}
	if info.TraceID, err = ReadTraceID(t, o); err != nil {
		return
	}
	info.Status, err = ReadStatus(t, o)
	return
}
