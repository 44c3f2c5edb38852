package value

import "math/big"

// Month-day-nano intervals pack into a single 128-bit integer: days in the
// low 32 bits, months in the next 32 bits, nanoseconds in the high 64 bits.
// The unpacker must mirror this layout exactly.

// PackMonthDayNano packs the interval components into a 128-bit integer.
func PackMonthDayNano(months, days int32, nanos int64) *big.Int {
	lo := uint64(uint32(days)) | uint64(uint32(months))<<32
	packed := new(big.Int).SetUint64(uint64(nanos))
	packed.Lsh(packed, 64)
	return packed.Or(packed, new(big.Int).SetUint64(lo))
}

// UnpackMonthDayNano reverses PackMonthDayNano.
func UnpackMonthDayNano(packed *big.Int) (months, days int32, nanos int64) {
	var buf [16]byte
	packed.FillBytes(buf[:])
	lo := beUint64(buf[8:])
	hi := beUint64(buf[:8])
	days = int32(uint32(lo))
	months = int32(uint32(lo >> 32))
	nanos = int64(hi)
	return months, days, nanos
}

func beUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
