package signaltype

import (
	"fmt"

	"github.com/arloliu/mdf/errs"
)

func errUnsupportedBitCount(bitCount int) error {
	return fmt.Errorf("%w: %d", errs.ErrUnsupportedBitCount, bitCount)
}

func errUnsupportedFloatWidth(bitCount int) error {
	return fmt.Errorf("%w: floating point width must be 32 or 64 bits, got %d", errs.ErrUnsupportedSignalType, bitCount)
}

func errUnsupportedSignalType(t SignalType) error {
	return fmt.Errorf("%w: %d", errs.ErrUnsupportedSignalType, t)
}
