// Package rk818 provides constants for register addresses and bitfields used
// by the RK818 power-management IC's charger and fuel gauge.
package rk818

const (
	// 7-bit I2C address.
	AddressDefault = 0x1c

	// Chip identification.
	regChipIDMSB = 0x17
	regChipIDLSB = 0x18
	chipIDMask   = 0xfff0
	ChipID       = 0x8180

	// Voltage monitor; bit 6 reports a plugged-in input.
	regVBMon = 0x21

	// Device control; DEV_OFF cuts every rail once set.
	regDevCtrl = 0x4b
	devOff     = 1 << 0

	// Supply status and charger control.
	regSupStatus  = 0xa0
	regUSBCtrl    = 0xa1
	regChrgCtrl1  = 0xa3
	regChrgCtrl2  = 0xa4
	regChrgCtrl3  = 0xa5
	regBatCurAvgH = 0xbc
	regBatCurAvgL = 0xbd
	regBatOCVH    = 0xc2
	regBatOCVL    = 0xc3
	regBatVolH    = 0xc4
	regBatVolL    = 0xc5
	regCalOffsetH = 0xd2
	regCalOffsetL = 0xd3
	regVCalib0H   = 0xd5
	regVCalib0L   = 0xd6
	regVCalib1H   = 0xd7
	regVCalib1L   = 0xd8
	regIOffsetH   = 0xdd
	regIOffsetL   = 0xde

	// Firmware data register holding the factory current offset.
	regPOffset = 0xed

	// Highest register worth dumping.
	RegLast = 0xf2
)

// SUP_STS bits.
const (
	supUSBEff    = 1 << 0
	supUSBExist  = 1 << 1
	supCLimitEn  = 1 << 2
	supVLimitEn  = 1 << 3
	supBatExist  = 1 << 7
	supStateOff  = 4
	supStateMask = 0x7
)

// VB_MON bits.
const vbPlugIn = 1 << 6

// Current-sense offset calibration.
const (
	DefaultFactoryOffset = 42
	DefaultCurrentOffset = 0x832
	CurrentOffsetMin     = 0x780
	CurrentOffsetMax     = 0x980
)

// Two-point voltage calibration references (mV).
const (
	calibLow_mV  = 3000
	calibHigh_mV = 4200
)
