// Package board is the nRF52840 handheld: UC8151 e-paper and SD card on
// SPI0, BLE through the SoftDevice, System OFF as the sleep state. It only
// builds for that target; host builds use platform/sim.
package board
