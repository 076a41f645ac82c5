// Package xo2 programs the configuration flash of Lattice MachXO2 FPGAs over
// the sysCONFIG SPI port.
//
// # References:
//
// Lattice
//   - [TN1204]: MachXO2 Programming and Configuration Usage Guide (https://www.latticesemi.com/view_document?document_id=39085)
//   - [DS1035]: MachXO2 Family Data Sheet (https://www.latticesemi.com/view_document?document_id=38834)
//
// FTDI (https://ftdichip.com/document/application-notes/)
//   - [FTDI-AN_108]: Command Processor for MPSSE and MCU Host Bus Emulation Modes (https://ftdichip.com/wp-content/uploads/2020/08/AN_108_Command_Processor_for_MPSSE_and_MCU_Host_Bus_Emulation_Modes.pdf)
//   - [FTDI-AN_114]: Interfacing FT2232H Hi-Speed Devices To SPI Bus (https://ftdichip.com/wp-content/uploads/2020/08/AN_114_FTDI_Hi_Speed_USB_To_SPI_Example.pdf)
//   - [FTDI-AN_135]: FTDI MPSSE Basics (https://ftdichip.com/wp-content/uploads/2020/08/AN_135_MPSSE_Basics.pdf)
//
// Linux
//   - [spidev]: Documentation/spi/spidev.rst
package xo2
