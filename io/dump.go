package io

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ezrec/uvm/cpu"
)

// SystemInfo are the machine sizes and counters of a dump.
type SystemInfo struct {
	TotalDataMemory      int `xml:"total_data_memory"`
	NumRegisters         int `xml:"num_registers"`
	InstructionsExecuted int `xml:"instructions_executed"`
	MemoryAccesses       int `xml:"memory_accesses"`
}

// Register is one register of a dump.
type Register struct {
	Id            int    `xml:"id,attr"`
	ValueSigned   int32  `xml:"value_signed,attr"`
	ValueUnsigned uint32 `xml:"value_unsigned,attr"`
	ValueHex      string `xml:"value_hex,attr"`
}

// Cell is one data memory word of a dump.
type Cell struct {
	Address       int    `xml:"address,attr"`
	ValueSigned   int32  `xml:"value_signed,attr"`
	ValueUnsigned uint32 `xml:"value_unsigned,attr"`
	ValueHex      string `xml:"value_hex,attr"`
}

// DataMemory is the dumped data memory range, end inclusive.
type DataMemory struct {
	StartAddress int    `xml:"start_address,attr"`
	EndAddress   int    `xml:"end_address,attr"`
	Cells        []Cell `xml:"cell"`
}

// Dump is a snapshot of a memory bank.
type Dump struct {
	XMLName    xml.Name   `xml:"memory_dump"`
	SystemInfo SystemInfo `xml:"system_info"`
	Registers  []Register `xml:"registers>register"`
	DataMemory DataMemory `xml:"data_memory"`
}

func hex(word cpu.Word) string {
	return fmt.Sprintf("0x%08X", word.Raw())
}

// NewDump snapshots bank, with data memory from start to end inclusive.
// The range is clamped to data memory. Taking a dump does not count as
// memory accesses.
func NewDump(bank *cpu.Bank, start, end int) (dump *Dump, err error) {
	if start < 0 || end < start {
		err = fmt.Errorf("%w: [%d, %d]", ErrDumpRange, start, end)
		return
	}

	dump = &Dump{
		SystemInfo: SystemInfo{
			TotalDataMemory:      bank.DataSize(),
			NumRegisters:         bank.RegisterCount(),
			InstructionsExecuted: bank.Executed(),
			MemoryAccesses:       bank.Accesses(),
		},
	}

	for id, word := range bank.Registers() {
		dump.Registers = append(dump.Registers, Register{
			Id:            id,
			ValueSigned:   word.Signed(),
			ValueUnsigned: word.Raw(),
			ValueHex:      hex(word),
		})
	}

	dump.DataMemory.StartAddress, dump.DataMemory.EndAddress = bank.Clamp(start, end)
	for addr, word := range bank.Cells(start, end) {
		dump.DataMemory.Cells = append(dump.DataMemory.Cells, Cell{
			Address:       addr,
			ValueSigned:   word.Signed(),
			ValueUnsigned: word.Raw(),
			ValueHex:      hex(word),
		})
	}

	return
}

// Marshal writes the dump as an indented XML document.
func (dump *Dump) Marshal(w io.Writer) (err error) {
	_, err = io.WriteString(w, xml.Header)
	if err != nil {
		return
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	err = enc.Encode(dump)
	if err != nil {
		return
	}

	_, err = io.WriteString(w, "\n")
	return
}

// Unmarshal reads a dump written by Marshal.
func (dump *Dump) Unmarshal(r io.Reader) (err error) {
	err = xml.NewDecoder(r).Decode(dump)
	return
}
