package protocol

import (
	"fmt"
	"io"
)

// RLEPair is one run of a run-length encoded sequence.
type RLEPair struct {
	Count uint32
	Value uint16
}

// EncodeRLE run-length encodes a sequence of tile values.
func EncodeRLE(values []uint16) []RLEPair {
	var runs []RLEPair
	for _, v := range values {
		if n := len(runs); n > 0 && runs[n-1].Value == v {
			runs[n-1].Count++
			continue
		}
		runs = append(runs, RLEPair{Count: 1, Value: v})
	}
	return runs
}

// DecodeRLE expands run-length encoded pairs back into the flat sequence.
func DecodeRLE(runs []RLEPair) []uint16 {
	total := 0
	for _, run := range runs {
		total += int(run.Count)
	}
	values := make([]uint16, 0, total)
	for _, run := range runs {
		for i := uint32(0); i < run.Count; i++ {
			values = append(values, run.Value)
		}
	}
	return values
}

func writeRLE(w io.Writer, runs []RLEPair) error {
	if err := WriteSeqLen(w, len(runs)); err != nil {
		return err
	}
	for _, run := range runs {
		if err := WriteU32(w, run.Count); err != nil {
			return err
		}
		if err := WriteUvarint(w, uint64(run.Value)); err != nil {
			return err
		}
	}
	return nil
}

func readRLE(r byteScanner) ([]RLEPair, error) {
	n, err := ReadSeqLen(r)
	if err != nil {
		return nil, err
	}
	runs := make([]RLEPair, 0, n)
	for i := 0; i < n; i++ {
		count, err := ReadU32(r)
		if err != nil {
			return nil, err
		}
		value, err := ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		if value > 0xffff {
			return nil, fmt.Errorf("rle value out of range: %d", value)
		}
		runs = append(runs, RLEPair{Count: count, Value: uint16(value)})
	}
	return runs, nil
}
