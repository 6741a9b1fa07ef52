package protocol

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRLERoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		values []uint16
	}{
		{"empty", []uint16{}},
		{"single", []uint16{7}},
		{"uniform", []uint16{1, 1, 1, 1, 1}},
		{"alternating", []uint16{1, 2, 1, 2, 1}},
		{"runs", []uint16{1, 1, 2, 2, 2, 1, 3, 3}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decoded := DecodeRLE(EncodeRLE(tc.values))
			assert.Equal(t, tc.values, decoded)
		})
	}
}

func TestRLERoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		values := make([]uint16, rng.Intn(256))
		for j := range values {
			values[j] = uint16(rng.Intn(4))
		}
		decoded := DecodeRLE(EncodeRLE(values))
		assert.Equal(t, values, decoded)
	}
}

func TestEncodeRLECompacts(t *testing.T) {
	runs := EncodeRLE([]uint16{1, 1, 1, 2, 2, 3})
	assert.Equal(t, []RLEPair{
		{Count: 3, Value: 1},
		{Count: 2, Value: 2},
		{Count: 1, Value: 3},
	}, runs)
}
