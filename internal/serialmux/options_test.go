package serialmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestPortOptions_Normalise_Defaults(t *testing.T) {
	got, err := PortOptions{}.Normalise()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N"}, got)
}

func TestPortOptions_Normalise(t *testing.T) {
	tests := []struct {
		name    string
		in      PortOptions
		want    PortOptions
		wantErr bool
	}{
		{"explicit", PortOptions{BaudRate: 921600, DataBits: 7, StopBits: 2, Parity: "even"},
			PortOptions{BaudRate: 921600, DataBits: 7, StopBits: 2, Parity: "E"}, false},
		{"negative baud", PortOptions{BaudRate: -5},
			PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N"}, false},
		{"odd parity", PortOptions{Parity: " o "},
			PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "O"}, false},
		{"bad data bits", PortOptions{DataBits: 9}, PortOptions{}, true},
		{"bad stop bits", PortOptions{StopBits: 3}, PortOptions{}, true},
		{"bad parity", PortOptions{Parity: "mark"}, PortOptions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalise()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPortOptions_Equal(t *testing.T) {
	assert.True(t, PortOptions{}.Equal(PortOptions{BaudRate: 115200, Parity: "none"}))
	assert.False(t, PortOptions{}.Equal(PortOptions{BaudRate: 9600}))
	assert.False(t, PortOptions{DataBits: 9}.Equal(PortOptions{DataBits: 9}))
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{StopBits: 2, Parity: "E"}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)

	_, err = PortOptions{Parity: "x"}.SerialMode()
	assert.Error(t, err)
}

func TestNewRealSerialMux_MissingPort(t *testing.T) {
	mux, err := NewRealSerialMux("/dev/nonexistent-serial-port-12345", PortOptions{})
	assert.Error(t, err)
	assert.Nil(t, mux)
}
