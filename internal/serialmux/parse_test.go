package serialmux

import "testing"

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line, marker, want string
	}{
		{"CSI_DATA: 1 2 3", "", LineTypeCSIFrame},
		{"noise CSI_DATA: 1 2 3", "", LineTypeCSIFrame},
		{"FRAME 1 2", "FRAME", LineTypeCSIFrame},
		{"I (312) CSI: WiFi connected.", "", LineTypeLog},
		{"\x1b[0;32mI (1024) wifi:state: run -> init\x1b[0m", "", LineTypeLog},
		{"W (55) phy_init: saving new calibration data", "", LineTypeLog},
		{"ets Jun  8 2016 00:22:57", "", LineTypeUnknown},
		{"", "", LineTypeUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyLine(tt.line, tt.marker); got != tt.want {
			t.Errorf("ClassifyLine(%q, %q) = %q, want %q", tt.line, tt.marker, got, tt.want)
		}
	}
}
