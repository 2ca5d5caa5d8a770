package csi

import "errors"

// ErrEmptyDataset is returned when a capture yields no accepted frames.
var ErrEmptyDataset = errors.New("csi: no CSI frames found")
