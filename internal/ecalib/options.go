package ecalib

import (
	"strconv"

	"ecalib/internal/config"
)

// Widget names as they appear on the panel.
const (
	WidgetThreshold           = "threshold"
	WidgetCrop                = "crop value"
	WidgetKernelSize          = "kernel size"
	WidgetCalibrationSize     = "calibration size"
	WidgetMaps                = "number maps"
	WidgetIntensityCorrection = "intensity correction"
	WidgetFirstPartOnly       = "1st part only"
)

// Port names.
const (
	PortKSpace        = "kspace"
	PortSensitivities = "sensitivities"
	PortEVMaps        = "ev_maps"
	PortImgCov        = "imgcov"
)

// Subcommand is the BART tool this package drives.
const Subcommand = "ecalib"

// Options holds one invocation's calibration settings. Values are passed to
// the tool without range checks.
type Options struct {
	Threshold           float64
	Crop                float64
	KernelSize          int
	CalibrationSize     int
	Maps                int
	IntensityCorrection bool
	FirstPartOnly       bool
}

// DefaultOptions returns the panel defaults of the calibration node.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().Defaults)
}

// OptionsFromConfig converts the [defaults] configuration section.
func OptionsFromConfig(d config.Defaults) Options {
	return Options{
		Threshold:           d.Threshold,
		Crop:                d.Crop,
		KernelSize:          d.KernelSize,
		CalibrationSize:     d.CalibrationSize,
		Maps:                d.Maps,
		IntensityCorrection: d.IntensityCorrection,
		FirstPartOnly:       d.FirstPartOnly,
	}
}

// Flags renders the options in the order the tool parses them:
// -t, -c, -k, -r, -m, then -I and -1 when set.
func (o Options) Flags() []string {
	flags := []string{
		"-t", formatFloat(o.Threshold),
		"-c", formatFloat(o.Crop),
		"-k", strconv.Itoa(o.KernelSize),
		"-r", strconv.Itoa(o.CalibrationSize),
		"-m", strconv.Itoa(o.Maps),
	}
	if o.IntensityCorrection {
		flags = append(flags, "-I")
	}
	if o.FirstPartOnly {
		flags = append(flags, "-1")
	}
	return flags
}

// OutputPorts lists the ports the tool's outputs are routed to, in the order
// their paths follow the input on the command line.
func (o Options) OutputPorts() []string {
	if o.FirstPartOnly {
		return []string{PortImgCov}
	}
	return []string{PortSensitivities, PortEVMaps}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
