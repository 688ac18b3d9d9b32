package config

import "os"

const (
	defaultBinary              = "bart"
	defaultLogDir              = "~/.local/share/ecalib/logs"
	defaultHistoryPath         = "~/.local/share/ecalib/history.db"
	defaultMinFreeMiB          = 256
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultThreshold           = 0.001
	defaultCrop                = 0.8
	defaultKernelSize          = 6
	defaultCalibrationSize     = 24
	defaultMaps                = 2
	defaultIntensityCorrection = false
	defaultFirstPartOnly       = false
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		BART: BART{
			Binary: defaultBinary,
		},
		Paths: Paths{
			ScratchDir: os.TempDir(),
			LogDir:     defaultLogDir,
			MinFreeMiB: defaultMinFreeMiB,
		},
		Defaults: Defaults{
			Threshold:           defaultThreshold,
			Crop:                defaultCrop,
			KernelSize:          defaultKernelSize,
			CalibrationSize:     defaultCalibrationSize,
			Maps:                defaultMaps,
			IntensityCorrection: defaultIntensityCorrection,
			FirstPartOnly:       defaultFirstPartOnly,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
