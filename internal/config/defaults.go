package config

const (
	defaultLogDir          = "~/.local/share/corpusprep/logs"
	defaultDataSets        = "FINANCE"
	defaultNumWorkers      = 8
	defaultChannels        = 1
	defaultBitDepth        = 16
	defaultSampleRate      = 16000
	defaultExtractor       = ExtractorUnzip
	defaultUnzipBinary     = "unzip"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogMaxSizeMB    = 50
	defaultLogMaxBackups   = 5
	defaultPreflightMinGiB = 20
)

// Extractor names accepted by archive.extractor.
const (
	ExtractorUnzip   = "unzip"
	ExtractorBuiltin = "builtin"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Pipeline: Pipeline{
			DataSets:    defaultDataSets,
			TrainingSet: true,
			NumWorkers:  defaultNumWorkers,
		},
		Audio: Audio{
			Channels:   defaultChannels,
			BitDepth:   defaultBitDepth,
			SampleRate: defaultSampleRate,
		},
		Archive: Archive{
			Extractor:   defaultExtractor,
			UnzipBinary: defaultUnzipBinary,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
		Preflight: Preflight{
			MinFreeGiB: defaultPreflightMinGiB,
		},
	}
}
