package executor

// Config sizes an Executor.
type Config struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

// NewConfig returns a Config, replacing non-positive values with defaults.
func NewConfig(bufferSize int, numWorkers int) Config {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return Config{
		BufferSize: bufferSize,
		NumWorkers: numWorkers,
	}
}
