package bankledger

type Config struct {
	Storage struct {
		// Backend selects "file" (default) or "postgres".
		Backend          string `yaml:"backend"`
		Dir              string `yaml:"dir"`
		ConnectionString string `yaml:"conn_str"`
	} `yaml:"storage"`
	Listen string `yaml:"listen"`
	Limits struct {
		InFlight       int64 `yaml:"in_flight"`
		AcquireTimeout int   `yaml:"acquire_timeout_ms"`
	} `yaml:"limits"`
}
