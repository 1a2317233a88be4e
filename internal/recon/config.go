package recon

import "time"

// Config holds the tunable knobs for a scan run. Callers normally get one
// via DefaultConfig and override fields from Viper.
type Config struct {
	PingTimeout  time.Duration `mapstructure:"ping_timeout"`
	PingCount    int           `mapstructure:"ping_count"`
	SweepBatch   int           `mapstructure:"sweep_batch"`
	PortTimeout  time.Duration `mapstructure:"port_timeout"`
	PortWorkers  int           `mapstructure:"port_workers"`
	MDNSTimeout  time.Duration `mapstructure:"mdns_timeout"`
	SSDPTimeout  time.Duration `mapstructure:"ssdp_timeout"`
	NBNSTimeout  time.Duration `mapstructure:"nbns_timeout"`
	DNSTimeout   time.Duration `mapstructure:"dns_timeout"`
}

// DefaultConfig returns the scan defaults used when no configuration file
// overrides them.
func DefaultConfig() Config {
	return Config{
		PingTimeout: 2 * time.Second,
		PingCount:   1,
		SweepBatch:  50,
		PortTimeout: 500 * time.Millisecond,
		PortWorkers: 32,
		MDNSTimeout: 3 * time.Second,
		SSDPTimeout: 3 * time.Second,
		NBNSTimeout: 1 * time.Second,
		DNSTimeout:  500 * time.Millisecond,
	}
}
