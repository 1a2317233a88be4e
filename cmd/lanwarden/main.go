package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lanwarden/lanwarden/internal/config"
	"github.com/lanwarden/lanwarden/internal/metrics"
	"github.com/lanwarden/lanwarden/internal/recon"
	"github.com/lanwarden/lanwarden/internal/report"
	"github.com/lanwarden/lanwarden/internal/store"
	"github.com/lanwarden/lanwarden/pkg/models"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	subnetFlag := flag.String("subnet", "", "subnet to scan in CIDR form, e.g. 192.168.1.0/24 (autodetected from the local interface if omitted)")
	levelFlag := flag.Int("level", 2, "scan level: 1=basic, 2=standard, 3=deep")
	formatFlag := flag.String("format", "text", "report format: text, html, json")
	dbPathFlag := flag.String("db", "", "path to results database (defaults to database.path in config)")
	configPath := flag.String("config", "", "path to configuration file")
	noSaveFlag := flag.Bool("no-save", false, "skip writing the scan result to the database")
	metricsFileFlag := flag.String("metrics-file", "", "write scan metrics to this path in Prometheus textfile-collector format")
	flag.Parse()

	var subnet *net.IPNet
	if *subnetFlag == "" {
		iface, err := recon.SelectInterface()
		if err != nil {
			fmt.Fprintf(os.Stderr, "lanwarden: no -subnet given and interface autodetection failed: %v\n", err)
			os.Exit(1)
		}
		subnet = iface
	} else {
		_, parsed, err := net.ParseCIDR(*subnetFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lanwarden: invalid subnet %q: %v\n", *subnetFlag, err)
			os.Exit(1)
		}
		subnet = parsed
	}

	level := models.ScanLevel(*levelFlag)
	if level < models.ScanLevelBasic || level > models.ScanLevelDeep {
		fmt.Fprintf(os.Stderr, "lanwarden: invalid -level %d, must be 1, 2 or 3\n", *levelFlag)
		os.Exit(1)
	}

	viperCfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal, cancelling scan", zap.String("signal", sig.String()))
		cancel()
	}()

	reconCfg := recon.DefaultConfig()
	if err := viperCfg.Sub("recon").Unmarshal(&reconCfg); err != nil {
		logger.Warn("failed to read recon configuration, using defaults", zap.Error(err))
	}

	orchestrator := recon.NewOrchestrator(reconCfg, logger, func(p models.ScanProgress) {
		logger.Info("scan progress",
			zap.String("phase", p.Phase),
			zap.Int("progress", p.Progress),
			zap.String("message", p.Message),
		)
	})

	logger.Info("starting scan", zap.String("subnet", subnet.String()), zap.Int("level", int(level)))
	start := time.Now()
	result, err := orchestrator.Run(ctx, subnet, level)
	if err != nil {
		logger.Fatal("scan failed", zap.Error(err))
	}
	duration := time.Since(start)
	logger.Info("scan complete", zap.Int("devices", len(result.Devices)), zap.Float64("average_score", result.AverageScore))

	if *metricsFileFlag != "" {
		collector := metrics.NewCollector()
		collector.Observe(result, duration.Seconds())
		if err := collector.WriteTextfile(*metricsFileFlag); err != nil {
			logger.Error("failed to write metrics textfile", zap.Error(err))
		}
	}

	if !*noSaveFlag {
		dbPath := *dbPathFlag
		if dbPath == "" {
			dbPath = viperCfg.GetString("database.path")
		}
		if dbPath == "" {
			dbPath = "lanwarden.db"
		}
		if err := saveResult(ctx, dbPath, result); err != nil {
			logger.Error("failed to save scan result", zap.Error(err))
		} else {
			logger.Info("scan result saved", zap.String("path", dbPath))
		}
	}

	out, err := report.Generate(result, report.Format(*formatFlag))
	if err != nil {
		logger.Fatal("failed to render report", zap.Error(err))
	}
	fmt.Println(out)
}

func saveResult(ctx context.Context, dbPath string, result *models.ScanResult) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	scans, err := store.NewScanStore(ctx, db)
	if err != nil {
		return fmt.Errorf("init scan store: %w", err)
	}
	return scans.SaveScan(ctx, result)
}

// loadConfig reads configuration from file and environment variables,
// falling back to sensible defaults for a single-user desktop tool.
func loadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", "lanwarden.db")
	v.SetDefault("recon.ping_timeout", "2s")
	v.SetDefault("recon.ping_count", 1)
	v.SetDefault("recon.sweep_batch", 50)
	v.SetDefault("recon.port_timeout", "500ms")
	v.SetDefault("recon.port_workers", 32)
	v.SetDefault("recon.mdns_timeout", "3s")
	v.SetDefault("recon.ssdp_timeout", "3s")
	v.SetDefault("recon.nbns_timeout", "1s")
	v.SetDefault("recon.dns_timeout", "500ms")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("lanwarden")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lanwarden")
		v.AddConfigPath("/etc/lanwarden")
	}

	v.SetEnvPrefix("LANWARDEN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}
