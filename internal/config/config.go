// Package config loads server/CLI configuration for the three §6 CLIs
// (router, contractor, extractor). Grounded in the retrieval pack's
// sibling repository lintang-b-s-Navigatorx/pkg/util/config.go, which
// reads a config.yaml via github.com/spf13/viper — the teacher itself
// has no config layer, so this concern is enriched from the rest of the
// pack rather than invented. CLI flags layer on top via the standard
// flag package, the way the teacher's cmd/engine/main.go does, and
// override whatever viper loaded from file.
package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/spf13/viper"
)

// ErrUsage is returned for a CLI invocation that violates §6's flag
// contract (e.g. specifying both or neither of <base> and
// --shared-memory for the router).
var ErrUsage = errors.New("config: usage error")

// RouterConfig is the routed server's configuration (§6: "routed <base>
// [--shared-memory] --ip --port --threads --max-viaroute-size
// --max-table-size --max-matching-size --max-trip-size
// --max-nearest-size").
type RouterConfig struct {
	Base         string
	SharedMemory bool

	BindAddress string
	Port        int
	Threads     int

	MaxViaRouteSize int
	MaxTableSize    int
	MaxMatchingSize int
	MaxTripSize     int
	MaxNearestSize  int
}

// ContractorConfig is the offline contractor's configuration (§6:
// "contract <base> with options for thread count, core fraction (0..1),
// edge-weight/turn-penalty override files, and a cache flag").
type ContractorConfig struct {
	Base              string
	Threads           int
	CoreFraction      float64
	EdgeWeightFile    string
	TurnPenaltyFile   string
	ReuseNodeOrdering bool
}

// ExtractorConfig is the offline extractor's configuration.
type ExtractorConfig struct {
	Base        string
	OSMFile     string
	ProfileFile string
}

func defaults() {
	viper.SetDefault("bind_address", "0.0.0.0")
	viper.SetDefault("port", 5000)
	viper.SetDefault("threads", 1)
	viper.SetDefault("max_viaroute_size", 500)
	viper.SetDefault("max_table_size", 100)
	viper.SetDefault("max_matching_size", 100)
	viper.SetDefault("max_trip_size", 100)
	viper.SetDefault("max_nearest_size", 100)
	viper.SetDefault("core_fraction", 1.0)
}

// LoadFile reads config.yaml from configPath (a directory), the way
// ReadConfig in the teacher's sibling repo does, populating viper's
// defaults first so a missing key never panics downstream.
func LoadFile(configPath string) error {
	defaults()
	viper.SetConfigName("config")
	viper.AddConfigPath(configPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read config file: %w", err)
	}
	return nil
}

// ParseRouterFlags parses the router CLI's flags, falling back to
// whatever viper.LoadFile already populated, and enforces the §6
// invariant that exactly one of <base> / --shared-memory is given.
func ParseRouterFlags(args []string) (RouterConfig, error) {
	defaults()
	fs := flag.NewFlagSet("routed", flag.ContinueOnError)
	shared := fs.Bool("shared-memory", false, "attach to a live shared-memory snapshot instead of <base>")
	ip := fs.String("ip", viper.GetString("bind_address"), "bind address")
	port := fs.Int("port", viper.GetInt("port"), "listen port")
	threads := fs.Int("threads", viper.GetInt("threads"), "worker thread count")
	maxViaRoute := fs.Int("max-viaroute-size", viper.GetInt("max_viaroute_size"), "max coordinates per route request")
	maxTable := fs.Int("max-table-size", viper.GetInt("max_table_size"), "max coordinates per table request")
	maxMatching := fs.Int("max-matching-size", viper.GetInt("max_matching_size"), "max trace points per match request")
	maxTrip := fs.Int("max-trip-size", viper.GetInt("max_trip_size"), "max coordinates per trip request")
	maxNearest := fs.Int("max-nearest-size", viper.GetInt("max_nearest_size"), "max results per nearest request")

	if err := fs.Parse(args); err != nil {
		return RouterConfig{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	base := ""
	if fs.NArg() > 0 {
		base = fs.Arg(0)
	}

	if (base == "") == !*shared {
		return RouterConfig{}, fmt.Errorf("%w: exactly one of <base> or --shared-memory is required", ErrUsage)
	}

	return RouterConfig{
		Base:            base,
		SharedMemory:    *shared,
		BindAddress:     *ip,
		Port:            *port,
		Threads:         *threads,
		MaxViaRouteSize: *maxViaRoute,
		MaxTableSize:    *maxTable,
		MaxMatchingSize: *maxMatching,
		MaxTripSize:     *maxTrip,
		MaxNearestSize:  *maxNearest,
	}, nil
}

// ParseContractorFlags parses the contractor CLI's flags (§6: "contract
// <base> ...").
func ParseContractorFlags(args []string) (ContractorConfig, error) {
	defaults()
	fs := flag.NewFlagSet("contract", flag.ContinueOnError)
	threads := fs.Int("threads", viper.GetInt("threads"), "worker thread count")
	coreFraction := fs.Float64("core-fraction", viper.GetFloat64("core_fraction"), "fraction of nodes to contract into the core (0..1)")
	edgeWeightFile := fs.String("edge-weight-file", "", "override edge weight file")
	turnPenaltyFile := fs.String("turn-penalty-file", "", "override turn penalty file")
	reuseCache := fs.Bool("cache", false, "reuse prior node ordering if present")

	if err := fs.Parse(args); err != nil {
		return ContractorConfig{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() < 1 {
		return ContractorConfig{}, fmt.Errorf("%w: <base> is required", ErrUsage)
	}
	if *coreFraction < 0 || *coreFraction > 1 {
		return ContractorConfig{}, fmt.Errorf("%w: core-fraction must be in [0,1]", ErrUsage)
	}

	return ContractorConfig{
		Base:              fs.Arg(0),
		Threads:           *threads,
		CoreFraction:      *coreFraction,
		EdgeWeightFile:    *edgeWeightFile,
		TurnPenaltyFile:   *turnPenaltyFile,
		ReuseNodeOrdering: *reuseCache,
	}, nil
}

// ParseExtractorFlags parses the extractor CLI's flags.
func ParseExtractorFlags(args []string) (ExtractorConfig, error) {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	profile := fs.String("profile", "", "way-classification profile file")

	if err := fs.Parse(args); err != nil {
		return ExtractorConfig{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() < 2 {
		return ExtractorConfig{}, fmt.Errorf("%w: usage: extract <base> <osm-file>", ErrUsage)
	}

	return ExtractorConfig{
		Base:        fs.Arg(0),
		OSMFile:     fs.Arg(1),
		ProfileFile: *profile,
	}, nil
}
