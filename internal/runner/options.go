package runner

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	"github.com/projectdiscovery/wol/pkg/neighbor"
	"github.com/projectdiscovery/wol/pkg/version"
	"github.com/projectdiscovery/wol/pkg/wake"
)

// DefaultAddress is the limited broadcast address used when no target is given
const DefaultAddress = "255.255.255.255"

var (
	PortEnv           = envutil.GetEnvOrDefault("WOL_PORT", strconv.Itoa(wake.DefaultPort))
	NeighborSourceEnv = envutil.GetEnvOrDefault("WOL_NEIGHBOR_SOURCE", neighbor.SourceAuto)
	VerboseEnv        = envutil.GetEnvOrDefault("WOL_VERBOSE", "false")
)

// Options contains the configuration options for waking hosts
type Options struct {
	IPv4 goflags.StringSlice
	IPv6 goflags.StringSlice
	Port int

	NeighborSource string
	Timeout        time.Duration
	CacheSize      int

	Concurrency int

	ListNeighbors bool
	Version       bool
	Verbose       bool
	Silent        bool
	NoColor       bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`wol resolves the hardware address of a host from the neighbor table and sends it a Wake-on-LAN magic packet`)

	defaultPort := wake.DefaultPort
	if val, err := strconv.Atoi(PortEnv); err == nil {
		defaultPort = val
	}

	flagSet.CreateGroup("target", "Target",
		flagSet.StringSliceVarP(&options.IPv4, "ipv4", "4", nil, "IPv4 broadcast or host address to wake (comma separated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.StringSliceVarP(&options.IPv6, "ipv6", "6", nil, "IPv6 multicast or host address to wake (comma separated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.IntVarP(&options.Port, "port", "p", defaultPort, "destination UDP port"),
	)

	flagSet.CreateGroup("resolver", "Resolver",
		flagSet.StringVarP(&options.NeighborSource, "neighbor-source", "ns", NeighborSourceEnv, fmt.Sprintf("neighbor table source (%s)", strings.Join(append([]string{neighbor.SourceAuto}, neighbor.Sources()...), ", "))),
		flagSet.DurationVar(&options.Timeout, "timeout", 5*time.Second, "time limit for resolving and sending one magic packet"),
		flagSet.IntVar(&options.CacheSize, "cache-size", 256, "number of resolved addresses to remember when waking several hosts (0 to disable)"),
	)

	flagSet.CreateGroup("batch", "Batch",
		flagSet.IntVarP(&options.Concurrency, "concurrency", "c", 1, "number of hosts to wake in parallel"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVarP(&options.ListNeighbors, "list-neighbors", "ln", false, "list the neighbor table then exit"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only errors"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if verbose := VerboseEnv; (verbose == "true" || verbose == "1") && !options.Verbose {
		options.Verbose = true
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if err := options.validate(); err != nil {
		gologger.Fatal().Msgf("Program exiting: %s\n", err)
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

// validate rejects options that would fail every wake, before any table is read
func (options *Options) validate() error {
	if options.Port <= 0 || options.Port > math.MaxUint16 {
		return fmt.Errorf("port %d is not in 1-%d", options.Port, math.MaxUint16)
	}
	if options.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if options.CacheSize < 0 {
		return errors.New("cache size must not be negative")
	}
	if options.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// requests returns one wake request per target, IPv4 targets first
func (options *Options) requests() []wake.Request {
	var requests []wake.Request
	for _, addr := range options.IPv4 {
		requests = append(requests, wake.Request{Address: strings.TrimSpace(addr), Port: uint(options.Port)})
	}
	for _, addr := range options.IPv6 {
		requests = append(requests, wake.Request{Address: strings.TrimSpace(addr), Port: uint(options.Port), IPv6: true})
	}
	if len(requests) == 0 {
		requests = append(requests, wake.Request{Address: DefaultAddress, Port: uint(options.Port)})
	}
	return requests
}
