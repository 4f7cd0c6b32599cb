package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/logingood/yt-snmp-checks/models"
	"go.uber.org/multierr"
)

// ErrVersionRequested is returned when -V was given.
var ErrVersionRequested = errors.New("version requested")

const maxTimeoutSeconds = 60

type CommonOptions struct {
	Hostname    string `short:"H" long:"hostname" description:"host to query"`
	Community   string `short:"C" long:"community" description:"SNMP v1/v2c community"`
	SnmpVersion string `short:"s" long:"snmp-version" description:"SNMP version (1, 2c, 3 for load checks only)"`
	Port        int    `long:"port" description:"SNMP port, 161 when unset"`
	Timeout     int    `short:"t" long:"timeout" description:"request timeout in seconds" default:"5"`
	PerfData    bool   `short:"d" long:"perfdata" description:"append performance data"`
	Verbose     bool   `short:"v" long:"verbose" description:"debug logging on stderr"`
	Version     bool   `short:"V" long:"version" description:"print the plugin version"`
}

type DiskOptions struct {
	CommonOptions
	Monitor    string `short:"m" long:"monitor" description:"what to check: r=ram v=virtual memory d=disks n=network disks, combined as rvdn"`
	Warning    string `short:"w" long:"warning" description:"warning usage in percent"`
	Critical   string `short:"c" long:"critical" description:"critical usage in percent"`
	Filter     string `short:"f" long:"filter" description:"only check the storage with this description"`
	MaxEntries int    `long:"max-entries" description:"cap on entries per category, 0 for no cap"`
}

type LoadOptions struct {
	CommonOptions
	Mode     string `short:"m" long:"mode" description:"W for hrProcessorLoad percentages, L for UCD load averages"`
	Warning  string `short:"w" long:"warning" description:"warning limit, or three comma separated limits in L mode"`
	Critical string `short:"c" long:"critical" description:"critical limit, or three comma separated limits in L mode"`
	User     string `short:"u" long:"user" description:"SNMP v3 user"`
	AuthPass string `short:"p" long:"auth-password" description:"SNMP v3 auth password"`
	AuthAlgo string `short:"k" long:"auth-protocol" description:"SNMP v3 auth protocol (MD5, SHA, SHA256...)"`
	PrivAlgo string `short:"x" long:"priv-protocol" description:"SNMP v3 privacy protocol (DES, AES, AES256...)"`
	PrivPass string `short:"X" long:"priv-password" description:"SNMP v3 privacy password"`
}

type ProcessOptions struct {
	CommonOptions
	Processes     string  `short:"m" long:"processes" description:"comma separated process names"`
	Warning       string  `short:"w" long:"warning" description:"warning process count"`
	Critical      string  `short:"c" long:"critical" description:"critical process count"`
	RAM           float64 `short:"r" long:"ram" description:"memory ceiling per process name in MB, 0 to skip the memory check" default:"9999"`
	CriticalOnRAM bool    `short:"R" long:"ram-critical" description:"memory above the ceiling is critical instead of warning"`
	WarnOnZero    bool    `short:"A" long:"warn-absent" description:"no matching process is warning instead of critical"`
}

// IsHelp reports a -h request or a bare invocation; err carries the usage.
func IsHelp(err error) bool {
	var ferr *flags.Error
	return errors.As(err, &ferr) && ferr.Type == flags.ErrHelp
}

// parse fills opts from args. A bare invocation behaves like --help.
func parse(name string, opts interface{}, args []string) error {
	if len(args) == 0 {
		args = []string{"--help"}
	}
	parser := flags.NewNamedParser(name, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.AddGroup("Options", "", opts); err != nil {
		return err
	}
	if _, err := parser.ParseArgs(args); err != nil {
		if IsHelp(err) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrConfig, err)
	}
	return nil
}

func ParseDisk(args []string, env *FromEnv) (*Check, error) {
	var opts DiskOptions
	if err := parse("check_snmp_disk", &opts, args); err != nil {
		return nil, err
	}
	return opts.Build(env)
}

func ParseLoad(args []string, env *FromEnv) (*Check, error) {
	var opts LoadOptions
	if err := parse("check_snmp_load", &opts, args); err != nil {
		return nil, err
	}
	return opts.Build(env)
}

func ParseProcess(args []string, env *FromEnv) (*Check, error) {
	var opts ProcessOptions
	if err := parse("check_snmp_process", &opts, args); err != nil {
		return nil, err
	}
	return opts.Build(env)
}

func (o *CommonOptions) build(plugin string, env *FromEnv, allowV3 bool) (*Check, error) {
	if o.Version {
		return nil, ErrVersionRequested
	}

	var errs error
	if o.Hostname == "" {
		errs = multierr.Append(errs, errors.New("hostname (-H) must be set"))
	}
	if o.Timeout <= 0 || o.Timeout > maxTimeoutSeconds {
		errs = multierr.Append(errs, fmt.Errorf("timeout (-t) must be between 1 and %d seconds", maxTimeoutSeconds))
	}
	if o.Port < 0 || o.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("port %d is out of range", o.Port))
	}

	version := ""
	if o.SnmpVersion != "" {
		version = strings.TrimPrefix(strings.ToLower(o.SnmpVersion), "v")
		switch {
		case version == "1" || version == "2c":
		case version == "3" && allowV3:
		default:
			errs = multierr.Append(errs, fmt.Errorf("snmp version %q is not supported", o.SnmpVersion))
		}
	}
	// the inventory may still supply the community
	if version != "3" && o.Community == "" && !env.InventoryEnabled() {
		errs = multierr.Append(errs, errors.New("community (-C) must be set"))
	}

	return &Check{
		Plugin: plugin,
		Device: models.Device{
			Hostname:  models.StringPtr(o.Hostname),
			Community: models.StringPtr(o.Community),
			SnmpVer:   models.StringPtr(version),
			Port:      o.Port,
		},
		Timeout:  time.Duration(o.Timeout) * time.Second,
		PerfData: o.PerfData,
		Verbose:  o.Verbose,
	}, errs
}

var monitorCategories = map[rune]models.Category{
	'r': models.PhysicalMemory,
	'v': models.VirtualMemory,
	'd': models.FixedDisk,
	'n': models.NetworkDisk,
}

func (o *DiskOptions) Build(env *FromEnv) (*Check, error) {
	check, errs := o.CommonOptions.build("check_snmp_disk", env, false)
	if errors.Is(errs, ErrVersionRequested) {
		return nil, errs
	}
	check.Mode = ModeStorage
	check.Filter = o.Filter
	check.MaxPerCategory = o.MaxEntries

	if o.Monitor == "" {
		errs = multierr.Append(errs, errors.New("what to monitor (-m) must be set"))
	}
	seen := make(map[models.Category]bool)
	for _, r := range o.Monitor {
		category, ok := monitorCategories[r]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("unknown flag passed to -m: %c", r))
			continue
		}
		if !seen[category] {
			seen[category] = true
			check.Categories = append(check.Categories, category)
		}
	}
	if o.MaxEntries < 0 {
		errs = multierr.Append(errs, errors.New("max entries must not be negative"))
	}

	errs = multierr.Append(errs, check.setScalarLimits(o.Warning, o.Critical))
	return finish(check, errs)
}

func (o *LoadOptions) Build(env *FromEnv) (*Check, error) {
	check, errs := o.CommonOptions.build("check_snmp_load", env, true)
	if errors.Is(errs, ErrVersionRequested) {
		return nil, errs
	}

	switch strings.ToUpper(o.Mode) {
	case "W":
		check.Mode = ModeProcessorLoad
		errs = multierr.Append(errs, check.setScalarLimits(o.Warning, o.Critical))
	case "L":
		check.Mode = ModeLoadAverage
		errs = multierr.Append(errs, check.setWindowLimits(o.Warning, o.Critical))
	default:
		errs = multierr.Append(errs, errors.New("mode (-m) must be W for windows or L for linux"))
	}

	if models.StringValue(check.Device.SnmpVer) == "3" {
		if o.User == "" || o.AuthPass == "" {
			errs = multierr.Append(errs, errors.New("snmp v3 needs a user (-u) and an auth password (-p)"))
		}
		if (o.PrivAlgo == "") != (o.PrivPass == "") {
			errs = multierr.Append(errs, errors.New("privacy protocol (-x) and privacy password (-X) go together"))
		}
		check.Device.AuthName = models.StringPtr(o.User)
		check.Device.AuthPass = models.StringPtr(o.AuthPass)
		check.Device.AuthAlgo = models.StringPtr(o.AuthAlgo)
		check.Device.CryptoAlgo = models.StringPtr(o.PrivAlgo)
		check.Device.CryptoPass = models.StringPtr(o.PrivPass)
	}
	return finish(check, errs)
}

func (o *ProcessOptions) Build(env *FromEnv) (*Check, error) {
	check, errs := o.CommonOptions.build("check_snmp_process", env, false)
	if errors.Is(errs, ErrVersionRequested) {
		return nil, errs
	}
	check.Mode = ModeProcess
	check.RAMCeilingMB = o.RAM
	check.CriticalOnRAM = o.CriticalOnRAM
	check.WarnOnZero = o.WarnOnZero

	seen := make(map[string]bool)
	for _, name := range strings.Split(o.Processes, ",") {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		check.Processes = append(check.Processes, name)
	}
	if len(check.Processes) == 0 {
		errs = multierr.Append(errs, errors.New("processes to search (-m) must be set"))
	}
	if o.RAM < 0 {
		errs = multierr.Append(errs, errors.New("memory ceiling (-r) must not be negative"))
	}

	errs = multierr.Append(errs, check.setScalarLimits(o.Warning, o.Critical))
	return finish(check, errs)
}

func finish(check *Check, errs error) (*Check, error) {
	if errs != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrConfig, errs)
	}
	return check, nil
}

func (c *Check) setScalarLimits(warning, critical string) error {
	if warning == "" || critical == "" {
		return errors.New("warning (-w) and critical (-c) limits must be set")
	}
	w, errW := parseLimit("warning", warning)
	cr, errC := parseLimit("critical", critical)
	if err := multierr.Combine(errW, errC); err != nil {
		return err
	}
	if w >= cr {
		return fmt.Errorf("warning limit %s must be lower than critical limit %s", warning, critical)
	}
	c.Warning = []float64{w}
	c.Critical = []float64{cr}
	return nil
}

// setWindowLimits accepts one limit for all three windows or three limits.
func (c *Check) setWindowLimits(warning, critical string) error {
	if warning == "" || critical == "" {
		return errors.New("warning (-w) and critical (-c) limits must be set")
	}
	w, errW := parseLimits("warning", warning)
	cr, errC := parseLimits("critical", critical)
	if err := multierr.Combine(errW, errC); err != nil {
		return err
	}
	var errs error
	for i := range w {
		if w[i] >= cr[i] {
			errs = multierr.Append(errs, fmt.Errorf("warning limit %g must be lower than critical limit %g for window %d", w[i], cr[i], i+1))
		}
	}
	if errs != nil {
		return errs
	}
	c.Warning = w
	c.Critical = cr
	return nil
}

func parseLimit(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s limit %q is not a number", name, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s limit %q must not be negative", name, s)
	}
	return v, nil
}

func parseLimits(name, s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return nil, fmt.Errorf("%s limits %q: format is xx or xx,xx,xx", name, s)
	}
	var (
		out  []float64
		errs error
	)
	for _, p := range parts {
		v, err := parseLimit(name, p)
		errs = multierr.Append(errs, err)
		out = append(out, v)
	}
	if errs != nil {
		return nil, errs
	}
	for len(out) < 3 {
		out = append(out, out[0])
	}
	return out, nil
}
