package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	sreCommon "github.com/devopsext/sre/common"
	sreProvider "github.com/devopsext/sre/provider"
	"github.com/devopsext/utils"
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/netopsext/netbox-sync/common"
	"github.com/netopsext/netbox-sync/discovery"
	"github.com/netopsext/netbox-sync/netbox"
	"github.com/netopsext/netbox-sync/processor"
	"github.com/netopsext/netbox-sync/sink"
)

var version = "unknown"

// .env has to be loaded before the option blocks below capture the environment
var _ = godotenv.Load()

var logs = sreCommon.NewLogs()
var metrics = sreCommon.NewMetrics()
var stdout *sreProvider.Stdout
var mainWG sync.WaitGroup

type RootOptions struct {
	Logs        []string
	Metrics     []string
	PprofListen string
}

var rootOptions = RootOptions{
	Logs:        strings.Split(envGet("LOGS", "stdout").(string), ","),
	Metrics:     strings.Split(envGet("METRICS", "prometheus").(string), ","),
	PprofListen: envGet("PPROF_LISTEN", "").(string),
}

var stdoutOptions = sreProvider.StdoutOptions{
	Format:          envGet("STDOUT_FORMAT", "text").(string),
	Level:           envGet("STDOUT_LEVEL", "info").(string),
	Template:        envGet("STDOUT_TEMPLATE", "{{.file}} {{.msg}}").(string),
	TimestampFormat: envGet("STDOUT_TIMESTAMP_FORMAT", time.RFC3339Nano).(string),
	TextColors:      envGet("STDOUT_TEXT_COLORS", true).(bool),
}

var prometheusMetricsOptions = sreProvider.PrometheusOptions{
	URL:    envGet("PROMETHEUS_METRICS_URL", "/metrics").(string),
	Listen: envGet("PROMETHEUS_METRICS_LISTEN", ":8080").(string),
	Prefix: envGet("PROMETHEUS_METRICS_PREFIX", "netbox_sync").(string),
}

var netboxOptions = netbox.Options{
	URL:      envStringExpand("NETBOX_URL", ""),
	Token:    envGet("NETBOX_TOKEN", "").(string),
	Timeout:  envGet("NETBOX_TIMEOUT", 30).(int),
	Insecure: envGet("NETBOX_INSECURE", false).(bool),
	SiteID:   envGet("NETBOX_SITE_ID", 1).(int),
}

var snmpOptions = discovery.SNMPOptions{
	Community:   envGet("SNMP_COMMUNITY", "public").(string),
	Port:        envGet("SNMP_PORT", 161).(int),
	Timeout:     envGet("SNMP_TIMEOUT", 5).(int),
	Retries:     envGet("SNMP_RETRIES", 1).(int),
	Workers:     envGet("SNMP_WORKERS", 4).(int),
	VLANPattern: envGet("SNMP_VLAN_PATTERN", `^ae\d+\.\d+$`).(string),
	Schedule:    envGet("SNMP_SCHEDULE", "").(string),
}

var staticOptions = discovery.StaticOptions{
	Host:    envGet("HOST", "").(string),
	Targets: envGet("SNMP_TARGETS", "").(string),
}

var inventoryOptions = discovery.InventoryOptions{
	Path: envGet("TARGETS_FILE", "").(string),
}

var netboxDevicesOptions = discovery.NetboxDevicesOptions{
	Enabled: envGet("NETBOX_DEVICES", false).(bool),
	Role:    envGet("NETBOX_DEVICE_ROLE", "").(string),
	Site:    envGet("NETBOX_DEVICE_SITE", "").(string),
	Limit:   envGet("NETBOX_DEVICE_LIMIT", 1000).(int),
}

var filterOptions = processor.FilterOptions{
	Exclusion: envGet("FILTER_EXCLUSION", "").(string),
	JQ:        envFileContentExpand("FILTER_JQ", ""),
}

var netboxSinkOptions = sink.NetboxOptions{
	CacheTTL:         time.Duration(envGet("NETBOX_CACHE_TTL", 3600).(int)) * time.Second,
	VLANNameTemplate: envStringExpand("NETBOX_VLAN_NAME_TEMPLATE", ""),
}

var jsonOptions = sink.JsonOptions{
	Dir:      envGet("JSON_DIR", "").(string),
	Checksum: envGet("JSON_CHECKSUM", true).(bool),
}

var yamlOptions = sink.YamlOptions{
	Dir:      envGet("YAML_DIR", "").(string),
	Checksum: envGet("YAML_CHECKSUM", true).(bool),
}

var observabilityOptions = sink.ObservabilityOptions{
	DiscoveryName: envGet("OBSERVABILITY_DISCOVERY_NAME", "devices").(string),
	TotalName:     envGet("OBSERVABILITY_TOTAL_NAME", "devices_total").(string),
	Labels:        strings.Split(envGet("OBSERVABILITY_LABELS", "site,role,vendor").(string), ","),
}

var pubsubOptions = sink.PubSubOptions{
	Enabled:     envGet("PUBSUB_ENABLED", false).(bool),
	Credentials: envStringExpand("PUBSUB_CREDENTIALS", ""),
	ProjectID:   envGet("PUBSUB_PROJECT_ID", "").(string),
	TopicID:     envGet("PUBSUB_TOPIC_ID", "").(string),
}

func getOnlyEnv(key string) string {
	value, ok := os.LookupEnv(key)
	if ok {
		return value
	}
	return fmt.Sprintf("$%s", key)
}

func envGet(s string, def interface{}) interface{} {
	return utils.EnvGet(s, def)
}

func envStringExpand(s string, def string) string {
	snew := envGet(s, def).(string)
	return os.Expand(snew, getOnlyEnv)
}

func envFileContentExpand(s string, def string) string {
	snew := envGet(s, def).(string)
	bytes, err := utils.Content(snew)
	if err != nil {
		return def
	}
	return os.Expand(string(bytes), getOnlyEnv)
}

func interceptSyscall() {

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-c
		logs.Info("Exiting...")
		os.Exit(1)
	}()
}

func schedule(s *gocron.Scheduler, schedule string, jobFun interface{}) {

	arr := strings.Split(schedule, " ")
	if len(arr) == 1 {
		s.Every(schedule).Do(jobFun)
	} else {
		s.Cron(schedule).Do(jobFun)
	}
}

func Execute() {

	rootCmd := &cobra.Command{
		Use:   "netbox-sync",
		Short: "NetBox SNMP sync",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {

			stdoutOptions.Version = version
			stdout = sreProvider.NewStdout(stdoutOptions)
			if utils.Contains(rootOptions.Logs, "stdout") && stdout != nil {
				stdout.SetCallerOffset(2)
				logs.Register(stdout)
			}

			logs.Info("Booting...")

			// Metrics

			prometheusMetricsOptions.Version = version
			prometheus := sreProvider.NewPrometheusMeter(prometheusMetricsOptions, logs, stdout)
			if utils.Contains(rootOptions.Metrics, "prometheus") && prometheus != nil {
				prometheus.StartInWaitGroup(&mainWG)
				metrics.Register(prometheus)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {

			observability := common.NewObservability(logs, metrics)
			logger := observability.Logs()

			if !utils.IsEmpty(rootOptions.PprofListen) {
				common.NewPprofServer().Start(rootOptions.PprofListen, logs)
			}

			var netboxClient *netbox.Client
			if !utils.IsEmpty(netboxOptions.URL) {
				netboxClient = netbox.New(netboxOptions)
			} else {
				logger.Debug("Netbox has no URL. Sink and device source disabled")
			}

			sinks := common.NewSinks(observability)
			sinks.Add(sink.NewNetbox(netboxSinkOptions, netboxClient, observability))
			sinks.Add(sink.NewJson(jsonOptions, observability))
			sinks.Add(sink.NewYaml(yamlOptions, observability))
			sinks.Add(sink.NewObservability(observabilityOptions, observability))
			sinks.Add(sink.NewPubSub(pubsubOptions, observability))

			processors := common.NewProcessors(observability, sinks)
			processors.Add(processor.NewFilter(filterOptions, observability))

			s := gocron.NewScheduler(time.UTC)
			snmp := discovery.NewSNMP(snmpOptions, observability, processors,
				discovery.NewStatic(staticOptions, observability),
				discovery.NewInventory(inventoryOptions, observability),
				discovery.NewNetboxDevices(netboxDevicesOptions, netboxClient, observability),
			)
			if snmp != nil {
				if !utils.IsEmpty(snmpOptions.Schedule) {
					schedule(s, snmpOptions.Schedule, snmp.Discover)
					logger.Debug("SNMP discovery enabled on schedule: %s", snmpOptions.Schedule)
				} else {
					snmp.Discover()
				}
			} else {
				logger.Debug("SNMP discovery disabled")
			}
			s.StartAsync()

			// stay up only when something is scheduled
			if s.Len() > 0 {
				mainWG.Wait()
			}
		},
	}

	flags := rootCmd.PersistentFlags()

	flags.StringSliceVar(&rootOptions.Logs, "logs", rootOptions.Logs, "Log providers: stdout")
	flags.StringSliceVar(&rootOptions.Metrics, "metrics", rootOptions.Metrics, "Metric providers: prometheus")
	flags.StringVar(&rootOptions.PprofListen, "pprof-listen", rootOptions.PprofListen, "Pprof listen address")

	flags.StringVar(&stdoutOptions.Format, "stdout-format", stdoutOptions.Format, "Stdout format: json, text, template")
	flags.StringVar(&stdoutOptions.Level, "stdout-level", stdoutOptions.Level, "Stdout level: info, warn, error, debug, panic")
	flags.StringVar(&stdoutOptions.Template, "stdout-template", stdoutOptions.Template, "Stdout template")
	flags.StringVar(&stdoutOptions.TimestampFormat, "stdout-timestamp-format", stdoutOptions.TimestampFormat, "Stdout timestamp format")
	flags.BoolVar(&stdoutOptions.TextColors, "stdout-text-colors", stdoutOptions.TextColors, "Stdout text colors")
	flags.BoolVar(&stdoutOptions.Debug, "stdout-debug", stdoutOptions.Debug, "Stdout debug")

	flags.StringVar(&prometheusMetricsOptions.URL, "prometheus-metrics-url", prometheusMetricsOptions.URL, "Prometheus metrics endpoint url")
	flags.StringVar(&prometheusMetricsOptions.Listen, "prometheus-metrics-listen", prometheusMetricsOptions.Listen, "Prometheus metrics listen")
	flags.StringVar(&prometheusMetricsOptions.Prefix, "prometheus-metrics-prefix", prometheusMetricsOptions.Prefix, "Prometheus metrics prefix")

	flags.StringVar(&netboxOptions.URL, "netbox-url", netboxOptions.URL, "Netbox URL")
	flags.StringVar(&netboxOptions.Token, "netbox-token", netboxOptions.Token, "Netbox API token")
	flags.IntVar(&netboxOptions.Timeout, "netbox-timeout", netboxOptions.Timeout, "Netbox timeout in seconds")
	flags.BoolVar(&netboxOptions.Insecure, "netbox-insecure", netboxOptions.Insecure, "Netbox insecure TLS")
	flags.IntVar(&netboxOptions.SiteID, "netbox-site-id", netboxOptions.SiteID, "Netbox site id for created objects")

	flags.StringVar(&snmpOptions.Community, "snmp-community", snmpOptions.Community, "SNMP community")
	flags.IntVar(&snmpOptions.Port, "snmp-port", snmpOptions.Port, "SNMP port")
	flags.IntVar(&snmpOptions.Timeout, "snmp-timeout", snmpOptions.Timeout, "SNMP timeout in seconds")
	flags.IntVar(&snmpOptions.Retries, "snmp-retries", snmpOptions.Retries, "SNMP retries")
	flags.IntVar(&snmpOptions.Workers, "snmp-workers", snmpOptions.Workers, "SNMP concurrent workers")
	flags.StringVar(&snmpOptions.VLANPattern, "snmp-vlan-pattern", snmpOptions.VLANPattern, "SNMP VLAN interface pattern")
	flags.StringVar(&snmpOptions.Schedule, "snmp-schedule", snmpOptions.Schedule, "SNMP discovery schedule, interval (10m) or cron, empty runs once")

	flags.StringVar(&staticOptions.Host, "host", staticOptions.Host, "Single SNMP target host")
	flags.StringVar(&staticOptions.Targets, "snmp-targets", staticOptions.Targets, "SNMP targets: name=host:port,...")
	flags.StringVar(&inventoryOptions.Path, "targets-file", inventoryOptions.Path, "SNMP targets inventory file (toml or yaml)")

	flags.BoolVar(&netboxDevicesOptions.Enabled, "netbox-devices", netboxDevicesOptions.Enabled, "Use Netbox devices as SNMP targets")
	flags.StringVar(&netboxDevicesOptions.Role, "netbox-device-role", netboxDevicesOptions.Role, "Netbox device role slug filter")
	flags.StringVar(&netboxDevicesOptions.Site, "netbox-device-site", netboxDevicesOptions.Site, "Netbox device site slug filter")
	flags.IntVar(&netboxDevicesOptions.Limit, "netbox-device-limit", netboxDevicesOptions.Limit, "Netbox device list limit")

	flags.StringVar(&filterOptions.Exclusion, "filter-exclusion", filterOptions.Exclusion, "Filter exclusion pattern for VLANs and prefixes")
	flags.StringVar(&filterOptions.JQ, "filter-jq", filterOptions.JQ, "Filter jq predicate per report")

	flags.StringVar(&netboxSinkOptions.VLANNameTemplate, "netbox-vlan-name-template", netboxSinkOptions.VLANNameTemplate, "Netbox VLAN name template")
	flags.StringVar(&jsonOptions.Dir, "json-dir", jsonOptions.Dir, "Json directory")
	flags.StringVar(&yamlOptions.Dir, "yaml-dir", yamlOptions.Dir, "Yaml directory")

	flags.BoolVar(&pubsubOptions.Enabled, "pubsub-enabled", pubsubOptions.Enabled, "PubSub enable")
	flags.StringVar(&pubsubOptions.Credentials, "pubsub-credentials", pubsubOptions.Credentials, "PubSub credentials")
	flags.StringVar(&pubsubOptions.ProjectID, "pubsub-project-id", pubsubOptions.ProjectID, "PubSub project id")
	flags.StringVar(&pubsubOptions.TopicID, "pubsub-topic-id", pubsubOptions.TopicID, "PubSub topic id")

	interceptSyscall()

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		logs.Error(err)
		os.Exit(1)
	}
}
