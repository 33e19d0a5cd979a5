package sink

import (
	"fmt"
	"strings"

	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"

	"github.com/netopsext/netbox-sync/common"
)

type ObservabilityOptions struct {
	DiscoveryName string
	TotalName     string
	Providers     []string
	Labels        []string
}

// Observability exports per-cycle metrics: a counter of polled devices
// and per-device gauges with VLAN and prefix counts.
type Observability struct {
	options       ObservabilityOptions
	logger        sreCommon.Logger
	meter         sreCommon.Meter
	observability *common.Observability
}

func (o *Observability) Name() string {
	return "Observability"
}

func (o *Observability) Providers() []string {
	return o.options.Providers
}

func (o *Observability) getDiscoveryName() string {

	if !utils.IsEmpty(o.options.DiscoveryName) {
		return o.options.DiscoveryName
	}
	return "devices"
}

func (o *Observability) getTotalName() string {

	if !utils.IsEmpty(o.options.TotalName) {
		return o.options.TotalName
	}
	return "devices_total"
}

func (o *Observability) filterLabels(labels common.Labels) common.Labels {

	if utils.IsEmpty(o.options.Labels) {
		return common.Labels{}
	}
	r := make(common.Labels)
	for k, v := range labels {
		if utils.Contains(o.options.Labels, k) && !utils.IsEmpty(v) {
			r[k] = v
		}
	}
	return r
}

func (o *Observability) Process(d common.Discovery, so common.SinkObject) {

	dname := d.Name()
	dsource := d.Source()
	m := so.Map()

	o.logger.Debug("Observability has to process %d objects from %s source %s...", len(m), dname, dsource)

	group := strings.ToLower(dname)
	if !utils.IsEmpty(dsource) {
		group = fmt.Sprintf("%s/%s", group, strings.ToLower(dsource))
	}
	o.meter.Group(group).Clear()

	labels := make(sreCommon.Labels)
	labels["provider"] = dname
	if !utils.IsEmpty(dsource) {
		labels["source"] = dsource
	}
	c := o.meter.Counter(group, o.getTotalName(), "Polled devices total", labels)

	dn := o.getDiscoveryName()
	count := 0

	for k, v := range m {

		r, ok := v.(*common.Report)
		if !ok {
			continue
		}
		count++

		labels := make(sreCommon.Labels)
		labels["name"] = k
		labels["host"] = r.Target.Host
		labels["provider"] = dname
		for lk, lv := range o.filterLabels(r.Target.Labels) {
			labels[lk] = lv
		}

		g := o.meter.Gauge(group, fmt.Sprintf("%s_vlans", dn), "Discovered VLANs", labels)
		g.Set(float64(len(r.VLANs)))

		g = o.meter.Gauge(group, fmt.Sprintf("%s_prefixes", dn), "Discovered prefixes", labels)
		g.Set(float64(len(r.Prefixes)))
	}

	if count == 0 {
		o.logger.Debug("Observability has no support for %s source %s", dname, dsource)
		return
	}
	c.Add(count)
}

func NewObservability(options ObservabilityOptions, observability *common.Observability) *Observability {

	logger := observability.Logs()
	meter := observability.Metrics()

	options.Providers = common.RemoveEmptyStrings(options.Providers)
	options.Labels = common.RemoveEmptyStrings(options.Labels)

	return &Observability{
		options:       options,
		logger:        logger,
		meter:         meter,
		observability: observability,
	}
}
