package discovery

import (
	"fmt"
	"net"
	"net/netip"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	sreCommon "github.com/devopsext/sre/common"
	"github.com/devopsext/utils"
	g "github.com/gosnmp/gosnmp"
	"github.com/pkg/errors"

	"github.com/netopsext/netbox-sync/common"
)

const (
	oidSysDescr       = ".1.3.6.1.2.1.1.1.0"
	oidSysName        = ".1.3.6.1.2.1.1.5.0"
	oidIfDescr        = ".1.3.6.1.2.1.2.2.1.2"
	oidIPAdEntNetMask = ".1.3.6.1.2.1.4.20.1.3"
)

type SNMPOptions struct {
	Community   string
	Port        int
	Timeout     int
	Retries     int
	Workers     int
	VLANPattern string
	Schedule    string
}

// SNMP polls the targets of all registered sources and reports VLAN
// subinterfaces and connected subnets per device.
type SNMP struct {
	options       SNMPOptions
	logger        sreCommon.Logger
	observability *common.Observability
	processors    *common.Processors
	sources       []TargetSource
	vlanRe        *regexp.Regexp
}

type SNMPSinkObject struct {
	sinkMap common.SinkMap
	snmp    *SNMP
}

func (so *SNMPSinkObject) Map() common.SinkMap {
	return so.sinkMap
}

func (so *SNMPSinkObject) Options() interface{} {
	return so.snmp.options
}

func (s *SNMP) Name() string {
	return "SNMP"
}

func (s *SNMP) Source() string {
	return ""
}

func (s *SNMP) gatherTargets() []common.Target {

	seen := make(map[string]bool)
	var r []common.Target

	defaults := common.Target{
		Port:      uint16(s.options.Port),
		Community: s.options.Community,
		Version:   "2c",
	}

	for _, src := range s.sources {
		targets, err := src.Targets()
		if err != nil {
			s.logger.Error("SNMP source %s failed: %s", src.Name(), err)
			continue
		}
		for _, t := range targets {
			t = common.MergeTargetDefaults(t, defaults)
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			r = append(r, t)
		}
	}
	return r
}

func snmpVersion(s string) g.SnmpVersion {

	switch strings.TrimSpace(s) {
	case "1":
		return g.Version1
	default:
		return g.Version2c
	}
}

func pduString(pdu g.SnmpPDU) string {

	switch v := pdu.Value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// matchVLAN reports whether an interface description is a VLAN
// subinterface and extracts the VLAN ID from the suffix after the last
// dot, ae0.1000 -> 1000. A non-numeric suffix yields vid 0.
func (s *SNMP) matchVLAN(descr string) (common.VLAN, bool) {

	if !s.vlanRe.MatchString(descr) {
		return common.VLAN{}, false
	}

	vid := 0
	if idx := strings.LastIndex(descr, "."); idx >= 0 {
		if n, err := strconv.Atoi(descr[idx+1:]); err == nil {
			vid = n
		}
	}
	return common.VLAN{VID: vid, Name: descr}, true
}

// prefixFromOID derives a canonical network prefix from an
// ipAdEntNetMask table entry: the last 4 OID components are the address,
// the value is the netmask. Host bits are masked away.
func prefixFromOID(oid string, mask string) (string, error) {

	parts := strings.Split(strings.Trim(oid, "."), ".")
	if len(parts) < 4 {
		return "", errors.Errorf("snmp oid %s is too short for an address", oid)
	}

	addr, err := netip.ParseAddr(strings.Join(parts[len(parts)-4:], "."))
	if err != nil {
		return "", errors.Wrapf(err, "snmp oid %s", oid)
	}

	m := net.ParseIP(mask)
	if m == nil || m.To4() == nil {
		return "", errors.Errorf("snmp netmask %s is invalid", mask)
	}
	ones, bits := net.IPMask(m.To4()).Size()
	if bits == 0 {
		return "", errors.Errorf("snmp netmask %s is not canonical", mask)
	}

	return netip.PrefixFrom(addr, ones).Masked().String(), nil
}

func (s *SNMP) pollTarget(t common.Target) (*common.Report, error) {

	conn := &g.GoSNMP{
		Target:    t.Host,
		Port:      t.Port,
		Community: t.Community,
		Version:   snmpVersion(t.Version),
		Timeout:   time.Duration(s.options.Timeout) * time.Second,
		Retries:   s.options.Retries,
	}

	if err := conn.Connect(); err != nil {
		return nil, errors.Wrapf(err, "snmp connect %s", t.Address())
	}
	defer conn.Conn.Close()

	report := &common.Report{
		Target: t,
		Polled: time.Now().UTC(),
	}

	if packet, err := conn.Get([]string{oidSysDescr, oidSysName}); err == nil && packet.Error == g.NoError {
		for _, v := range packet.Variables {
			switch strings.Trim(v.Name, ".") {
			case strings.Trim(oidSysDescr, "."):
				report.SysDescr = pduString(v)
			case strings.Trim(oidSysName, "."):
				report.SysName = pduString(v)
			}
		}
	}

	interfaces, err := conn.WalkAll(oidIfDescr)
	if err != nil {
		return nil, errors.Wrapf(err, "snmp walk ifDescr %s", t.Address())
	}
	for _, pdu := range interfaces {
		if vlan, ok := s.matchVLAN(pduString(pdu)); ok {
			report.AppendVLAN(vlan)
		}
	}

	masks, err := conn.WalkAll(oidIPAdEntNetMask)
	if err != nil {
		return nil, errors.Wrapf(err, "snmp walk ipAdEntNetMask %s", t.Address())
	}
	for _, pdu := range masks {
		prefix, err := prefixFromOID(pdu.Name, pduString(pdu))
		if err != nil {
			s.logger.Debug("SNMP %s: %s", t.Name, err)
			continue
		}
		report.AppendPrefix(common.Prefix{Prefix: prefix})
	}

	return report, nil
}

func (s *SNMP) poll(targets []common.Target) []*common.Report {

	workers := s.options.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	jobs := make(chan common.Target)
	var reports []*common.Report
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range jobs {
				report, err := s.pollTarget(t)
				if err != nil {
					s.logger.Error("SNMP %s failed: %s", t.Name, err)
					continue
				}
				s.logger.Debug("SNMP %s: %d vlans, %d prefixes", t.Name, len(report.VLANs), len(report.Prefixes))
				mu.Lock()
				reports = append(reports, report)
				mu.Unlock()
			}
		}()
	}

	for _, t := range targets {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	return reports
}

func (s *SNMP) Discover() {

	targets := s.gatherTargets()
	if len(targets) == 0 {
		s.logger.Debug("SNMP has no targets")
		return
	}
	s.logger.Debug("SNMP polling %d targets...", len(targets))

	reports := s.poll(targets)
	m := common.ConvertReportsToSinkMap(reports)
	if len(m) == 0 {
		s.logger.Debug("SNMP has no reports")
		return
	}
	s.logger.Debug("SNMP produced %d reports. Processing...", len(m))

	s.processors.Process(s, &SNMPSinkObject{
		sinkMap: m,
		snmp:    s,
	})
}

func NewSNMP(options SNMPOptions, observability *common.Observability, processors *common.Processors, sources ...TargetSource) *SNMP {

	logger := observability.Logs()

	var active []TargetSource
	for _, src := range sources {
		if src == nil || reflect.ValueOf(src).IsNil() {
			continue
		}
		active = append(active, src)
	}

	if len(active) == 0 {
		logger.Debug("SNMP has no target sources. Skipped")
		return nil
	}

	if utils.IsEmpty(options.VLANPattern) {
		options.VLANPattern = `^ae\d+\.\d+$`
	}
	vlanRe, err := regexp.Compile(options.VLANPattern)
	if err != nil {
		logger.Error("SNMP vlan pattern is invalid: %s", err)
		return nil
	}

	return &SNMP{
		options:       options,
		logger:        logger,
		observability: observability,
		processors:    processors,
		sources:       active,
		vlanRe:        vlanRe,
	}
}
