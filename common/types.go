package common

import (
	"time"
)

type Labels map[string]string
type LabelsMap map[string]Labels

// Target is a single SNMP-reachable device.
type Target struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	Host      string `json:"host" yaml:"host" toml:"host"`
	Port      uint16 `json:"port,omitempty" yaml:"port,omitempty" toml:"port"`
	Community string `json:"community,omitempty" yaml:"community,omitempty" toml:"community"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty" toml:"version"`
	Labels    Labels `json:"labels,omitempty" yaml:"labels,omitempty" toml:"labels"`
}

// VLAN is a VLAN subinterface discovered on a device, ae0.1000 -> vid 1000.
type VLAN struct {
	VID  int    `json:"vid" yaml:"vid"`
	Name string `json:"name" yaml:"name"`
}

// Prefix is a network in canonical a.b.c.d/len form.
type Prefix struct {
	Prefix string `json:"prefix" yaml:"prefix"`
}

// Report is what one polling cycle produced for one target.
type Report struct {
	Target   Target    `json:"target" yaml:"target"`
	SysName  string    `json:"sys_name,omitempty" yaml:"sys_name,omitempty"`
	SysDescr string    `json:"sys_descr,omitempty" yaml:"sys_descr,omitempty"`
	VLANs    []VLAN    `json:"vlans" yaml:"vlans"`
	Prefixes []Prefix  `json:"prefixes" yaml:"prefixes"`
	Polled   time.Time `json:"polled" yaml:"polled"`
}

func (r *Report) AppendVLAN(v VLAN) {

	for _, e := range r.VLANs {
		if e.VID == v.VID && e.Name == v.Name {
			return
		}
	}
	r.VLANs = append(r.VLANs, v)
}

func (r *Report) AppendPrefix(p Prefix) {

	for _, e := range r.Prefixes {
		if e.Prefix == p.Prefix {
			return
		}
	}
	r.Prefixes = append(r.Prefixes, p)
}

func ConvertReportsToSinkMap(reports []*Report) SinkMap {

	r := make(SinkMap)
	for _, v := range reports {
		if v == nil {
			continue
		}
		r[v.Target.Name] = v
	}
	return r
}
